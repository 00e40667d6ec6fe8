package state

import (
	"time"

	"github.com/atomicstack/listy-city/internal/city"
)

// CityStore is the local cache of the subscribed collection. It is only ever
// replaced wholesale from a store push.
type CityStore interface {
	Entries() []city.City
	SetEntries(entries []city.City, syncedAt time.Time)
	Len() int
	At(index int) (city.City, bool)
	Synced() bool
	SyncedAt() time.Time
}

type cityStore struct {
	entries  []city.City
	synced   bool
	syncedAt time.Time
}

func NewCityStore() CityStore {
	return &cityStore{}
}

func (c *cityStore) Entries() []city.City {
	return cloneCities(c.entries)
}

func (c *cityStore) SetEntries(entries []city.City, syncedAt time.Time) {
	c.entries = cloneCities(entries)
	c.synced = true
	c.syncedAt = syncedAt
}

func (c *cityStore) Len() int {
	return len(c.entries)
}

func (c *cityStore) At(index int) (city.City, bool) {
	if index < 0 || index >= len(c.entries) {
		return city.City{}, false
	}
	return c.entries[index], true
}

func (c *cityStore) Synced() bool {
	return c.synced
}

func (c *cityStore) SyncedAt() time.Time {
	return c.syncedAt
}

func cloneCities(entries []city.City) []city.City {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]city.City, len(entries))
	copy(dup, entries)
	return dup
}
