package state

import (
	"testing"
	"time"

	"github.com/atomicstack/listy-city/internal/city"
)

func TestCityStoreStartsUnsynced(t *testing.T) {
	s := NewCityStore()
	if s.Synced() || s.Len() != 0 {
		t.Fatalf("expected empty unsynced store")
	}
	if _, ok := s.At(0); ok {
		t.Fatalf("expected At(0) to miss on empty store")
	}
}

func TestCityStoreSetEntriesCopies(t *testing.T) {
	s := NewCityStore()
	in := []city.City{city.New("Calgary", "AB"), city.New("Regina", "SK")}
	now := time.Now()
	s.SetEntries(in, now)
	in[0].Name = "mutated"

	got, ok := s.At(0)
	if !ok || got.Name != "Calgary" {
		t.Fatalf("expected stored copy, got %+v", got)
	}
	out := s.Entries()
	out[1].Name = "mutated"
	if again, _ := s.At(1); again.Name != "Regina" {
		t.Fatalf("Entries must return a copy, got %+v", again)
	}
	if !s.Synced() || !s.SyncedAt().Equal(now) {
		t.Fatalf("expected synced at %v", now)
	}
}

func TestCityStoreAtBounds(t *testing.T) {
	s := NewCityStore()
	s.SetEntries([]city.City{city.New("A", "")}, time.Now())
	for _, idx := range []int{-1, 1, 5} {
		if _, ok := s.At(idx); ok {
			t.Fatalf("expected At(%d) to miss", idx)
		}
	}
}
