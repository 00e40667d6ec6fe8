package dispatcher

import (
	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/state"
)

type Result struct {
	CitiesUpdated bool
	Err           error
}

type Dispatcher struct {
	cities state.CityStore
}

func New(c state.CityStore) *Dispatcher {
	return &Dispatcher{cities: c}
}

// Handle rebuilds the city cache from a snapshot event, in delivery order.
// Error events leave the cache untouched.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	docs := evt.Snapshot.Documents
	entries := make([]city.City, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, city.FromFields(doc.Fields))
	}
	d.cities.SetEntries(entries, evt.Snapshot.ReadAt)
	res.CitiesUpdated = true
	return res
}
