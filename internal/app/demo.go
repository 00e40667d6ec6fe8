package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/docstore"
	"golang.org/x/sync/errgroup"
)

// seedWorkers bounds the concurrent writes of SeedDemo.
const seedWorkers = 4

// DemoDocuments seeds the memory backend so a first run has rows to work with.
func DemoDocuments() []docstore.Document {
	cities := []city.City{
		city.New("Edmonton", "AB"),
		city.New("Vancouver", "BC"),
		city.New("Toronto", "ON"),
		city.New("Halifax", "NS"),
	}
	docs := make([]docstore.Document, len(cities))
	for i, c := range cities {
		docs[i] = docstore.Document{Key: c.Key(), Fields: c.Fields()}
	}
	return docs
}

// SeedDemo writes the demo cities collection does not hold yet and reports
// how many it wrote. Documents already present are left alone. The first
// failure cancels the writes still pending.
func SeedDemo(ctx context.Context, store docstore.Store, collection string) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedWorkers)
	var written atomic.Int32
	for _, doc := range DemoDocuments() {
		g.Go(func() error {
			_, err := store.Get(gctx, collection, doc.Key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, docstore.ErrNotFound) {
				return fmt.Errorf("seed %s: %w", doc.Key, err)
			}
			if err := store.Set(gctx, collection, doc.Key, doc.Fields); err != nil {
				return fmt.Errorf("seed %s: %w", doc.Key, err)
			}
			written.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}
