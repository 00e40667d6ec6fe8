// Package screen holds the city list controller: the toolkit-independent
// half of the main screen. It owns the cache, turns user intents into remote
// mutations and interprets pointer gestures. Rendering and toasts go through
// the Renderer and Notifier it is given.
package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/data/dispatcher"
	"github.com/atomicstack/listy-city/internal/docstore"
	"github.com/atomicstack/listy-city/internal/gesture"
	"github.com/atomicstack/listy-city/internal/logging"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/state"
	"go.uber.org/zap"
)

// EmptyNameMessage is shown when a city is submitted without a name.
const EmptyNameMessage = "City name cannot be empty"

// ErrEmptyName is the validation failure behind EmptyNameMessage.
var ErrEmptyName = errors.New("city name cannot be empty")

// Renderer redraws the list from the cache.
type Renderer interface {
	Refresh(cities []city.City)
}

// Notifier shows a transient message.
type Notifier interface {
	Notify(message string)
}

// Controller drives the city list.
type Controller struct {
	collection string
	store      docstore.Mutator
	cache      state.CityStore
	dispatcher *dispatcher.Dispatcher
	renderer   Renderer
	notifier   Notifier
	tracker    *gesture.Tracker
}

// New builds a controller writing to collection on store.
func New(collection string, store docstore.Mutator, cache state.CityStore, renderer Renderer, notifier Notifier) *Controller {
	if cache == nil {
		cache = state.NewCityStore()
	}
	return &Controller{
		collection: collection,
		store:      store,
		cache:      cache,
		dispatcher: dispatcher.New(cache),
		renderer:   renderer,
		notifier:   notifier,
		tracker:    gesture.NewTracker(),
	}
}

// Collection returns the collection the controller writes to.
func (c *Controller) Collection() string {
	return c.collection
}

// Cache exposes the city cache for read access.
func (c *Controller) Cache() state.CityStore {
	return c.cache
}

// Cities returns a copy of the cached cities in push order.
func (c *Controller) Cities() []city.City {
	return c.cache.Entries()
}

// ApplyEvent handles one subscription push. Snapshots replace the cache and
// trigger exactly one render; errors are logged and leave the cache as is.
func (c *Controller) ApplyEvent(evt backend.Event) bool {
	res := c.dispatcher.Handle(evt)
	if res.Err != nil {
		logging.Failure("snapshot listener error", res.Err, zap.String("collection", evt.Collection))
		return false
	}
	if !res.CitiesUpdated {
		return false
	}
	events.Store.Snapshot(evt.Collection, c.cache.Len())
	if c.renderer != nil {
		c.renderer.Refresh(c.cache.Entries())
	}
	return true
}

func (c *Controller) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

// AddCity validates cty and returns the write for it. A blank name is
// toasted at once and the returned Op reports ErrEmptyName without touching
// the store. A nil cty yields nil.
func (c *Controller) AddCity(cty *city.City) Op {
	if cty == nil {
		return nil
	}
	cleaned := cty.Trimmed()
	if cleaned.Name == "" {
		return c.reject(KindAdd, "")
	}
	events.City.Add(cleaned.Name, cleaned.Province)
	return c.setOp(KindAdd, cleaned)
}

// UpdateCity validates the edit of original and returns the write for it.
// Blank names are rejected as in AddCity. A changed name is a rename: the old
// document is deleted first and the new one created only if that succeeded.
func (c *Controller) UpdateCity(original *city.City, newName, newProvince string) Op {
	if original == nil {
		return nil
	}
	oldKey := original.Key()
	updated := city.New(newName, newProvince).Trimmed()
	if updated.Name == "" {
		return c.reject(KindUpdate, oldKey)
	}
	if oldKey == updated.Name {
		events.City.Update(updated.Name, updated.Province)
		return c.setOp(KindUpdate, updated)
	}
	events.City.Rename(oldKey, updated.Name)
	return c.renameOp(*original, updated)
}

// DeleteCity returns the delete for cty, keyed by its trimmed name. Blank
// names produce no remote call.
func (c *Controller) DeleteCity(cty *city.City) Op {
	if cty == nil {
		return nil
	}
	key := cty.Key()
	if key == "" {
		return nil
	}
	events.City.Delete(key)
	store, collection := c.store, c.collection
	return func(ctx context.Context) Result {
		res := Result{Kind: KindDelete, Key: key}
		if err := store.Delete(ctx, collection, key); err != nil {
			res.Err = fmt.Errorf("delete %s: %w", key, err)
		}
		return res
	}
}

// reject toasts the validation failure and returns an Op that reports it.
func (c *Controller) reject(kind Kind, key string) Op {
	events.City.Rejected(events.CityReasonEmpty)
	c.notify(EmptyNameMessage)
	return func(context.Context) Result {
		return Result{Kind: kind, Key: key, Err: ErrEmptyName}
	}
}

func (c *Controller) setOp(kind Kind, cty city.City) Op {
	store, collection := c.store, c.collection
	return func(ctx context.Context) Result {
		res := Result{Kind: kind, Key: cty.Name}
		if err := store.Set(ctx, collection, cty.Name, cty.Fields()); err != nil {
			res.Err = fmt.Errorf("%s %s: %w", kind, cty.Name, err)
		}
		return res
	}
}

func (c *Controller) renameOp(original, updated city.City) Op {
	store, collection := c.store, c.collection
	oldKey := original.Key()
	return func(ctx context.Context) Result {
		res := Result{Kind: KindRename, Key: oldKey, NewKey: updated.Name}
		if err := store.Delete(ctx, collection, oldKey); err != nil {
			res.Err = fmt.Errorf("rename %s: delete: %w", oldKey, err)
			return res
		}
		if err := store.Set(ctx, collection, updated.Name, updated.Fields()); err != nil {
			res.Err = fmt.Errorf("rename %s to %s: create: %w", oldKey, updated.Name, err)
			if rerr := store.Set(ctx, collection, oldKey, original.Fields()); rerr != nil {
				res.RestoreErr = fmt.Errorf("restore %s: %w", oldKey, rerr)
			} else {
				res.Restored = true
			}
		}
		return res
	}
}

// HandleResult applies the failure policy for finished mutations: failures
// are logged and otherwise ignored. The cache is never touched here.
func (c *Controller) HandleResult(res Result) {
	events.Store.Result(res.Kind.String(), res.Key, res.Err)
	if !res.Failed() {
		return
	}
	if errors.Is(res.Err, ErrEmptyName) {
		// already toasted when the edit was submitted
		logging.Warn("city rejected", zap.Stringer("kind", res.Kind), zap.String("key", res.Key))
		return
	}
	fields := []zap.Field{zap.String("collection", c.collection), zap.String("key", res.Key)}
	if res.NewKey != "" {
		fields = append(fields, zap.String("new_key", res.NewKey))
	}
	switch res.Kind {
	case KindAdd:
		logging.Failure("add failed", res.Err, fields...)
	case KindUpdate:
		logging.Failure("update failed", res.Err, fields...)
	case KindRename:
		logging.Failure("rename failed", res.Err, append(fields, zap.Bool("restored", res.Restored))...)
		if res.RestoreErr != nil {
			logging.Failure("rename restore failed", res.RestoreErr, fields...)
		}
	case KindDelete:
		logging.Failure("delete failed", res.Err, fields...)
	default:
		logging.Failure("store operation failed", res.Err, fields...)
	}
}

// ChooserTitle is the title of the Edit/Delete chooser for cty.
func ChooserTitle(cty city.City) string {
	return cty.Label()
}

// ConfirmText is the delete confirmation question for cty.
func ConfirmText(cty city.City) string {
	return fmt.Sprintf("Delete %s?", cty.Label())
}

// DeletedMessage is the toast shown after a swipe delete.
func DeletedMessage(cty city.City) string {
	return "Deleted: " + cty.Name
}
