package events

import "github.com/atomicstack/listy-city/internal/logging"

type StoreTracer struct{}

type GestureTracer struct{}

var (
	Store   = StoreTracer{}
	Gesture = GestureTracer{}
)

func (StoreTracer) Open(backend, collection string) {
	logging.Trace("store.open", map[string]interface{}{"backend": backend, "collection": collection})
}

func (StoreTracer) Seed(collection string, written int) {
	logging.Trace("store.seed", map[string]interface{}{"collection": collection, "written": written})
}

func (StoreTracer) Snapshot(collection string, documents int) {
	logging.Trace("store.snapshot", map[string]interface{}{"collection": collection, "documents": documents})
}

func (StoreTracer) Fetch(collection, key string) {
	logging.Trace("store.fetch", map[string]interface{}{"collection": collection, "key": key})
}

func (StoreTracer) Result(kind, key string, err error) {
	payload := map[string]interface{}{"kind": kind, "key": key}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("store.result", payload)
}

func (GestureTracer) Press(x, y, pos int) {
	logging.Trace("gesture.press", map[string]interface{}{"x": x, "y": y, "pos": pos})
}

func (GestureTracer) Swipe(pos int, name string) {
	logging.Trace("gesture.swipe", map[string]interface{}{"pos": pos, "name": name})
}

func (GestureTracer) Release(consumed bool) {
	logging.Trace("gesture.release", map[string]interface{}{"consumed": consumed})
}

func (GestureTracer) Cancel(reason string) {
	logging.Trace("gesture.cancel", map[string]interface{}{"reason": reason})
}
