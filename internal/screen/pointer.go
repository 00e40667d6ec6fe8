package screen

import (
	"github.com/atomicstack/listy-city/internal/gesture"
	"github.com/atomicstack/listy-city/internal/logging"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"go.uber.org/zap"
)

// PointerDown starts tracking a gesture at pixel (x, y) over cache index pos,
// or gesture.NoPosition when the press missed every row.
func (c *Controller) PointerDown(x, y, pos int) {
	name := ""
	if cty, ok := c.cache.At(pos); ok {
		name = cty.Name
	} else {
		pos = gesture.NoPosition
	}
	events.Gesture.Press(x, y, pos)
	c.tracker.Press(x, y, pos, name)
}

// PointerMove feeds a drag. It reports true once the drag has become a
// swipe; from then on the list must not scroll or move its cursor.
func (c *Controller) PointerMove(x, y int) bool {
	c.tracker.Move(x, y)
	return c.tracker.Swiping()
}

// PointerUp ends the gesture. When the gesture was a swipe over a row that
// still holds the city pressed, it returns the delete for that city, shows
// the toast and reports the event consumed.
func (c *Controller) PointerUp() (Op, bool) {
	swipe, ok := c.tracker.Release()
	if !ok {
		events.Gesture.Release(false)
		return nil, false
	}
	live, inRange := c.cache.At(swipe.Pos)
	if !inRange {
		events.Gesture.Release(false)
		return nil, false
	}
	if live.Name != swipe.Name {
		// the cache moved under the gesture; drop it rather than delete
		// whatever now sits at that index
		logging.Warn("swipe dropped: row changed during gesture",
			zap.Int("pos", swipe.Pos),
			zap.String("pressed", swipe.Name),
			zap.String("live", live.Name))
		events.Gesture.Release(true)
		return nil, true
	}
	events.Gesture.Swipe(swipe.Pos, live.Name)
	op := c.DeleteCity(&live)
	c.notify(DeletedMessage(live))
	events.Gesture.Release(true)
	return op, true
}

// PointerCancel abandons the gesture in progress.
func (c *Controller) PointerCancel(reason string) {
	if c.tracker.Active() {
		events.Gesture.Cancel(reason)
	}
	c.tracker.Cancel()
}

// Swiping reports whether a swipe is in progress.
func (c *Controller) Swiping() bool {
	return c.tracker.Swiping()
}

// Tracking reports whether a press is being tracked.
func (c *Controller) Tracking() bool {
	return c.tracker.Active()
}
