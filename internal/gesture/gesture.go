// Package gesture recognises a horizontal drag across a list row.
//
// The tracker works in pixels. Callers on a character grid convert cells to
// pixels before feeding events in (see config cell_width_px/cell_height_px).
package gesture

const (
	// SwipeThresholdPx is the horizontal travel needed to start a swipe.
	SwipeThresholdPx = 200
	// MaxVerticalSlopPx is the vertical drift tolerated during a swipe.
	MaxVerticalSlopPx = 100
)

// NoPosition marks a press that did not land on a row.
const NoPosition = -1

// Swipe describes a completed gesture.
type Swipe struct {
	// Pos is the row index recorded at press time.
	Pos int
	// Name is the row's city name captured at press time.
	Name string
}

// Tracker holds the state of the gesture in progress.
type Tracker struct {
	threshold int
	slop      int

	active   bool
	downX    int
	downY    int
	downPos  int
	downName string
	swiping  bool
}

// NewTracker returns a tracker using the standard thresholds.
func NewTracker() *Tracker {
	return &Tracker{threshold: SwipeThresholdPx, slop: MaxVerticalSlopPx, downPos: NoPosition}
}

// Press starts a gesture at (x, y) over row pos (or NoPosition). name is the
// row's city name, used to re-validate the row at release.
func (t *Tracker) Press(x, y, pos int, name string) {
	t.active = true
	t.downX = x
	t.downY = y
	t.downPos = pos
	t.downName = name
	t.swiping = false
}

// Move updates the gesture. It reports true on the move that turns the
// gesture into a swipe. Once swiping, a gesture stays a swipe until release
// or cancel.
func (t *Tracker) Move(x, y int) bool {
	if !t.active || t.swiping {
		return false
	}
	dx := abs(x - t.downX)
	dy := abs(y - t.downY)
	if dx > t.threshold && dy < t.slop {
		t.swiping = true
		return true
	}
	return false
}

// Release ends the gesture. ok is true when the gesture was a swipe that
// started over a row; the caller is then expected to consume the event.
func (t *Tracker) Release() (Swipe, bool) {
	swipe := Swipe{Pos: t.downPos, Name: t.downName}
	ok := t.active && t.swiping && t.downPos != NoPosition
	t.reset()
	return swipe, ok
}

// Cancel abandons the gesture in progress.
func (t *Tracker) Cancel() {
	t.reset()
}

// Active reports whether a press is being tracked.
func (t *Tracker) Active() bool {
	return t.active
}

// Swiping reports whether the current gesture has become a swipe. While true
// the list must not scroll or move its cursor.
func (t *Tracker) Swiping() bool {
	return t.swiping
}

func (t *Tracker) reset() {
	t.active = false
	t.swiping = false
	t.downPos = NoPosition
	t.downName = ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
