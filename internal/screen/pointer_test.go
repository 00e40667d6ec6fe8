package screen

import (
	"testing"

	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *fixture {
	f := newFixture(t)
	f.ctrl.ApplyEvent(push(city.New("Edmonton", "AB"), city.New("Calgary", "AB"), city.New("Regina", "SK")))
	return f
}

func TestSwipeDeletesPressedRow(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 1)
	assert.False(t, f.ctrl.PointerMove(500, 130))
	assert.True(t, f.ctrl.PointerMove(150, 140))

	op, consumed := f.ctrl.PointerUp()
	require.True(t, consumed)
	res := run(t, op)
	require.NoError(t, res.Err)
	assert.Equal(t, []call{{op: "delete", key: "Calgary"}}, f.store.calls)
	assert.Equal(t, []string{"Deleted: Calgary"}, f.notifier.messages)
	assert.Len(t, f.ctrl.Cities(), 3, "cache waits for the next push")
}

func TestShortDragIsNotConsumed(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 1)
	assert.False(t, f.ctrl.PointerMove(550, 120))
	op, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
	assert.Nil(t, op)
	assert.Empty(t, f.store.calls)
	assert.Empty(t, f.notifier.messages)
}

func TestVerticalDriftIsNotASwipe(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 1)
	assert.False(t, f.ctrl.PointerMove(700, 260))
	_, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
}

func TestSwipeOffRowsIsNotConsumed(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 900, gesture.NoPosition)
	f.ctrl.PointerMove(100, 900)
	op, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
	assert.Nil(t, op)
}

func TestSwipeAfterCacheShrankIsNotConsumed(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 2)
	f.ctrl.PointerMove(100, 120)
	f.ctrl.ApplyEvent(push(city.New("Edmonton", "AB")))
	op, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
	assert.Nil(t, op)
	assert.Empty(t, f.store.calls)
}

func TestSwipeDroppedWhenRowChanged(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 1)
	f.ctrl.PointerMove(100, 120)
	// Calgary removed elsewhere: index 1 now holds Regina
	f.ctrl.ApplyEvent(push(city.New("Edmonton", "AB"), city.New("Regina", "SK")))
	op, consumed := f.ctrl.PointerUp()
	assert.True(t, consumed)
	assert.Nil(t, op)
	assert.Empty(t, f.store.calls)
	assert.Empty(t, f.notifier.messages)
	assert.Equal(t, 1, f.logs.FilterMessage("swipe dropped: row changed during gesture").Len())
}

func TestCancelAbandonsSwipe(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(400, 120, 0)
	f.ctrl.PointerMove(100, 120)
	require.True(t, f.ctrl.Swiping())
	f.ctrl.PointerCancel("blur")
	assert.False(t, f.ctrl.Swiping())
	_, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
	assert.Empty(t, f.store.calls)
}

func TestPressOutsideCacheRecordsNoPosition(t *testing.T) {
	f := seeded(t)
	f.ctrl.PointerDown(0, 0, 7)
	f.ctrl.PointerMove(300, 0)
	_, consumed := f.ctrl.PointerUp()
	assert.False(t, consumed)
}

func TestSwipeOnUnnamedRowTogglesToastOnly(t *testing.T) {
	f := newFixture(t)
	f.ctrl.ApplyEvent(push(city.New("", "ON")))
	f.ctrl.PointerDown(400, 0, 0)
	f.ctrl.PointerMove(100, 0)
	op, consumed := f.ctrl.PointerUp()
	assert.True(t, consumed)
	assert.Nil(t, op, "blank names never reach the store")
	assert.Equal(t, []string{"Deleted: "}, f.notifier.messages)
}
