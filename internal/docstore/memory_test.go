package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "subscription closed unexpectedly")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return Update{}
}

func keys(snap Snapshot) []string {
	out := make([]string, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		out = append(out, doc.Key)
	}
	return out
}

func TestMemorySubscribeDeliversInitialSnapshot(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	m.Seed("cities",
		Document{Key: "Edmonton", Fields: map[string]any{"name": "Edmonton", "province": "AB"}},
		Document{Key: "Calgary", Fields: map[string]any{"name": "Calgary", "province": "AB"}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := m.Subscribe(ctx, "cities")
	require.NoError(t, err)

	u := recvUpdate(t, ch)
	require.NoError(t, u.Err)
	assert.Equal(t, "cities", u.Snapshot.Collection)
	assert.Equal(t, []string{"Edmonton", "Calgary"}, keys(u.Snapshot))
}

func TestMemorySetOverwriteKeepsPosition(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "cities", "A", map[string]any{"name": "A"}))
	require.NoError(t, m.Set(ctx, "cities", "B", map[string]any{"name": "B"}))
	require.NoError(t, m.Set(ctx, "cities", "A", map[string]any{"name": "A", "province": "X"}))

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := m.Subscribe(subCtx, "cities")
	require.NoError(t, err)
	u := recvUpdate(t, ch)
	assert.Equal(t, []string{"A", "B"}, keys(u.Snapshot))
	assert.Equal(t, "X", u.Snapshot.Documents[0].Fields["province"])
}

func TestMemoryPushesOnWrite(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Subscribe(ctx, "cities")
	require.NoError(t, err)
	first := recvUpdate(t, ch)
	assert.Empty(t, first.Snapshot.Documents)

	require.NoError(t, m.Set(ctx, "cities", "Regina", map[string]any{"name": "Regina", "province": "SK"}))
	u := recvUpdate(t, ch)
	assert.Equal(t, []string{"Regina"}, keys(u.Snapshot))

	require.NoError(t, m.Delete(ctx, "cities", "Regina"))
	u = recvUpdate(t, ch)
	assert.Empty(t, u.Snapshot.Documents)
}

func TestMemoryOtherCollectionsDoNotPush(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Subscribe(ctx, "cities")
	require.NoError(t, err)
	recvUpdate(t, ch)

	require.NoError(t, m.Set(ctx, "towns", "Banff", map[string]any{"name": "Banff"}))
	select {
	case u := <-ch:
		t.Fatalf("unexpected update %+v", u)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "cities", "Calgary", map[string]any{"name": "Calgary", "province": "AB"}))

	doc, err := m.Get(ctx, "cities", "Calgary")
	require.NoError(t, err)
	assert.Equal(t, "AB", doc.Fields["province"])

	doc.Fields["province"] = "mutated"
	again, err := m.Get(ctx, "cities", "Calgary")
	require.NoError(t, err)
	assert.Equal(t, "AB", again.Fields["province"], "Get must return a copy")

	_, err = m.Get(ctx, "cities", "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteMissingKeySucceeds(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	assert.NoError(t, m.Delete(context.Background(), "cities", "ghost"))
}

func TestMemoryRejectsEmptyKey(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()
	assert.ErrorIs(t, m.Set(ctx, "cities", "", nil), ErrEmptyKey)
	assert.ErrorIs(t, m.Delete(ctx, "cities", ""), ErrEmptyKey)
}

func TestMemoryCloseEndsSubscriptions(t *testing.T) {
	m := NewMemory()
	ch, err := m.Subscribe(context.Background(), "cities")
	require.NoError(t, err)
	recvUpdate(t, ch)

	require.NoError(t, m.Close())
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}

	assert.ErrorIs(t, m.Set(context.Background(), "cities", "A", nil), ErrClosed)
	_, err = m.Subscribe(context.Background(), "cities")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryCancelEndsSubscription(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Subscribe(ctx, "cities")
	require.NoError(t, err)
	recvUpdate(t, ch)
	cancel()
	for range ch {
	}
}

func TestDeliverReplacesPending(t *testing.T) {
	ch := make(chan Update, 1)
	ctx := context.Background()
	require.True(t, deliver(ctx, ch, Update{Snapshot: Snapshot{Collection: "old"}}))
	require.True(t, deliver(ctx, ch, Update{Snapshot: Snapshot{Collection: "new"}}))
	u := <-ch
	assert.Equal(t, "new", u.Snapshot.Collection)
}
