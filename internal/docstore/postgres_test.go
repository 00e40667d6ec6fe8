package docstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifications struct {
	ch       chan *pgconn.Notification
	released chan struct{}
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{
		ch:       make(chan *pgconn.Notification, 4),
		released: make(chan struct{}),
	}
}

func (f *fakeNotifications) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case n, ok := <-f.ch:
		if !ok {
			return nil, errors.New("connection lost")
		}
		return n, nil
	}
}

func (f *fakeNotifications) Release() { close(f.released) }

func newMockPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface, *fakeNotifications) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	notes := newFakeNotifications()
	p := newPostgres(mock, func(ctx context.Context, channel string) (notificationSource, error) {
		return notes, nil
	})
	return p, mock, notes
}

func TestPostgresSetNotifiesInTransaction(t *testing.T) {
	p, mock, _ := newMockPostgres(t)
	defer p.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("cities", "Calgary", []byte(`{"name":"Calgary","province":"AB"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_notify($1, $2)")).
		WithArgs(NotifyChannel, "cities").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	err := p.Set(context.Background(), "cities", "Calgary", map[string]any{"name": "Calgary", "province": "AB"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteMissingKeySkipsNotify(t *testing.T) {
	p, mock, _ := newMockPostgres(t)
	defer p.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents")).
		WithArgs("cities", "ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	require.NoError(t, p.Delete(context.Background(), "cities", "ghost"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriteFailureRollsBack(t *testing.T) {
	p, mock, _ := newMockPostgres(t)
	defer p.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents")).
		WithArgs("cities", "Calgary").
		WillReturnError(boom)
	mock.ExpectRollback()

	err := p.Delete(context.Background(), "cities", "Calgary")
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet(t *testing.T) {
	p, mock, _ := newMockPostgres(t)
	defer p.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents")).
		WithArgs("cities", "Calgary").
		WillReturnRows(pgxmock.NewRows([]string{"body"}).AddRow([]byte(`{"name":"Calgary","province":"AB"}`)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents")).
		WithArgs("cities", "Nowhere").
		WillReturnError(pgx.ErrNoRows)

	doc, err := p.Get(context.Background(), "cities", "Calgary")
	require.NoError(t, err)
	assert.Equal(t, "AB", doc.Fields["province"])

	_, err = p.Get(context.Background(), "cities", "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubscribeRereadsOnNotification(t *testing.T) {
	p, mock, notes := newMockPostgres(t)

	list := regexp.QuoteMeta("SELECT key, body FROM documents")
	mock.ExpectQuery(list).WithArgs("cities").
		WillReturnRows(pgxmock.NewRows([]string{"key", "body"}).
			AddRow("Edmonton", []byte(`{"name":"Edmonton","province":"AB"}`)))
	mock.ExpectQuery(list).WithArgs("cities").
		WillReturnRows(pgxmock.NewRows([]string{"key", "body"}).
			AddRow("Edmonton", []byte(`{"name":"Edmonton","province":"AB"}`)).
			AddRow("Regina", []byte(`{"name":"Regina","province":"SK"}`)))

	ch, err := p.Subscribe(context.Background(), "cities")
	require.NoError(t, err)

	u := recvUpdate(t, ch)
	require.NoError(t, u.Err)
	assert.Equal(t, []string{"Edmonton"}, keys(u.Snapshot))

	notes.ch <- &pgconn.Notification{Channel: NotifyChannel, Payload: "towns"}
	notes.ch <- &pgconn.Notification{Channel: NotifyChannel, Payload: "cities"}
	u = recvUpdate(t, ch)
	require.NoError(t, u.Err)
	assert.Equal(t, []string{"Edmonton", "Regina"}, keys(u.Snapshot))

	require.NoError(t, p.Close())
	for range ch {
	}
	<-notes.released
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListenerLossIsReported(t *testing.T) {
	p, mock, notes := newMockPostgres(t)
	defer p.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, body FROM documents")).WithArgs("cities").
		WillReturnRows(pgxmock.NewRows([]string{"key", "body"}))

	ch, err := p.Subscribe(context.Background(), "cities")
	require.NoError(t, err)
	recvUpdate(t, ch)

	close(notes.ch)
	u := recvUpdate(t, ch)
	assert.Error(t, u.Err)
	for range ch {
	}
}
