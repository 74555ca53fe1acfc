package syncbridge

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	roomservice "github.com/singparty/server/internal/service/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s := miniredis.RunT(t)
	return s, redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
}

func waitForUpdate(t *testing.T, updates <-chan []roomservice.QueueItem) []roomservice.QueueItem {
	t.Helper()

	select {
	case items, ok := <-updates:
		require.True(t, ok, "updates channel closed early")
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a queue snapshot")
		return nil
	}
}

func TestBridgeDeliversInitialSnapshot(t *testing.T) {
	_, rc := newTestClient(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fetch := func(ctx context.Context) ([]roomservice.QueueItem, error) {
		return []roomservice.QueueItem{{Id: "e1"}}, nil
	}

	b := New(context.Background(), rc, "room:r1:queue:events", fetch, logger)
	defer b.Close()

	items := waitForUpdate(t, b.Updates())
	require.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].Id, "first snapshot must arrive without any mutation")
}

func TestBridgeRefetchesOnNotification(t *testing.T) {
	_, rc := newTestClient(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var generation atomic.Int32
	fetch := func(ctx context.Context) ([]roomservice.QueueItem, error) {
		n := generation.Load()
		items := make([]roomservice.QueueItem, 0, n)
		for i := int32(0); i < n; i++ {
			items = append(items, roomservice.QueueItem{Id: "entry"})
		}
		return items, nil
	}

	channel := "room:r1:queue:events"
	b := New(context.Background(), rc, channel, fetch, logger)
	defer b.Close()

	items := waitForUpdate(t, b.Updates())
	assert.Empty(t, items, "nothing queued yet")

	generation.Store(2)
	// the payload is irrelevant, any message triggers a full refetch
	require.NoError(t, rc.Publish(context.Background(), channel, "insert").Err())

	items = waitForUpdate(t, b.Updates())
	assert.Len(t, items, 2, "notification must trigger a refetch of the full snapshot")
}

func TestBridgeLatestWins(t *testing.T) {
	_, rc := newTestClient(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var generation atomic.Int32
	fetch := func(ctx context.Context) ([]roomservice.QueueItem, error) {
		n := generation.Add(1)
		items := make([]roomservice.QueueItem, 0, n)
		for i := int32(0); i < n; i++ {
			items = append(items, roomservice.QueueItem{Id: "entry"})
		}
		return items, nil
	}

	channel := "room:r1:queue:events"
	b := New(context.Background(), rc, channel, fetch, logger)
	defer b.Close()

	// let several notifications pile up while nobody receives
	for i := 0; i < 5; i++ {
		require.NoError(t, rc.Publish(context.Background(), channel, "update").Err())
	}

	// a slow receiver must converge on a recent snapshot, never block the
	// bridge, and never observe snapshots going backwards
	deadline := time.After(2 * time.Second)
	last := -1
	for last < 6 {
		select {
		case items := <-b.Updates():
			assert.GreaterOrEqual(t, len(items), last, "snapshots must never go backwards")
			last = len(items)
		case <-deadline:
			t.Fatalf("never converged, last snapshot size %d", last)
		}
	}
}

func TestBridgeClose(t *testing.T) {
	_, rc := newTestClient(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fetch := func(ctx context.Context) ([]roomservice.QueueItem, error) {
		return nil, nil
	}

	b := New(context.Background(), rc, "room:r1:queue:events", fetch, logger)
	waitForUpdate(t, b.Updates())

	require.NoError(t, b.Close())

	// channel drains and closes once the bridge is gone
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-b.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("updates channel never closed after Close")
		}
	}
}
