package syncbridge

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	roomservice "github.com/singparty/server/internal/service/room"
)

// FetchFunc materializes the current ordered pending-queue snapshot.
type FetchFunc func(ctx context.Context) ([]roomservice.QueueItem, error)

// Bridge turns a room's change-notification stream into materialized
// queue snapshots. It never applies deltas: any notification, whatever
// its payload, triggers a full refetch and a wholesale replacement of the
// observer's view. One bridge per observed room; Close releases the
// subscription.
type Bridge struct {
	pubsub *redis.PubSub
	fetch  FetchFunc
	logger *slog.Logger

	updates chan []roomservice.QueueItem
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(ctx context.Context, rc *redis.Client, channel string, fetch FetchFunc, logger *slog.Logger) *Bridge {
	runCtx, cancel := context.WithCancel(ctx)

	b := &Bridge{
		pubsub:  rc.Subscribe(runCtx, channel),
		fetch:   fetch,
		logger:  logger,
		updates: make(chan []roomservice.QueueItem, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go b.run(runCtx)

	return b
}

// Updates delivers queue snapshots, starting with the state at subscribe
// time. Only the latest snapshot is retained for a slow receiver.
func (b *Bridge) Updates() <-chan []roomservice.QueueItem {
	return b.updates
}

// Close tears the subscription down. It must be called when the observing
// device leaves the room, or the subscription leaks for every room ever
// visited.
func (b *Bridge) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	<-b.done

	return err
}

func (b *Bridge) run(ctx context.Context) {
	defer close(b.done)
	defer close(b.updates)

	// initial snapshot so observers do not wait for the first mutation
	b.refetch(ctx)

	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}

			b.refetch(ctx)
		}
	}
}

func (b *Bridge) refetch(ctx context.Context) {
	items, err := b.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		b.logger.WarnContext(ctx, "queue snapshot refetch failed", "error", err)
		return
	}

	// latest wins: drop a stale undelivered snapshot before replacing it
	select {
	case <-b.updates:
	default:
	}

	select {
	case b.updates <- items:
	case <-ctx.Done():
	}
}
