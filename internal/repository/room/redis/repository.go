package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc                 *redis.Client
	logger             *slog.Logger
	nextPositionScript string
}

// NewRepo loads the position-assignment script once so every add pays a
// single EVALSHA round trip.
func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		logger: logger,
		nextPositionScript: rc.ScriptLoad(context.Background(), `
			local pending = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local history = redis.call('ZREVRANGE', KEYS[2], 0, 0, 'WITHSCORES')
			local maxPosition = -1
			if #pending > 0 then
				maxPosition = tonumber(pending[2])
			end
			if #history > 0 and tonumber(history[2]) > maxPosition then
				maxPosition = tonumber(history[2])
			end
			local nextPosition = maxPosition + 1
			redis.call('ZADD', KEYS[1], nextPosition, ARGV[1])
			return nextPosition
		`).Val(),
	}
}

// QueueEventsChannel is the pub/sub channel carrying change notifications
// for one room's queue. Subscribers treat any message as "something
// changed" and refetch, so the payload is informational only.
func QueueEventsChannel(roomId string) string {
	return "room:" + roomId + ":queue:events"
}

func (r repo) publishQueueEvent(ctx context.Context, roomId, kind string) {
	if err := r.rc.Publish(ctx, QueueEventsChannel(roomId), kind).Err(); err != nil {
		r.logger.WarnContext(ctx, "failed to publish queue event", "room_id", roomId, "error", err)
	}
}
