package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/singparty/server/internal/repository/room"
)

func (r repo) getQueueEntryKey(entryId string) string {
	return "queue-entry:" + entryId
}

func (r repo) getQueueKey(roomId string) string {
	return "room:" + roomId + ":queue"
}

func (r repo) getQueueHistoryKey(roomId string) string {
	return "room:" + roomId + ":queue:history"
}

// SetQueueEntry appends the entry at the next free position and returns
// the position it was assigned. Position assignment and the pending-set
// insert happen in one script, so concurrent adds serialize on the store.
func (r repo) SetQueueEntry(ctx context.Context, params *room.SetQueueEntryParams) (int, error) {
	r.logger.DebugContext(ctx, "called", "params", params)

	position, err := r.addWithNextPosition(ctx,
		r.getQueueKey(params.RoomId),
		r.getQueueHistoryKey(params.RoomId),
		params.EntryId,
	)
	if err != nil {
		return 0, err
	}

	entry := room.QueueEntry{
		RoomId:         params.RoomId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		AddedByUserId:  params.AddedByUserId,
		AddedByName:    params.AddedByName,
		Position:       position,
		PlayedAt:       0,
		CreatedAt:      params.CreatedAt,
	}

	if err := r.rc.HSet(ctx, r.getQueueEntryKey(params.EntryId), entry).Err(); err != nil {
		r.rc.ZRem(ctx, r.getQueueKey(params.RoomId), params.EntryId)
		return 0, err
	}

	r.publishQueueEvent(ctx, params.RoomId, "insert")

	return position, nil
}

func (r repo) GetQueueEntry(ctx context.Context, entryId string) (room.QueueEntry, error) {
	var entry room.QueueEntry
	if err := r.rc.HGetAll(ctx, r.getQueueEntryKey(entryId)).Scan(&entry); err != nil {
		return room.QueueEntry{}, err
	}

	if entry.RoomId == "" {
		return room.QueueEntry{}, room.ErrQueueEntryNotFound
	}

	return entry, nil
}

// GetQueueEntryIds returns the pending entry ids in ascending position
// order. Entries already marked played are not members of the pending set.
func (r repo) GetQueueEntryIds(ctx context.Context, roomId string) ([]string, error) {
	return r.rc.ZRange(ctx, r.getQueueKey(roomId), 0, -1).Result()
}

// RemoveQueueEntry hard-deletes a pending entry. Removing an entry that is
// already gone is not an error, so concurrent removals both succeed.
func (r repo) RemoveQueueEntry(ctx context.Context, params *room.RemoveQueueEntryParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	removed, err := r.rc.ZRem(ctx, r.getQueueKey(params.RoomId), params.EntryId).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return nil
	}

	if err := r.rc.Del(ctx, r.getQueueEntryKey(params.EntryId)).Err(); err != nil {
		return err
	}

	r.publishQueueEvent(ctx, params.RoomId, "delete")

	return nil
}

// MarkQueueEntryPlayed drops the entry out of the pending set for good.
// The entry hash stays around, parked in the history set under its old
// position so later adds keep counting upward.
func (r repo) MarkQueueEntryPlayed(ctx context.Context, params *room.MarkQueueEntryPlayedParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	entry, err := r.GetQueueEntry(ctx, params.EntryId)
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getQueueEntryKey(params.EntryId), "played_at", params.PlayedAt)
	pipe.ZRem(ctx, r.getQueueKey(params.RoomId), params.EntryId)
	pipe.ZAdd(ctx, r.getQueueHistoryKey(params.RoomId), redis.Z{
		Score:  float64(entry.Position),
		Member: params.EntryId,
	})

	if err := r.executePipe(ctx, pipe); err != nil {
		return err
	}

	r.publishQueueEvent(ctx, params.RoomId, "update")

	return nil
}

func (r repo) UpdateQueueEntryPosition(ctx context.Context, params *room.UpdateQueueEntryPositionParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	if err := r.rc.ZScore(ctx, r.getQueueKey(params.RoomId), params.EntryId).Err(); err != nil {
		if err == redis.Nil {
			return room.ErrQueueEntryNotFound
		}

		return err
	}

	pipe := r.rc.TxPipeline()
	pipe.ZAdd(ctx, r.getQueueKey(params.RoomId), redis.Z{
		Score:  float64(params.Position),
		Member: params.EntryId,
	})
	pipe.HSet(ctx, r.getQueueEntryKey(params.EntryId), "position", params.Position)

	if err := r.executePipe(ctx, pipe); err != nil {
		return err
	}

	r.publishQueueEvent(ctx, params.RoomId, "update")

	return nil
}
