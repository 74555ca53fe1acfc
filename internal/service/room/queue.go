package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/singparty/server/internal/repository/connection"
	"github.com/singparty/server/internal/repository/room"
)

type AddToQueueParams struct {
	RoomId         string
	VideoId        string
	VideoTitle     string
	VideoThumbnail string
	AddedByName    string
	AddedByUserId  string
}

// AddToQueue appends a video to the room's pending queue. Any participant
// may add; the assigned position is max over the room's entries plus one,
// zero for the first entry ever queued.
func (s service) AddToQueue(ctx context.Context, params *AddToQueueParams) (QueueItem, error) {
	if _, err := s.GetRoomById(ctx, params.RoomId); err != nil {
		return QueueItem{}, err
	}

	pending, err := s.roomRepo.GetQueueEntryIds(ctx, params.RoomId)
	if err != nil {
		return QueueItem{}, fmt.Errorf("failed to get queue length: %w", err)
	}
	if len(pending) >= s.queueLimit {
		return QueueItem{}, ErrQueueLimitReached
	}

	entryId := uuid.NewString()
	createdAt := time.Now()

	position, err := s.roomRepo.SetQueueEntry(ctx, &room.SetQueueEntryParams{
		EntryId:        entryId,
		RoomId:         params.RoomId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		AddedByUserId:  params.AddedByUserId,
		AddedByName:    params.AddedByName,
		CreatedAt:      createdAt.UnixNano(),
	})
	if err != nil {
		return QueueItem{}, fmt.Errorf("failed to add to queue: %w", err)
	}

	return QueueItem{
		Id:             entryId,
		RoomId:         params.RoomId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		AddedByUserId:  params.AddedByUserId,
		AddedByName:    params.AddedByName,
		Position:       position,
		CreatedAt:      createdAt,
	}, nil
}

// GetQueueItems returns the room's pending entries ordered by position,
// with creation time then id breaking ties between entries that raced to
// the same position.
func (s service) GetQueueItems(ctx context.Context, roomId string) ([]QueueItem, error) {
	entryIds, err := s.roomRepo.GetQueueEntryIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entry ids: %w", err)
	}

	type sortableItem struct {
		item      QueueItem
		createdNs int64
	}

	items := make([]sortableItem, 0, len(entryIds))
	for _, entryId := range entryIds {
		entry, err := s.roomRepo.GetQueueEntry(ctx, entryId)
		if err != nil {
			if errors.Is(err, room.ErrQueueEntryNotFound) {
				continue
			}

			return nil, fmt.Errorf("failed to get queue entry: %w", err)
		}

		if entry.PlayedAt != 0 {
			continue
		}

		items = append(items, sortableItem{
			item: QueueItem{
				Id:             entryId,
				RoomId:         entry.RoomId,
				VideoId:        entry.VideoId,
				VideoTitle:     entry.VideoTitle,
				VideoThumbnail: entry.VideoThumbnail,
				AddedByUserId:  entry.AddedByUserId,
				AddedByName:    entry.AddedByName,
				Position:       entry.Position,
				CreatedAt:      time.Unix(0, entry.CreatedAt),
			},
			createdNs: entry.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].item.Position != items[j].item.Position {
			return items[i].item.Position < items[j].item.Position
		}
		if items[i].createdNs != items[j].createdNs {
			return items[i].createdNs < items[j].createdNs
		}
		return items[i].item.Id < items[j].item.Id
	})

	result := make([]QueueItem, 0, len(items))
	for _, it := range items {
		result = append(result, it.item)
	}

	return result, nil
}

type RemoveFromQueueParams struct {
	EntryId string
	Sender  *connection.Session
}

// RemoveFromQueue hard-deletes a pending entry. Host-only; the check is
// advisory and lives here, not in the store.
func (s service) RemoveFromQueue(ctx context.Context, params *RemoveFromQueueParams) error {
	entry, err := s.roomRepo.GetQueueEntry(ctx, params.EntryId)
	if err != nil {
		if errors.Is(err, room.ErrQueueEntryNotFound) {
			// concurrent removals race; losing the race is not an error
			return nil
		}

		return fmt.Errorf("failed to get queue entry: %w", err)
	}

	if params.Sender == nil || !params.Sender.IsHost || params.Sender.RoomId != entry.RoomId {
		return ErrPermissionDenied
	}

	if err := s.roomRepo.RemoveQueueEntry(ctx, &room.RemoveQueueEntryParams{
		EntryId: params.EntryId,
		RoomId:  entry.RoomId,
	}); err != nil {
		return fmt.Errorf("failed to remove queue entry: %w", err)
	}

	return nil
}

// MarkAsPlayed drops the entry out of the pending queue permanently. The
// entry itself is kept for history.
func (s service) MarkAsPlayed(ctx context.Context, entryId string) error {
	entry, err := s.roomRepo.GetQueueEntry(ctx, entryId)
	if err != nil {
		if errors.Is(err, room.ErrQueueEntryNotFound) {
			return ErrQueueEntryNotFound
		}

		return fmt.Errorf("failed to get queue entry: %w", err)
	}

	if entry.PlayedAt != 0 {
		return nil
	}

	if err := s.roomRepo.MarkQueueEntryPlayed(ctx, &room.MarkQueueEntryPlayedParams{
		EntryId:  entryId,
		RoomId:   entry.RoomId,
		PlayedAt: time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("failed to mark queue entry played: %w", err)
	}

	return nil
}

type PositionUpdate struct {
	Id       string `json:"id"`
	Position int    `json:"position"`
}

type ReorderQueueParams struct {
	RoomId  string
	Updates []PositionUpdate
}

// ReorderQueue reassigns positions in bulk. Updates apply one by one; the
// first failure aborts the rest and surfaces ErrPartialReorder, but the
// updates that already landed stay applied.
func (s service) ReorderQueue(ctx context.Context, params *ReorderQueueParams) error {
	for i, update := range params.Updates {
		if err := s.roomRepo.UpdateQueueEntryPosition(ctx, &room.UpdateQueueEntryPositionParams{
			EntryId:  update.Id,
			RoomId:   params.RoomId,
			Position: update.Position,
		}); err != nil {
			return fmt.Errorf("%w: %d of %d updates applied: %w", ErrPartialReorder, i, len(params.Updates), err)
		}
	}

	return nil
}

type AddPlaylistToQueueParams struct {
	RoomId        string
	PlaylistId    string
	AddedByName   string
	AddedByUserId string
}

// AddPlaylistToQueue imports a playlist's songs in order as one contiguous
// run of queue positions.
func (s service) AddPlaylistToQueue(ctx context.Context, params *AddPlaylistToQueueParams) ([]QueueItem, error) {
	songs, err := s.GetPlaylistSongs(ctx, params.PlaylistId)
	if err != nil {
		return nil, err
	}

	if len(songs) == 0 {
		return nil, ErrPlaylistEmpty
	}

	items := make([]QueueItem, 0, len(songs))
	for _, song := range songs {
		item, err := s.AddToQueue(ctx, &AddToQueueParams{
			RoomId:         params.RoomId,
			VideoId:        song.VideoId,
			VideoTitle:     song.VideoTitle,
			VideoThumbnail: song.VideoThumbnail,
			AddedByName:    params.AddedByName,
			AddedByUserId:  params.AddedByUserId,
		})
		if err != nil {
			return items, fmt.Errorf("failed to queue playlist song: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
