package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/singparty/server/internal/repository/room"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) getRoomCodeKey(code string) string {
	return "room-code:" + code
}

// SetRoom claims the code among active rooms and writes the room hash.
// The claim is a SETNX on the code index key, so two rooms can never hold
// the same code while both are active.
func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	claimed, err := r.rc.SetNX(ctx, r.getRoomCodeKey(params.Code), params.RoomId, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return room.ErrCodeTaken
	}

	model := room.Room{
		Code:       params.Code,
		Name:       params.Name,
		Type:       params.Type,
		HostUserId: params.HostUserId,
		IsActive:   true,
		CreatedAt:  params.CreatedAt,
	}

	if err := r.rc.HSet(ctx, r.getRoomKey(params.RoomId), model).Err(); err != nil {
		// release the claim so the code is not burned by a failed insert
		r.rc.Del(ctx, r.getRoomCodeKey(params.Code))
		return err
	}

	return nil
}

// GetRoomIdByCode resolves a code to a room id. Only active rooms hold a
// code index entry, so an ended room is indistinguishable from a missing
// one.
func (r repo) GetRoomIdByCode(ctx context.Context, code string) (string, error) {
	roomId, err := r.rc.Get(ctx, r.getRoomCodeKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", room.ErrRoomNotFound
		}

		return "", err
	}

	return roomId, nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	var model room.Room
	if err := r.rc.HGetAll(ctx, r.getRoomKey(roomId)).Scan(&model); err != nil {
		return room.Room{}, err
	}

	if model.Code == "" {
		return room.Room{}, room.ErrRoomNotFound
	}

	return model, nil
}

// SetRoomInactive soft-deletes the room and releases its code for reuse.
// Ending an already-inactive room is a no-op.
func (r repo) SetRoomInactive(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	model, err := r.GetRoom(ctx, roomId)
	if err != nil {
		return err
	}

	if !model.IsActive {
		return nil
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getRoomKey(roomId), "is_active", false)
	pipe.Del(ctx, r.getRoomCodeKey(model.Code))

	return r.executePipe(ctx, pipe)
}
