package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/singparty/server/internal/repository/room"
)

type CreateRoomParams struct {
	Name       string
	Type       string
	HostUserId string
}

// CreateRoom inserts an active room under a freshly generated code. Codes
// are drawn uniformly from [A-Z0-9]; a collision with another active room
// burns one of a fixed number of attempts. The ~36^6 code space makes
// running out effectively impossible, but it is still an error, not a
// panic.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (Room, error) {
	roomId := uuid.NewString()
	createdAt := time.Now()

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := s.generator.GenerateRandomString(codeLength)

		err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
			RoomId:     roomId,
			Code:       code,
			Name:       params.Name,
			Type:       params.Type,
			HostUserId: params.HostUserId,
			CreatedAt:  createdAt.Unix(),
		})
		if err != nil {
			if errors.Is(err, room.ErrCodeTaken) {
				continue
			}

			return Room{}, fmt.Errorf("failed to create room: %w", err)
		}

		return Room{
			Id:         roomId,
			Code:       code,
			Name:       params.Name,
			Type:       params.Type,
			HostUserId: params.HostUserId,
			IsActive:   true,
			CreatedAt:  createdAt,
		}, nil
	}

	return Room{}, ErrCodeGenerationExhausted
}

// JoinRoomByCode resolves an active room by its shareable code. The code
// is normalized to uppercase, and an ended room looks exactly like a
// nonexistent one to the joiner.
func (s service) JoinRoomByCode(ctx context.Context, code string) (Room, error) {
	return s.GetRoomByCode(ctx, code)
}

func (s service) GetRoomByCode(ctx context.Context, code string) (Room, error) {
	roomId, err := s.roomRepo.GetRoomIdByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}

		return Room{}, fmt.Errorf("failed to resolve room code: %w", err)
	}

	return s.GetRoomById(ctx, roomId)
}

func (s service) GetRoomById(ctx context.Context, roomId string) (Room, error) {
	model, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}

		return Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	if !model.IsActive {
		return Room{}, ErrRoomNotFound
	}

	return Room{
		Id:         roomId,
		Code:       model.Code,
		Name:       model.Name,
		Type:       model.Type,
		HostUserId: model.HostUserId,
		IsActive:   model.IsActive,
		CreatedAt:  time.Unix(model.CreatedAt, 0),
	}, nil
}

// EndRoom deactivates the room and releases its code. Ending a room that
// is already inactive succeeds.
func (s service) EndRoom(ctx context.Context, roomId string) error {
	if err := s.roomRepo.SetRoomInactive(ctx, roomId); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return ErrRoomNotFound
		}

		return fmt.Errorf("failed to end room: %w", err)
	}

	return nil
}
