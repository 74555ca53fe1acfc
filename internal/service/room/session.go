package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/singparty/server/internal/repository/connection"
)

type ConnectMemberParams struct {
	Conn        *websocket.Conn
	RoomId      string
	UserId      string
	DisplayName string
	IsHost      bool
}

// ConnectMember binds a device connection to a room. IsHost is decided by
// the caller from how the device entered: only the create path passes
// true. A device that re-resolves the room by code later joins as guest.
func (s service) ConnectMember(ctx context.Context, params *ConnectMemberParams) (*connection.Session, error) {
	session := &connection.Session{
		MemberId:    uuid.NewString(),
		RoomId:      params.RoomId,
		UserId:      params.UserId,
		DisplayName: params.DisplayName,
		IsHost:      params.IsHost,
	}

	if err := s.connRepo.Add(params.Conn, session); err != nil {
		return nil, fmt.Errorf("failed to register connection: %w", err)
	}

	return session, nil
}

func (s service) DisconnectMember(conn *websocket.Conn) error {
	return s.connRepo.RemoveByConn(conn)
}

func (s service) GetSession(conn *websocket.Conn) (*connection.Session, error) {
	return s.connRepo.GetSession(conn)
}

// GetRoomConns returns every live connection observing the room.
func (s service) GetRoomConns(roomId string) []*websocket.Conn {
	return s.connRepo.GetConnsByRoomId(roomId)
}
