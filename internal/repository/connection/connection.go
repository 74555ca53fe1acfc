package connection

import "errors"

var (
	ErrAlreadyExists = errors.New("connection already exists")
	ErrNotFound      = errors.New("connection not found")
)

// Session is the per-device room binding. IsHost reflects how the device
// entered the room: true only when it came through the create path. It is
// never re-derived from the room record, so a device that reconnects and
// joins by code comes back as a guest.
type Session struct {
	MemberId    string
	RoomId      string
	UserId      string
	DisplayName string
	IsHost      bool
}
