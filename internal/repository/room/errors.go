package room

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrCodeTaken            = errors.New("room code already taken")
	ErrQueueEntryNotFound   = errors.New("queue entry not found")
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrPlaylistSongNotFound = errors.New("playlist song not found")
)
