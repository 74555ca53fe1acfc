package room

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/singparty/server/internal/repository/connection"
	"github.com/singparty/server/internal/repository/room"
	"github.com/singparty/server/internal/search"
	"github.com/singparty/server/pkg/randstr"
)

var (
	ErrRoomNotFound            = errors.New("room not found")
	ErrQueueEntryNotFound      = errors.New("queue entry not found")
	ErrPlaylistNotFound        = errors.New("playlist not found")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrCodeGenerationExhausted = errors.New("failed to generate unique room code")
	ErrQueueLimitReached       = errors.New("queue limit reached")
	ErrPlaylistEmpty           = errors.New("playlist has no songs")
	ErrPartialReorder          = errors.New("reorder applied partially")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	codeAttempts = 10
)

type iRoomRepo interface {
	// room
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoom(context.Context, string) (room.Room, error)
	GetRoomIdByCode(context.Context, string) (string, error)
	SetRoomInactive(context.Context, string) error
	// queue
	SetQueueEntry(context.Context, *room.SetQueueEntryParams) (int, error)
	GetQueueEntry(context.Context, string) (room.QueueEntry, error)
	GetQueueEntryIds(context.Context, string) ([]string, error)
	RemoveQueueEntry(context.Context, *room.RemoveQueueEntryParams) error
	MarkQueueEntryPlayed(context.Context, *room.MarkQueueEntryPlayedParams) error
	UpdateQueueEntryPosition(context.Context, *room.UpdateQueueEntryPositionParams) error
	// playlist
	SetPlaylist(context.Context, *room.SetPlaylistParams) error
	GetPlaylist(context.Context, string) (room.Playlist, error)
	GetPlaylistIdsByOwner(context.Context, string) ([]string, error)
	RemovePlaylist(context.Context, string) error
	SetPlaylistSong(context.Context, *room.SetPlaylistSongParams) (int, error)
	GetPlaylistSong(context.Context, string) (room.PlaylistSong, error)
	GetPlaylistSongIds(context.Context, string) ([]string, error)
	RemovePlaylistSong(context.Context, *room.RemovePlaylistSongParams) error
}

type iConnRepo interface {
	Add(*websocket.Conn, *connection.Session) error
	RemoveByConn(*websocket.Conn) error
	RemoveByMemberId(string) error
	GetSession(*websocket.Conn) (*connection.Session, error)
	GetConn(string) (*websocket.Conn, error)
	GetConnsByRoomId(string) []*websocket.Conn
}

type iSearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Video, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	QueueLimit int
}

type service struct {
	roomRepo       iRoomRepo
	connRepo       iConnRepo
	searchProvider iSearchProvider
	generator      iGenerator
	queueLimit     int
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, searchProvider iSearchProvider, cfg *Config) *service {
	return &service{
		roomRepo:       roomRepo,
		connRepo:       connRepo,
		searchProvider: searchProvider,
		generator:      randstr.New([]byte(codeAlphabet)),
		queueLimit:     cfg.QueueLimit,
	}
}
