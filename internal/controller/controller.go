package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/singparty/server/internal/repository/connection"
	"github.com/singparty/server/internal/search"
	"github.com/singparty/server/internal/sequencer"
	roomservice "github.com/singparty/server/internal/service/room"
	"github.com/singparty/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *roomservice.CreateRoomParams) (roomservice.Room, error)
	JoinRoomByCode(context.Context, string) (roomservice.Room, error)
	GetRoomByCode(context.Context, string) (roomservice.Room, error)
	GetRoomById(context.Context, string) (roomservice.Room, error)
	EndRoom(context.Context, string) error

	AddToQueue(context.Context, *roomservice.AddToQueueParams) (roomservice.QueueItem, error)
	GetQueueItems(context.Context, string) ([]roomservice.QueueItem, error)
	RemoveFromQueue(context.Context, *roomservice.RemoveFromQueueParams) error
	MarkAsPlayed(context.Context, string) error
	ReorderQueue(context.Context, *roomservice.ReorderQueueParams) error
	AddPlaylistToQueue(context.Context, *roomservice.AddPlaylistToQueueParams) ([]roomservice.QueueItem, error)

	CreatePlaylist(context.Context, *roomservice.CreatePlaylistParams) (roomservice.Playlist, error)
	GetUserPlaylists(context.Context, string) ([]roomservice.Playlist, error)
	DeletePlaylist(context.Context, string) error
	AddSongToPlaylist(context.Context, *roomservice.AddSongToPlaylistParams) (roomservice.PlaylistSong, error)
	GetPlaylistSongs(context.Context, string) ([]roomservice.PlaylistSong, error)
	RemoveSongFromPlaylist(context.Context, *roomservice.RemoveSongFromPlaylistParams) error

	SearchVideos(context.Context, string, int) ([]search.Video, error)

	ConnectMember(context.Context, *roomservice.ConnectMemberParams) (*connection.Session, error)
	DisconnectMember(*websocket.Conn) error
	GetSession(*websocket.Conn) (*connection.Session, error)
	GetRoomConns(string) []*websocket.Conn
}

type controller struct {
	roomService iRoomService
	rc          *redis.Client
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	baseURL     string

	searchGuard *search.Latest

	// one sequencer per room, owned by the room's TV connection
	mu         sync.Mutex
	sequencers map[string]*tvBinding
	writeMus   map[*websocket.Conn]*sync.Mutex
}

// tvBinding ties a room's sequencer to the TV connection driving it, so
// playback lifecycle reports are only honored from that connection.
type tvBinding struct {
	seq  *sequencer.Sequencer
	conn *websocket.Conn
}

func NewController(roomService iRoomService, rc *redis.Client, baseURL string, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		rc:          rc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:    validator.NewValidator(),
		logger:      logger,
		baseURL:     baseURL,
		searchGuard: search.NewLatest(),
		sequencers:  make(map[string]*tvBinding),
		writeMus:    make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (c *controller) setSequencer(roomId string, binding *tvBinding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequencers[roomId] = binding
}

func (c *controller) getSequencer(roomId string) *tvBinding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequencers[roomId]
}

func (c *controller) removeSequencer(roomId string, binding *tvBinding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sequencers[roomId] == binding {
		delete(c.sequencers, roomId)
	}
}

// send serializes writes to a connection; snapshot broadcasts and handler
// replies come from different goroutines.
func (c *controller) send(conn *websocket.Conn, v any) error {
	c.mu.Lock()
	mu, ok := c.writeMus[conn]
	if !ok {
		mu = &sync.Mutex{}
		c.writeMus[conn] = mu
	}
	c.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()

	return conn.WriteJSON(v)
}

func (c *controller) forgetConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.writeMus, conn)
}
