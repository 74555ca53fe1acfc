package room

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/singparty/server/internal/repository/connection"
	"github.com/singparty/server/internal/repository/connection/inmemory"
	roomRedis "github.com/singparty/server/internal/repository/room/redis"
	"github.com/singparty/server/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearchProvider struct {
	videos []search.Video
	err    error
}

func (f *fakeSearchProvider) Search(ctx context.Context, query string, maxResults int) ([]search.Video, error) {
	return f.videos, f.err
}

func newTestService(t *testing.T, queueLimit int) *service {
	t.Helper()

	s := miniredis.RunT(t)
	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomRepo := roomRedis.NewRepo(r, logger)
	connRepo := inmemory.NewRepo()

	return NewService(roomRepo, connRepo, &fakeSearchProvider{}, &Config{QueueLimit: queueLimit})
}

func TestCreateRoom(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{
		Name:       "Party Night",
		Type:       "home",
		HostUserId: "user-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, createdRoom.Id, "room id is empty")
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), createdRoom.Code, "code must be 6 chars of A-Z0-9")
	assert.True(t, createdRoom.IsActive, "created room must be active")

	joinedRoom, err := service.JoinRoomByCode(ctx, createdRoom.Code)
	require.NoError(t, err)
	assert.Equal(t, createdRoom.Id, joinedRoom.Id, "join by code must resolve the created room")
	assert.Equal(t, "Party Night", joinedRoom.Name, "name is not equal")
	assert.Equal(t, "home", joinedRoom.Type, "type is not equal")
	assert.Equal(t, "user-1", joinedRoom.HostUserId, "host user id is not equal")
}

func TestJoinRoomByCodeIsCaseInsensitive(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	joinedRoom, err := service.JoinRoomByCode(ctx, "  ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, joinedRoom.Id)

	joinedRoom, err = service.JoinRoomByCode(ctx, strings.ToLower(createdRoom.Code))
	require.NoError(t, err)
	assert.Equal(t, createdRoom.Id, joinedRoom.Id, "lowercase code must resolve")
}

func TestEndRoom(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	require.NoError(t, service.EndRoom(ctx, createdRoom.Id))
	// ending twice is fine
	require.NoError(t, service.EndRoom(ctx, createdRoom.Id))

	_, err = service.JoinRoomByCode(ctx, createdRoom.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound, "ended room must be invisible to joiners")

	_, err = service.GetRoomById(ctx, createdRoom.Id)
	assert.ErrorIs(t, err, ErrRoomNotFound, "ended room must look nonexistent by id too")

	err = service.EndRoom(ctx, "missing-room")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestQueueLifecycle(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "Party Night", Type: "home", HostUserId: "host"})
	require.NoError(t, err)

	first, err := service.AddToQueue(ctx, &AddToQueueParams{
		RoomId:        createdRoom.Id,
		VideoId:       "v1",
		VideoTitle:    "Song One (karaoke)",
		AddedByName:   "Ana",
		AddedByUserId: "user-ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position, "first entry must get position 0")

	second, err := service.AddToQueue(ctx, &AddToQueueParams{
		RoomId:        createdRoom.Id,
		VideoId:       "v2",
		VideoTitle:    "Song Two (karaoke)",
		AddedByName:   "Ben",
		AddedByUserId: "user-ben",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position, "second entry must get position 1")

	items, err := service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.Id, items[0].Id)
	assert.Equal(t, second.Id, items[1].Id)
	assert.Equal(t, "Ana", items[0].AddedByName, "attribution must survive the store")

	require.NoError(t, service.MarkAsPlayed(ctx, first.Id))
	// marking twice is fine
	require.NoError(t, service.MarkAsPlayed(ctx, first.Id))

	items, err = service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	require.Len(t, items, 1, "played entry must leave the pending queue")
	assert.Equal(t, second.Id, items[0].Id)

	// positions keep counting past played entries
	third, err := service.AddToQueue(ctx, &AddToQueueParams{
		RoomId:        createdRoom.Id,
		VideoId:       "v3",
		VideoTitle:    "Song Three (karaoke)",
		AddedByName:   "Ana",
		AddedByUserId: "user-ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Position, "position must be max over all entries ever queued, plus one")

	err = service.MarkAsPlayed(ctx, "missing-entry")
	assert.ErrorIs(t, err, ErrQueueEntryNotFound)
}

func TestAddToQueueLimit(t *testing.T) {
	service := newTestService(t, 2)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := service.AddToQueue(ctx, &AddToQueueParams{RoomId: createdRoom.Id, VideoId: "v", VideoTitle: "t"})
		require.NoError(t, err)
	}

	_, err = service.AddToQueue(ctx, &AddToQueueParams{RoomId: createdRoom.Id, VideoId: "v", VideoTitle: "t"})
	assert.ErrorIs(t, err, ErrQueueLimitReached)

	_, err = service.AddToQueue(ctx, &AddToQueueParams{RoomId: "missing-room", VideoId: "v", VideoTitle: "t"})
	assert.ErrorIs(t, err, ErrRoomNotFound, "adding to a missing room must fail")
}

func TestRemoveFromQueue(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	entry, err := service.AddToQueue(ctx, &AddToQueueParams{RoomId: createdRoom.Id, VideoId: "v1", VideoTitle: "t1"})
	require.NoError(t, err)

	guest := &connection.Session{MemberId: "m1", RoomId: createdRoom.Id, IsHost: false}
	err = service.RemoveFromQueue(ctx, &RemoveFromQueueParams{EntryId: entry.Id, Sender: guest})
	assert.ErrorIs(t, err, ErrPermissionDenied, "guests must not remove entries")

	strangerHost := &connection.Session{MemberId: "m2", RoomId: "other-room", IsHost: true}
	err = service.RemoveFromQueue(ctx, &RemoveFromQueueParams{EntryId: entry.Id, Sender: strangerHost})
	assert.ErrorIs(t, err, ErrPermissionDenied, "host of another room must not remove entries")

	host := &connection.Session{MemberId: "m3", RoomId: createdRoom.Id, IsHost: true}
	require.NoError(t, service.RemoveFromQueue(ctx, &RemoveFromQueueParams{EntryId: entry.Id, Sender: host}))

	items, err := service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	assert.Empty(t, items, "removed entry must be gone")

	// removing an already-gone entry loses the race silently
	require.NoError(t, service.RemoveFromQueue(ctx, &RemoveFromQueueParams{EntryId: entry.Id, Sender: host}))
}

func TestReorderQueue(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	a, err := service.AddToQueue(ctx, &AddToQueueParams{RoomId: createdRoom.Id, VideoId: "va", VideoTitle: "a"})
	require.NoError(t, err)
	b, err := service.AddToQueue(ctx, &AddToQueueParams{RoomId: createdRoom.Id, VideoId: "vb", VideoTitle: "b"})
	require.NoError(t, err)

	err = service.ReorderQueue(ctx, &ReorderQueueParams{
		RoomId: createdRoom.Id,
		Updates: []PositionUpdate{
			{Id: a.Id, Position: 1},
			{Id: b.Id, Position: 0},
		},
	})
	require.NoError(t, err)

	items, err := service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.Id, items[0].Id, "b must come first after the swap")
	assert.Equal(t, a.Id, items[1].Id)

	err = service.ReorderQueue(ctx, &ReorderQueueParams{
		RoomId: createdRoom.Id,
		Updates: []PositionUpdate{
			{Id: a.Id, Position: 5},
			{Id: "missing-entry", Position: 6},
			{Id: b.Id, Position: 7},
		},
	})
	assert.ErrorIs(t, err, ErrPartialReorder, "failing mid-batch must surface a partial reorder")

	// the update before the failure stayed applied
	items, err = service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[1].Position, "a's update landed before the failure")
	assert.Equal(t, 0, items[0].Position, "b's update must not have been applied")
}

func TestPlaylists(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	playlist, err := service.CreatePlaylist(ctx, &CreatePlaylistParams{
		OwnerId:     "user-1",
		Name:        "Road Trip",
		Description: "long drives",
		IsPublic:    true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, playlist.Id)

	song1, err := service.AddSongToPlaylist(ctx, &AddSongToPlaylistParams{
		PlaylistId: playlist.Id,
		VideoId:    "v1",
		VideoTitle: "First",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, song1.Position)

	song2, err := service.AddSongToPlaylist(ctx, &AddSongToPlaylistParams{
		PlaylistId: playlist.Id,
		VideoId:    "v2",
		VideoTitle: "Second",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, song2.Position)

	songs, err := service.GetPlaylistSongs(ctx, playlist.Id)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, song1.Id, songs[0].Id)
	assert.Equal(t, song2.Id, songs[1].Id)

	playlists, err := service.GetUserPlaylists(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Road Trip", playlists[0].Name)

	require.NoError(t, service.RemoveSongFromPlaylist(ctx, &RemoveSongFromPlaylistParams{
		SongId:     song1.Id,
		PlaylistId: playlist.Id,
	}))
	songs, err = service.GetPlaylistSongs(ctx, playlist.Id)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, song2.Id, songs[0].Id)

	require.NoError(t, service.DeletePlaylist(ctx, playlist.Id))
	_, err = service.GetPlaylistSongs(ctx, playlist.Id)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	_, err = service.AddSongToPlaylist(ctx, &AddSongToPlaylistParams{PlaylistId: "missing", VideoId: "v", VideoTitle: "t"})
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestAddPlaylistToQueue(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	playlist, err := service.CreatePlaylist(ctx, &CreatePlaylistParams{OwnerId: "user-1", Name: "p"})
	require.NoError(t, err)

	_, err = service.AddPlaylistToQueue(ctx, &AddPlaylistToQueueParams{
		RoomId:     createdRoom.Id,
		PlaylistId: playlist.Id,
	})
	assert.ErrorIs(t, err, ErrPlaylistEmpty)

	for _, videoId := range []string{"v1", "v2", "v3"} {
		_, err := service.AddSongToPlaylist(ctx, &AddSongToPlaylistParams{
			PlaylistId: playlist.Id,
			VideoId:    videoId,
			VideoTitle: videoId,
		})
		require.NoError(t, err)
	}

	queued, err := service.AddPlaylistToQueue(ctx, &AddPlaylistToQueueParams{
		RoomId:        createdRoom.Id,
		PlaylistId:    playlist.Id,
		AddedByName:   "Ana",
		AddedByUserId: "user-1",
	})
	require.NoError(t, err)
	require.Len(t, queued, 3)

	items, err := service.GetQueueItems(ctx, createdRoom.Id)
	require.NoError(t, err)
	require.Len(t, items, 3, "all playlist songs must land in the queue")
	assert.Equal(t, "v1", items[0].VideoId)
	assert.Equal(t, "v2", items[1].VideoId)
	assert.Equal(t, "v3", items[2].VideoId)
	assert.Equal(t, "Ana", items[0].AddedByName, "queue attribution belongs to the importer")
}

func TestConnectMember(t *testing.T) {
	service := newTestService(t, 100)
	ctx := context.Background()

	createdRoom, err := service.CreateRoom(ctx, &CreateRoomParams{Name: "r", Type: "home", HostUserId: "u"})
	require.NoError(t, err)

	hostSession, err := service.ConnectMember(ctx, &ConnectMemberParams{
		Conn:        &websocket.Conn{},
		RoomId:      createdRoom.Id,
		UserId:      "user-1",
		DisplayName: "Ana",
		IsHost:      true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, hostSession.MemberId)
	assert.True(t, hostSession.IsHost)

	guestConn := &websocket.Conn{}
	guestSession, err := service.ConnectMember(ctx, &ConnectMemberParams{
		Conn:        guestConn,
		RoomId:      createdRoom.Id,
		DisplayName: "Ben",
	})
	require.NoError(t, err)
	assert.False(t, guestSession.IsHost)

	conns := service.GetRoomConns(createdRoom.Id)
	assert.Len(t, conns, 2, "both devices must be observing the room")

	got, err := service.GetSession(guestConn)
	require.NoError(t, err)
	assert.Equal(t, guestSession.MemberId, got.MemberId)

	require.NoError(t, service.DisconnectMember(guestConn))
	conns = service.GetRoomConns(createdRoom.Id)
	assert.Len(t, conns, 1, "disconnected device must drop out")
}
