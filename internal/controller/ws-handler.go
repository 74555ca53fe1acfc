package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	redisrepo "github.com/singparty/server/internal/repository/room/redis"
	"github.com/singparty/server/internal/sequencer"
	roomservice "github.com/singparty/server/internal/service/room"
	"github.com/singparty/server/internal/syncbridge"
	"github.com/singparty/server/pkg/ctxlogger"
	"github.com/singparty/server/pkg/rest"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// wsJoinRoom attaches a guest controller device to the room. Joining by
// code never grants host, which also means a host device that reloads and
// reconnects here comes back as a guest.
func (c *controller) wsJoinRoom(w http.ResponseWriter, r *http.Request) {
	c.serveRoomConn(w, r, false, false)
}

// wsHostRoom attaches the device that created the room. Host status is a
// property of how the device entered, not of the room record; the store
// does not enforce it.
func (c *controller) wsHostRoom(w http.ResponseWriter, r *http.Request) {
	c.serveRoomConn(w, r, true, false)
}

// wsTVRoom attaches the TV display and starts the room's playback
// sequencer, driving the TV's player through declarative commands.
func (c *controller) wsTVRoom(w http.ResponseWriter, r *http.Request) {
	c.serveRoomConn(w, r, true, true)
}

func (c *controller) serveRoomConn(w http.ResponseWriter, r *http.Request, isHost, isTV bool) {
	ctx := r.Context()

	joinedRoom, err := c.roomService.JoinRoomByCode(ctx, chi.URLParam(r, "code"))
	if err != nil {
		c.logger.InfoContext(ctx, "room resolve failed", "error", err)
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	displayName := r.URL.Query().Get("display_name")
	if displayName == "" {
		displayName = "Guest"
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(ctx, "upgrade failed", "error", err)
		return
	}
	defer c.forgetConn(conn)

	session, err := c.roomService.ConnectMember(ctx, &roomservice.ConnectMemberParams{
		Conn:        conn,
		RoomId:      joinedRoom.Id,
		UserId:      r.URL.Query().Get("user_id"),
		DisplayName: displayName,
		IsHost:      isHost,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "connect member failed", "error", err)
		conn.Close()
		return
	}
	defer c.roomService.DisconnectMember(conn)

	ctx = ctxlogger.AppendCtx(ctx, slog.String("member_id", session.MemberId))

	// one logical subscription per observing device
	bridge := syncbridge.New(ctx, c.rc, redisrepo.QueueEventsChannel(joinedRoom.Id), func(ctx context.Context) ([]roomservice.QueueItem, error) {
		return c.roomService.GetQueueItems(ctx, joinedRoom.Id)
	}, c.logger)
	defer bridge.Close()

	var binding *tvBinding
	if isTV {
		binding = &tvBinding{conn: conn}
		binding.seq = sequencer.New(&wsPlayer{controller: c, conn: conn}, func(entryId string) {
			if err := c.roomService.MarkAsPlayed(context.Background(), entryId); err != nil {
				c.logger.WarnContext(ctx, "mark played failed", "entry_id", entryId, "error", err)
			}
		})
		c.setSequencer(joinedRoom.Id, binding)
		defer c.removeSequencer(joinedRoom.Id, binding)
	}

	go func() {
		for items := range bridge.Updates() {
			if err := c.send(conn, &Output{Type: "QUEUE_UPDATED", Payload: items}); err != nil {
				return
			}

			if binding != nil {
				binding.seq.ApplySnapshot(toSequencerEntries(items))
			}
		}
	}()

	if err := c.send(conn, &Output{Type: "JOINED", Payload: map[string]any{
		"room":      joinedRoom,
		"member_id": session.MemberId,
		"is_host":   session.IsHost,
	}}); err != nil {
		return
	}

	if err := c.getWSRouter().ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}
}

func toSequencerEntries(items []roomservice.QueueItem) []sequencer.Entry {
	entries := make([]sequencer.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, sequencer.Entry{
			Id:             item.Id,
			VideoId:        item.VideoId,
			VideoTitle:     item.VideoTitle,
			VideoThumbnail: item.VideoThumbnail,
		})
	}

	return entries
}

// wsPlayer adapts the TV connection into the sequencer's player: commands
// cross the websocket and the TV's renderer applies them.
type wsPlayer struct {
	controller *controller
	conn       *websocket.Conn
}

func (p *wsPlayer) Load(entry sequencer.Entry) {
	p.controller.send(p.conn, &Output{Type: "PLAYER_LOAD", Payload: entry})
}

func (p *wsPlayer) Play() {
	p.controller.send(p.conn, &Output{Type: "PLAYER_PLAY"})
}

func (p *wsPlayer) Pause() {
	p.controller.send(p.conn, &Output{Type: "PLAYER_PAUSE"})
}

func (p *wsPlayer) SetVolume(volume int) {
	p.controller.send(p.conn, &Output{Type: "PLAYER_SET_VOLUME", Payload: map[string]int{"volume": volume}})
}
