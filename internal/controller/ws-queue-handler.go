package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	roomservice "github.com/singparty/server/internal/service/room"
)

func (c *controller) handleAlive(_ context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	return nil
}

type addToQueueInput struct {
	VideoId        string `json:"video_id"`
	VideoTitle     string `json:"video_title"`
	VideoThumbnail string `json:"video_thumbnail"`
}

func (c *controller) handleAddToQueue(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input addToQueueInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	item, err := c.roomService.AddToQueue(ctx, &roomservice.AddToQueueParams{
		RoomId:         session.RoomId,
		VideoId:        input.VideoId,
		VideoTitle:     input.VideoTitle,
		VideoThumbnail: input.VideoThumbnail,
		AddedByName:    session.DisplayName,
		AddedByUserId:  session.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	// the full snapshot reaches everyone through their sync bridge; the
	// sender also gets its own entry back for immediate feedback
	return c.send(conn, &Output{Type: "QUEUE_ENTRY_ADDED", Payload: item})
}

type removeFromQueueInput struct {
	EntryId string `json:"entry_id"`
}

func (c *controller) handleRemoveFromQueue(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input removeFromQueueInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	if err := c.roomService.RemoveFromQueue(ctx, &roomservice.RemoveFromQueueParams{
		EntryId: input.EntryId,
		Sender:  session,
	}); err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}

	return nil
}

type reorderQueueInput struct {
	Updates []roomservice.PositionUpdate `json:"updates"`
}

func (c *controller) handleReorderQueue(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input reorderQueueInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	if err := c.roomService.ReorderQueue(ctx, &roomservice.ReorderQueueParams{
		RoomId:  session.RoomId,
		Updates: input.Updates,
	}); err != nil {
		return fmt.Errorf("failed to reorder queue: %w", err)
	}

	return nil
}

type addPlaylistInput struct {
	PlaylistId string `json:"playlist_id"`
}

func (c *controller) handleAddPlaylist(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input addPlaylistInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	items, err := c.roomService.AddPlaylistToQueue(ctx, &roomservice.AddPlaylistToQueueParams{
		RoomId:        session.RoomId,
		PlaylistId:    input.PlaylistId,
		AddedByName:   session.DisplayName,
		AddedByUserId: session.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to add playlist to queue: %w", err)
	}

	return c.send(conn, &Output{Type: "PLAYLIST_QUEUED", Payload: map[string]any{
		"count": len(items),
	}})
}

type searchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// handleSearch guards against a superseded search overwriting a newer
// one: results are dropped unless they belong to the member's latest
// issued query.
func (c *controller) handleSearch(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input searchInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	token := c.searchGuard.Issue(session.MemberId)

	videos, err := c.roomService.SearchVideos(ctx, input.Query, input.MaxResults)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !c.searchGuard.IsCurrent(session.MemberId, token) {
		return nil
	}

	return c.send(conn, &Output{Type: "SEARCH_RESULTS", Payload: map[string]any{
		"query":  input.Query,
		"videos": videos,
	}})
}
