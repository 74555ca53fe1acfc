package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/singparty/server/internal/repository/connection"
	"github.com/singparty/server/internal/sequencer"
	roomservice "github.com/singparty/server/internal/service/room"
)

// requireHostSequencer resolves the sender's session, checks host
// authority and returns the room's TV binding. Transport and parameter
// controls are only exposed to hosts; the check is advisory, per the
// session-authority design.
func (c *controller) requireHostSequencer(conn *websocket.Conn) (*connection.Session, *tvBinding, error) {
	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return nil, nil, err
	}

	if !session.IsHost {
		return nil, nil, roomservice.ErrPermissionDenied
	}

	binding := c.getSequencer(session.RoomId)
	if binding == nil {
		return nil, nil, errors.New("no tv display connected to this room")
	}

	return session, binding, nil
}

func (c *controller) broadcastPlaybackState(roomId string, state sequencer.PlaybackState) {
	for _, conn := range c.roomService.GetRoomConns(roomId) {
		c.send(conn, &Output{Type: "PLAYBACK_STATE", Payload: state})
	}
}

// handlePlaybackEnded is the player lifecycle report from the TV. Only
// the connection that owns the room's sequencer may report it.
func (c *controller) handlePlaybackEnded(_ context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, err := c.roomService.GetSession(conn)
	if err != nil {
		return err
	}

	binding := c.getSequencer(session.RoomId)
	if binding == nil || binding.conn != conn {
		return errors.New("playback reports are only accepted from the tv display")
	}

	binding.seq.Ended()
	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

func (c *controller) handleSkip(_ context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	binding.seq.Skip()
	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

func (c *controller) handlePlay(_ context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	binding.seq.Play()
	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

func (c *controller) handlePause(_ context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	binding.seq.Pause()
	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

type setVolumeInput struct {
	Volume int `json:"volume"`
}

func (c *controller) handleSetVolume(_ context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input setVolumeInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	binding.seq.SetVolume(input.Volume)
	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

type setKeyInput struct {
	Semitones int `json:"semitones"`
}

// handleSetKey accepts the semitone shift as state and tells the sender
// that nothing enacts it yet; a silent no-op would hide the limitation.
func (c *controller) handleSetKey(_ context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input setKeyInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	applied, err := binding.seq.SetKeyAdjustment(input.Semitones)
	if errors.Is(err, sequencer.ErrCapabilityUnsupported) {
		c.send(conn, &Output{Type: "NOTICE", Payload: map[string]any{
			"message":        "key adjustment saved, but audio processing is not available yet",
			"key_adjustment": applied,
		}})
	}

	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}

type setVocalRemovalInput struct {
	Enabled bool `json:"enabled"`
}

func (c *controller) handleSetVocalRemoval(_ context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input setVocalRemovalInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	session, binding, err := c.requireHostSequencer(conn)
	if err != nil {
		return err
	}

	if err := binding.seq.SetVocalRemoval(input.Enabled); errors.Is(err, sequencer.ErrCapabilityUnsupported) {
		c.send(conn, &Output{Type: "NOTICE", Payload: map[string]any{
			"message": "vocal removal saved, but audio processing is not available yet",
		}})
	}

	c.broadcastPlaybackState(session.RoomId, binding.seq.State())

	return nil
}
