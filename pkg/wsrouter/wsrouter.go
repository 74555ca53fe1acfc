package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

// WriteFunc sends a value to the peer. The default writes straight to the
// connection; callers that write to the same connection from other
// goroutines must install a synchronized one.
type WriteFunc func(conn *websocket.Conn, v any) error

type WSRouter struct {
	routes map[string]HandlerFunc
	write  WriteFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]HandlerFunc),
		write: func(conn *websocket.Conn, v any) error {
			return conn.WriteJSON(v)
		},
	}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

func (r *WSRouter) SetWriteFunc(write WriteFunc) {
	r.write = write
}

// ServeConn reads messages from the connection until it fails and routes
// each one by its type field. Handler errors are reported to the peer but
// do not close the connection.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			r.write(conn, map[string]string{"error": "unknown message type"})
			continue
		}

		msgCtx := setMessageTypeToCtx(ctx, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			r.write(conn, map[string]string{"error": err.Error()})
		}
	}
}
