package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/singparty/server/internal/repository/connection"
)

type repo struct {
	connList map[*websocket.Conn]*connection.Session
	idList   map[string]*websocket.Conn
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]*connection.Session),
		idList:   make(map[string]*websocket.Conn),
	}
}

func (r *repo) Add(conn *websocket.Conn, session *connection.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != nil || r.idList[session.MemberId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = session
	r.idList[session.MemberId] = conn

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.connList[conn]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, session.MemberId)

	return nil
}

func (r *repo) RemoveByMemberId(memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[memberId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberId)

	return nil
}

func (r *repo) GetSession(conn *websocket.Conn) (*connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.connList[conn]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return session, nil
}

func (r *repo) GetConn(memberId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[memberId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

// GetConnsByRoomId returns every live connection bound to the room, used
// for snapshot broadcasts.
func (r *repo) GetConnsByRoomId(roomId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []*websocket.Conn
	for conn, session := range r.connList {
		if session.RoomId == roomId {
			conns = append(conns, conn)
		}
	}

	return conns
}
