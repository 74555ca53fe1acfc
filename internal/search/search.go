package search

import "sync"

type Video struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	ChannelName string `json:"channel_name"`
}

// Latest guards against a superseded search overwriting a newer one: each
// issued request takes a token, and only the response holding the most
// recently issued token for its key is current.
type Latest struct {
	mu     sync.Mutex
	tokens map[string]uint64
}

func NewLatest() *Latest {
	return &Latest{tokens: make(map[string]uint64)}
}

// Issue registers a new request for the key and returns its token.
func (l *Latest) Issue(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens[key]++
	return l.tokens[key]
}

// IsCurrent reports whether the token still belongs to the latest request
// issued for the key.
func (l *Latest) IsCurrent(key string, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tokens[key] == token
}
