package controller

import (
	"github.com/singparty/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.SetWriteFunc(c.send)

	mux.Handle("ALIVE", c.handleAlive)

	// queue
	mux.Handle("ADD_TO_QUEUE", c.handleAddToQueue)
	mux.Handle("REMOVE_FROM_QUEUE", c.handleRemoveFromQueue)
	mux.Handle("REORDER_QUEUE", c.handleReorderQueue)
	mux.Handle("ADD_PLAYLIST", c.handleAddPlaylist)

	// playback
	mux.Handle("PLAYBACK_ENDED", c.handlePlaybackEnded)
	mux.Handle("SKIP", c.handleSkip)
	mux.Handle("PLAY", c.handlePlay)
	mux.Handle("PAUSE", c.handlePause)
	mux.Handle("SET_VOLUME", c.handleSetVolume)
	mux.Handle("SET_KEY", c.handleSetKey)
	mux.Handle("SET_VOCAL_REMOVAL", c.handleSetVocalRemoval)

	// search
	mux.Handle("SEARCH", c.handleSearch)

	return mux
}
