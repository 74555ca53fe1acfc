package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/room", func(r chi.Router) {
			r.Post("/", c.createRoom)
			r.Get("/id/{room-id}", c.getRoomById)
			r.Post("/id/{room-id}/end", c.endRoom)
			r.Post("/id/{room-id}/queue/playlist", c.addPlaylistToQueue)
			r.Get("/id/{room-id}/queue", c.getQueue)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", c.getRoomByCode)
				r.Get("/links", c.getRoomLinks)
			})
		})

		r.Get("/search", c.searchVideos)

		r.Route("/playlist", func(r chi.Router) {
			r.Post("/", c.createPlaylist)
			r.Get("/user/{user-id}", c.getUserPlaylists)
			r.Route("/{playlist-id}", func(r chi.Router) {
				r.Delete("/", c.deletePlaylist)
				r.Get("/songs", c.getPlaylistSongs)
				r.Post("/songs", c.addSongToPlaylist)
				r.Delete("/songs/{song-id}", c.removeSongFromPlaylist)
			})
		})

		r.Route("/ws", func(r chi.Router) {
			r.Route("/room/{code}", func(r chi.Router) {
				r.Get("/", c.wsJoinRoom)
				r.Get("/host", c.wsHostRoom)
				r.Get("/tv", c.wsTVRoom)
			})
		})
	})

	return r
}
