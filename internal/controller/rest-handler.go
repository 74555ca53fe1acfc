package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/singparty/server/internal/service/room"
	"github.com/singparty/server/pkg/rest"
)

type createRoomRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	Type       string `json:"type" validate:"required,oneof=home business"`
	HostUserId string `json:"host_user_id"`
}

func (c *controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	createdRoom, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Name:       req.Name,
		Type:       req.Type,
		HostUserId: req.HostUserId,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "create room failed", "error", err)
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": createdRoom})
}

func (c *controller) getRoomByCode(w http.ResponseWriter, r *http.Request) {
	foundRoom, err := c.roomService.GetRoomByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": foundRoom})
}

func (c *controller) getRoomById(w http.ResponseWriter, r *http.Request) {
	foundRoom, err := c.roomService.GetRoomById(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": foundRoom})
}

func (c *controller) endRoom(w http.ResponseWriter, r *http.Request) {
	if err := c.roomService.EndRoom(r.Context(), chi.URLParam(r, "room-id")); err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": "ended"})
}

type roomLinks struct {
	View       string `json:"view"`
	TV         string `json:"tv"`
	Controller string `json:"controller"`
	QRJoin     string `json:"qr_join"`
}

// getRoomLinks returns the four deep-link roles sharing one room code. All
// of them resolve through the same code lookup on the way back in.
func (c *controller) getRoomLinks(w http.ResponseWriter, r *http.Request) {
	foundRoom, err := c.roomService.GetRoomByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomLinks{
		View:       c.baseURL + "/room/" + foundRoom.Code,
		TV:         c.baseURL + "/room/" + foundRoom.Code + "/tv",
		Controller: c.baseURL + "/room/" + foundRoom.Code + "/controller",
		QRJoin:     c.baseURL + "/join/" + foundRoom.Code,
	}})
}

func (c *controller) getQueue(w http.ResponseWriter, r *http.Request) {
	items, err := c.roomService.GetQueueItems(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": items})
}

func (c *controller) searchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "q is required"})
		return
	}

	maxResults, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

	videos, err := c.roomService.SearchVideos(r.Context(), query, maxResults)
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": videos})
}

type addPlaylistToQueueRequest struct {
	PlaylistId    string `json:"playlist_id" validate:"required"`
	AddedByName   string `json:"added_by_name"`
	AddedByUserId string `json:"added_by_user_id"`
}

func (c *controller) addPlaylistToQueue(w http.ResponseWriter, r *http.Request) {
	var req addPlaylistToQueueRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	items, err := c.roomService.AddPlaylistToQueue(r.Context(), &room.AddPlaylistToQueueParams{
		RoomId:        chi.URLParam(r, "room-id"),
		PlaylistId:    req.PlaylistId,
		AddedByName:   req.AddedByName,
		AddedByUserId: req.AddedByUserId,
	})
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": items})
}

type createPlaylistRequest struct {
	OwnerId     string `json:"owner_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=256"`
	IsPublic    bool   `json:"is_public"`
}

func (c *controller) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	playlist, err := c.roomService.CreatePlaylist(r.Context(), &room.CreatePlaylistParams{
		OwnerId:     req.OwnerId,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": playlist})
}

func (c *controller) getUserPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := c.roomService.GetUserPlaylists(r.Context(), chi.URLParam(r, "user-id"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": playlists})
}

func (c *controller) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := c.roomService.DeletePlaylist(r.Context(), chi.URLParam(r, "playlist-id")); err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": "deleted"})
}

type addSongRequest struct {
	VideoId        string `json:"video_id" validate:"required"`
	VideoTitle     string `json:"video_title" validate:"required"`
	VideoThumbnail string `json:"video_thumbnail"`
}

func (c *controller) addSongToPlaylist(w http.ResponseWriter, r *http.Request) {
	var req addSongRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	song, err := c.roomService.AddSongToPlaylist(r.Context(), &room.AddSongToPlaylistParams{
		PlaylistId:     chi.URLParam(r, "playlist-id"),
		VideoId:        req.VideoId,
		VideoTitle:     req.VideoTitle,
		VideoThumbnail: req.VideoThumbnail,
	})
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": song})
}

func (c *controller) getPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := c.roomService.GetPlaylistSongs(r.Context(), chi.URLParam(r, "playlist-id"))
	if err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": songs})
}

func (c *controller) removeSongFromPlaylist(w http.ResponseWriter, r *http.Request) {
	if err := c.roomService.RemoveSongFromPlaylist(r.Context(), &room.RemoveSongFromPlaylistParams{
		SongId:     chi.URLParam(r, "song-id"),
		PlaylistId: chi.URLParam(r, "playlist-id"),
	}); err != nil {
		c.writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": "removed"})
}
