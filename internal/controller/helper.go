package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/singparty/server/internal/service/room"
	"github.com/singparty/server/pkg/rest"
)

func (c *controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// writeServiceError maps service errors onto user-visible JSON responses;
// nothing is allowed to escape the boundary uncaught.
func (c *controller) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, room.ErrQueueEntryNotFound),
		errors.Is(err, room.ErrPlaylistNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrPermissionDenied):
		rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrPlaylistEmpty),
		errors.Is(err, room.ErrQueueLimitReached),
		errors.Is(err, room.ErrPartialReorder):
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrCodeGenerationExhausted):
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
	default:
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
	}
}
