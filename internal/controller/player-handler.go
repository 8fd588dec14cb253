package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jamroom/server/internal/service/player"
	"github.com/jamroom/server/pkg/rest"
)

func (c controller) currentSong(w http.ResponseWriter, r *http.Request) {
	resp, err := c.playerService.CurrentSong(r.Context(), &player.CurrentSongParams{
		RoomCode: chi.URLParam(r, "room-code"),
	})
	if err != nil {
		c.writePlayerError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}

func (c controller) pauseSong(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.Pause(r.Context(), &player.PauseParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		RequesterId: c.getSessionIdFromCtx(r.Context()),
	}); err != nil {
		c.writePlayerError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "Song paused"})
}

func (c controller) playSong(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.Resume(r.Context(), &player.PauseParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		RequesterId: c.getSessionIdFromCtx(r.Context()),
	}); err != nil {
		c.writePlayerError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "Song resumed"})
}

func (c controller) skipSong(w http.ResponseWriter, r *http.Request) {
	resp, err := c.playerService.RequestSkip(r.Context(), &player.RequestSkipParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		RequesterId: c.getSessionIdFromCtx(r.Context()),
	})
	if err != nil {
		c.writePlayerError(w, r, err)
		return
	}

	if resp.Skipped {
		rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "skipped"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"message":      "vote registered",
		"votes":        resp.Votes,
		"votes_needed": resp.VotesNeeded,
	})
}

func (c controller) writePlayerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, player.ErrRoomNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Room not found."})
	case errors.Is(err, player.ErrPermissionDenied):
		rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "Permission denied"})
	case errors.Is(err, player.ErrAuthRequired):
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "Spotify authentication required"})
	case errors.Is(err, player.ErrNoCurrentSong):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, player.ErrUpstreamFailed):
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": "upstream unavailable"})
	default:
		c.logger.ErrorContext(r.Context(), "player operation failed", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
	}
}
