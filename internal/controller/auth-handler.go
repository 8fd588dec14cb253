package controller

import (
	"net/http"

	authservice "github.com/jamroom/server/internal/service/auth"
	"github.com/jamroom/server/pkg/rest"
)

func (c controller) authURL(w http.ResponseWriter, r *http.Request) {
	roomCode := r.URL.Query().Get("room_code")

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"url": c.authService.AuthURL(roomCode)})
}

// authCallback completes the OAuth dance. state carries the room code the
// host came from so they land back in their room.
func (c controller) authCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		c.logger.InfoContext(r.Context(), "authorization denied", "error", errParam)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "authorization denied"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "code param missing"})
		return
	}

	if err := c.authService.HandleCallback(r.Context(), &authservice.HandleCallbackParams{
		Identity: c.getSessionIdFromCtx(r.Context()),
		Code:     code,
	}); err != nil {
		c.logger.ErrorContext(r.Context(), "failed to handle callback", "error", err)
		rest.WriteJSON(w, http.StatusBadGateway, rest.Envelope{"error": "token exchange failed"})
		return
	}

	redirectTo := "/"
	if state := r.URL.Query().Get("state"); state != "" {
		redirectTo = "/room/" + state
	}
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

func (c controller) authStatus(w http.ResponseWriter, r *http.Request) {
	authenticated, err := c.authService.IsAuthenticated(r.Context(), c.getSessionIdFromCtx(r.Context()))
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to check auth status", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"status": authenticated})
}
