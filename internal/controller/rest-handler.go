package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jamroom/server/internal/service/room"
	"github.com/jamroom/server/pkg/rest"
)

type createRoomInput struct {
	GuestCanPause bool `json:"guest_can_pause"`
	VotesToSkip   int  `json:"votes_to_skip" validate:"required,min=1"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.roomService.CreateOrUpdateRoom(r.Context(), &room.CreateOrUpdateRoomParams{
		HostId:        c.getSessionIdFromCtx(r.Context()),
		GuestCanPause: req.GuestCanPause,
		VotesToSkip:   req.VotesToSkip,
	})
	if err != nil {
		c.writeRoomError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	rest.WriteJSON(w, status, resp.Room)
}

type joinRoomInput struct {
	Code string `json:"code" validate:"required"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		Code:     req.Code,
		JoinerId: c.getSessionIdFromCtx(r.Context()),
	}); err != nil {
		c.writeRoomError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "Room Joined!", "code": req.Code})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.GetRoom(r.Context(), &room.GetRoomParams{
		Code:     chi.URLParam(r, "room-code"),
		CallerId: c.getSessionIdFromCtx(r.Context()),
	})
	if err != nil {
		c.writeRoomError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"code":            resp.Room.Code,
		"guest_can_pause": resp.Room.GuestCanPause,
		"votes_to_skip":   resp.Room.VotesToSkip,
		"is_host":         resp.IsHost,
	})
}

type updateRoomInput struct {
	GuestCanPause bool `json:"guest_can_pause"`
	VotesToSkip   int  `json:"votes_to_skip" validate:"required,min=1"`
}

func (c controller) updateRoom(w http.ResponseWriter, r *http.Request) {
	var req updateRoomInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	updated, err := c.roomService.UpdateRoom(r.Context(), &room.UpdateRoomParams{
		Code:          chi.URLParam(r, "room-code"),
		RequesterId:   c.getSessionIdFromCtx(r.Context()),
		GuestCanPause: req.GuestCanPause,
		VotesToSkip:   req.VotesToSkip,
	})
	if err != nil {
		c.writeRoomError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, updated)
}

func (c controller) leaveRoom(w http.ResponseWriter, r *http.Request) {
	if err := c.roomService.LeaveRoom(r.Context(), c.getSessionIdFromCtx(r.Context())); err != nil {
		c.writeRoomError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "Successfully left the room."})
}

func (c controller) writeRoomError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Room not found."})
	case errors.Is(err, room.ErrPermissionDenied):
		rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "You are not the host of this room."})
	default:
		c.logger.ErrorContext(r.Context(), "room operation failed", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
	}
}
