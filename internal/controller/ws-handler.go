package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jamroom/server/internal/chat"
	"github.com/jamroom/server/internal/hub"
	"github.com/jamroom/server/internal/service/room"
	"github.com/jamroom/server/pkg/rest"
)

// roomChat serves the chat channel for one room. Every valid message is
// stamped server-side and fanned out to the whole group, sender included;
// validation failures go back to the sender only and keep the connection
// open.
func (c controller) roomChat(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	if _, err := c.roomService.GetRoom(r.Context(), &room.GetRoomParams{
		Code:     roomCode,
		CallerId: c.getSessionIdFromCtx(r.Context()),
	}); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "Room not found."})
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to resolve room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	client := hub.NewClient(conn)
	c.hub.Join(roomCode, client)
	defer c.hub.Leave(roomCode, client)

	go client.WritePump()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.DebugContext(r.Context(), "connection closed", "room_code", roomCode, "error", err)
			return
		}

		var msg chat.Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			client.Send(chat.NewError("Invalid message format."))
			continue
		}

		if err := msg.Validate(); err != nil {
			client.Send(chat.NewError(err.Error()))
			continue
		}

		if err := c.hub.Broadcast(r.Context(), roomCode, chat.Event{
			Type:        chat.TypeMessage,
			Name:        msg.Name,
			Text:        msg.Text,
			TimestampMs: time.Now().UnixMilli(),
		}); err != nil {
			c.logger.WarnContext(r.Context(), "failed to broadcast chat message", "error", err)
		}
	}
}
