// Package hub fans messages out to every live connection in a room group.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type Hub struct {
	logger *slog.Logger

	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}

	bridge *bridge
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		groups: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Join(roomCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[roomCode]
	if !ok {
		group = make(map[*Client]struct{})
		h.groups[roomCode] = group
	}
	group[c] = struct{}{}
}

// Leave removes the client from the group and closes its queue. Removing an
// absent client is a no-op.
func (h *Hub) Leave(roomCode string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[roomCode]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}

	delete(group, c)
	if len(group) == 0 {
		delete(h.groups, roomCode)
	}
	c.close()
}

// Broadcast delivers v to every connection currently joined to the room,
// including the sender's. With a bridge attached the message is also
// published so hubs in other processes deliver to their local members.
func (h *Hub) Broadcast(ctx context.Context, roomCode string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if h.bridge != nil {
		if err := h.bridge.publish(ctx, roomCode, data); err != nil {
			h.logger.WarnContext(ctx, "failed to publish broadcast", "error", err)
		}
	}

	h.deliverLocal(ctx, roomCode, data)

	return nil
}

func (h *Hub) deliverLocal(ctx context.Context, roomCode string, data []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.groups[roomCode] {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.InfoContext(ctx, "dropping slow client", "room_code", roomCode)
		h.Leave(roomCode, c)
	}
}

func (h *Hub) groupSize(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.groups[roomCode])
}
