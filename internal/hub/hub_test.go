package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) map[string]string {
	t.Helper()

	select {
	case data := <-c.send:
		var v map[string]string
		require.NoError(t, json.Unmarshal(data, &v))
		return v
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func TestBroadcastReachesWholeGroup(t *testing.T) {
	h := New(slog.Default())
	ctx := context.Background()

	sender := NewClient(nil)
	other := NewClient(nil)
	outsider := NewClient(nil)
	h.Join("AAAAAA", sender)
	h.Join("AAAAAA", other)
	h.Join("BBBBBB", outsider)

	err := h.Broadcast(ctx, "AAAAAA", map[string]string{"type": "chat message", "text": "hi"})
	require.NoError(t, err)

	// the sender's own connection gets the message too
	assert.Equal(t, "hi", receive(t, sender)["text"])
	assert.Equal(t, "hi", receive(t, other)["text"])
	assert.Empty(t, outsider.send, "other rooms must not see the message")
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	h := New(slog.Default())

	err := h.Broadcast(context.Background(), "AAAAAA", map[string]string{"type": "chat message"})
	require.NoError(t, err)
}

func TestLeave(t *testing.T) {
	h := New(slog.Default())
	ctx := context.Background()

	a := NewClient(nil)
	b := NewClient(nil)
	h.Join("AAAAAA", a)
	h.Join("AAAAAA", b)
	require.Equal(t, 2, h.groupSize("AAAAAA"))

	h.Leave("AAAAAA", a)
	assert.Equal(t, 1, h.groupSize("AAAAAA"))

	// a second leave of the same client is a no-op
	h.Leave("AAAAAA", a)
	assert.Equal(t, 1, h.groupSize("AAAAAA"))

	require.NoError(t, h.Broadcast(ctx, "AAAAAA", map[string]string{"text": "still here"}))
	assert.Equal(t, "still here", receive(t, b)["text"])
	assert.Empty(t, a.send, "a removed client must not receive broadcasts")

	h.Leave("AAAAAA", b)
	assert.Zero(t, h.groupSize("AAAAAA"), "empty group must be dropped")
}

func TestSlowClientIsDropped(t *testing.T) {
	h := New(slog.Default())
	ctx := context.Background()

	slow := NewClient(nil)
	h.Join("AAAAAA", slow)

	for i := 0; i <= sendBufferSize; i++ {
		require.NoError(t, h.Broadcast(ctx, "AAAAAA", map[string]string{"text": "flood"}))
	}

	assert.Zero(t, h.groupSize("AAAAAA"), "a client with a full queue is evicted")
}

func TestSendAfterEviction(t *testing.T) {
	h := New(slog.Default())
	ctx := context.Background()

	slow := NewClient(nil)
	h.Join("AAAAAA", slow)

	for i := 0; i <= sendBufferSize; i++ {
		require.NoError(t, h.Broadcast(ctx, "AAAAAA", map[string]string{"text": "flood"}))
	}
	require.Zero(t, h.groupSize("AAAAAA"))

	// the read loop may still answer the evicted client; that must be
	// a silent no-op, not a panic
	assert.NoError(t, slow.Send(map[string]string{"type": "chat error", "message": "nope"}))

	// broadcasts past the closed client stay quiet too
	assert.NoError(t, h.Broadcast(ctx, "AAAAAA", map[string]string{"text": "after"}))
}

func TestClientSendDirect(t *testing.T) {
	c := NewClient(nil)

	require.NoError(t, c.Send(map[string]string{"type": "chat error", "message": "nope"}))
	assert.Equal(t, "nope", receive(t, c)["message"])
}
