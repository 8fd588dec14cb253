package hub

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "room-events:"

// bridge mirrors broadcasts over redis pub/sub so a deployment with several
// server processes reaches connections hosted elsewhere.
type bridge struct {
	rc       *redis.Client
	originId string
}

type envelope struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// AttachBridge starts mirroring broadcasts through rc. It must be called
// before the hub starts serving connections.
func (h *Hub) AttachBridge(ctx context.Context, rc *redis.Client) {
	b := &bridge{
		rc:       rc,
		originId: uuid.NewString(),
	}
	h.bridge = b

	sub := rc.PSubscribe(ctx, channelPrefix+"*")
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					h.logger.WarnContext(ctx, "failed to decode bridged broadcast", "error", err)
					continue
				}
				// own broadcasts were already delivered locally
				if env.Origin == b.originId {
					continue
				}

				roomCode := strings.TrimPrefix(msg.Channel, channelPrefix)
				h.deliverLocal(ctx, roomCode, env.Data)
			}
		}
	}()
}

func (b *bridge) publish(ctx context.Context, roomCode string, data []byte) error {
	payload, err := json.Marshal(envelope{
		Origin: b.originId,
		Data:   data,
	})
	if err != nil {
		return err
	}

	return b.rc.Publish(ctx, channelPrefix+roomCode, payload).Err()
}
