package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jamroom/server/internal/repository/room"
)

func (r repo) getSessionRoomKey(sessionId string) string {
	return "session:" + sessionId + ":room"
}

func (r repo) SetSessionRoom(ctx context.Context, sessionId string, code string) error {
	if err := r.rc.Set(ctx, r.getSessionRoomKey(sessionId), code, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set session room: %w", err)
	}

	return nil
}

func (r repo) GetSessionRoom(ctx context.Context, sessionId string) (string, error) {
	sessionKey := r.getSessionRoomKey(sessionId)

	code, err := r.rc.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", room.ErrNoSessionRoom
		}
		return "", fmt.Errorf("failed to get session room: %w", err)
	}

	r.rc.Expire(ctx, sessionKey, r.expireDuration)

	return code, nil
}

func (r repo) RemoveSessionRoom(ctx context.Context, sessionId string) error {
	if err := r.rc.Del(ctx, r.getSessionRoomKey(sessionId)).Err(); err != nil {
		return fmt.Errorf("failed to remove session room: %w", err)
	}

	return nil
}
