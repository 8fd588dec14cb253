package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jamroom/server/internal/repository/auth"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getTokenKey(identity string) string {
	return "spotify-token:" + identity
}

func (r repo) SetToken(ctx context.Context, params *auth.SetTokenParams) error {
	tokenKey := r.getTokenKey(params.Identity)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, tokenKey, auth.Token{
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		TokenType:    params.TokenType,
		ExpiresAt:    params.ExpiresAt,
	})
	pipe.Expire(ctx, tokenKey, r.expireDuration)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return fmt.Errorf("failed to set token: %w", err)
			}
		}
		return fmt.Errorf("failed to set token: %w", err)
	}

	return nil
}

func (r repo) GetToken(ctx context.Context, identity string) (auth.Token, error) {
	tokenKey := r.getTokenKey(identity)

	cmd := r.rc.HGetAll(ctx, tokenKey)
	if err := cmd.Err(); err != nil {
		return auth.Token{}, fmt.Errorf("failed to get token: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return auth.Token{}, auth.ErrTokenNotFound
	}

	var token auth.Token
	if err := cmd.Scan(&token); err != nil {
		return auth.Token{}, fmt.Errorf("failed to scan token: %w", err)
	}

	r.rc.Expire(ctx, tokenKey, r.expireDuration)

	return token, nil
}
