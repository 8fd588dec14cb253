// Package auth keeps upstream provider credentials fresh for each identity.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jamroom/server/internal/repository/auth"
	"github.com/jamroom/server/internal/upstream/spotify"
)

var ErrNotAuthenticated = errors.New("authentication required")

type iTokenRepo interface {
	SetToken(context.Context, *auth.SetTokenParams) error
	GetToken(ctx context.Context, identity string) (auth.Token, error)
}

type iOAuthClient interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (spotify.Token, error)
	Refresh(ctx context.Context, refreshToken string) (spotify.Token, error)
}

type service struct {
	tokenRepo iTokenRepo
	oauth     iOAuthClient
	logger    *slog.Logger
}

func NewService(tokenRepo iTokenRepo, oauth iOAuthClient, logger *slog.Logger) *service {
	return &service{
		tokenRepo: tokenRepo,
		oauth:     oauth,
		logger:    logger,
	}
}

func (s service) AuthURL(state string) string {
	return s.oauth.AuthURL(state)
}

type HandleCallbackParams struct {
	Identity string
	Code     string
}

func (s service) HandleCallback(ctx context.Context, params *HandleCallbackParams) error {
	token, err := s.oauth.Exchange(ctx, params.Code)
	if err != nil {
		return err
	}

	return s.storeToken(ctx, params.Identity, token, "")
}

func (s service) IsAuthenticated(ctx context.Context, identity string) (bool, error) {
	_, err := s.AccessToken(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// AccessToken returns a usable access token for identity, refreshing it
// through the provider when expired.
func (s service) AccessToken(ctx context.Context, identity string) (string, error) {
	token, err := s.tokenRepo.GetToken(ctx, identity)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", err
	}

	if token.ExpiresAt > time.Now().Unix() {
		return token.AccessToken, nil
	}

	s.logger.DebugContext(ctx, "refreshing expired token", "identity", identity)
	refreshed, err := s.oauth.Refresh(ctx, token.RefreshToken)
	if err != nil {
		if errors.Is(err, spotify.ErrAuthRequired) {
			return "", ErrNotAuthenticated
		}
		return "", err
	}

	if err := s.storeToken(ctx, identity, refreshed, token.RefreshToken); err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

// fallbackRefreshToken covers the provider omitting the refresh token on
// a refresh grant, which keeps the original one valid.
func (s service) storeToken(ctx context.Context, identity string, token spotify.Token, fallbackRefreshToken string) error {
	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = fallbackRefreshToken
	}

	return s.tokenRepo.SetToken(ctx, &auth.SetTokenParams{
		Identity:     identity,
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second).Unix(),
	})
}
