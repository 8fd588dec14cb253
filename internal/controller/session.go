package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jamroom/server/pkg/ctxlogger"
)

const (
	sessionCookieName = "jr-session"
	sessionCookieAge  = 60 * 60 * 24 * 30
)

// sessionMw gives every caller a stable identity: a uuid wrapped in a
// signed cookie, minted on first contact. Core services receive the id as
// an explicit parameter, never the cookie itself.
func (c controller) sessionMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if id, err := c.parseSessionToken(cookie.Value); err == nil {
				sessionId = id
			}
		}

		if sessionId == "" {
			sessionId = uuid.NewString()
			token, err := c.generateSessionToken(sessionId)
			if err != nil {
				c.logger.ErrorContext(r.Context(), "failed to sign session token", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   sessionCookieAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIdCtxKey, sessionId)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", sessionId))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) generateSessionToken(sessionId string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(c.secret))
}

func (c controller) parseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token")
	}

	sessionId, ok := claims["session_id"].(string)
	if !ok || sessionId == "" {
		return "", errors.New("invalid token")
	}

	return sessionId, nil
}
