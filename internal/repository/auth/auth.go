// Package auth stores upstream provider credentials per caller identity.
package auth

import "errors"

var ErrTokenNotFound = errors.New("token not found")

type Token struct {
	AccessToken  string `redis:"access_token"`
	RefreshToken string `redis:"refresh_token"`
	TokenType    string `redis:"token_type"`
	ExpiresAt    int64  `redis:"expires_at"`
}

type SetTokenParams struct {
	Identity     string
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    int64
}
