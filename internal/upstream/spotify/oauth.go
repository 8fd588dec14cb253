package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var scopes = strings.Join([]string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}, " ")

// AuthURL builds the authorization redirect. state carries the room code
// so the callback can send the host back to their room.
func (c *Client) AuthURL(state string) string {
	params := url.Values{}
	params.Set("scope", scopes)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("client_id", c.cfg.ClientId)
	if state != "" {
		params.Set("state", state)
	}

	return c.accountsURL + "/authorize?" + params.Encode()
}

func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	return c.requestToken(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.cfg.RedirectURI},
	})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	return c.requestToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (Token, error) {
	form.Set("client_id", c.cfg.ClientId)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Token{}, fmt.Errorf("%w: token request status %d", ErrUnavailable, resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if token.AccessToken == "" {
		return Token{}, ErrAuthRequired
	}

	return token, nil
}
