// Package spotify talks to the Spotify Web API: OAuth token exchange,
// currently-playing state and playback transport control.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIBaseURL  = "https://api.spotify.com/v1/me"
)

var (
	// ErrNoCurrentSong is returned when the host has no active playback.
	ErrNoCurrentSong = errors.New("no song currently playing")
	// ErrAuthRequired is returned when the provider rejects the token.
	ErrAuthRequired = errors.New("authentication required")
	// ErrUnavailable covers transport failures and provider 5xx answers.
	ErrUnavailable = errors.New("upstream unavailable")
)

type Config struct {
	ClientId     string
	ClientSecret string
	RedirectURI  string
}

type Client struct {
	cfg         *Config
	httpClient  *http.Client
	accountsURL string
	apiBaseURL  string
}

func NewClient(cfg *Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		accountsURL: defaultAccountsURL,
		apiBaseURL:  defaultAPIBaseURL,
	}
}

// CurrentlyPlaying fetches the host's playback state. Raw provider error
// bodies are never propagated, only the typed errors above.
func (c *Client) CurrentlyPlaying(ctx context.Context, accessToken string) (Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/player/currently-playing", nil)
	if err != nil {
		return Track{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return Track{}, ErrNoCurrentSong
	case resp.StatusCode == http.StatusUnauthorized:
		return Track{}, ErrAuthRequired
	case resp.StatusCode >= 400:
		return Track{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body currentlyPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Track{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if body.Item == nil {
		return Track{}, ErrNoCurrentSong
	}

	track := Track{
		Id:         body.Item.Id,
		Title:      body.Item.Name,
		DurationMs: body.Item.DurationMs,
		ProgressMs: body.ProgressMs,
		IsPlaying:  body.IsPlaying,
	}

	track.Artists = make([]string, 0, len(body.Item.Artists))
	for _, artist := range body.Item.Artists {
		name := artist.Name
		if name == "" {
			name = "Unknown Artist"
		}
		track.Artists = append(track.Artists, name)
	}

	if len(body.Item.Album.Images) > 0 {
		track.AlbumArtURL = body.Item.Album.Images[0].URL
	}

	return track, nil
}

func (c *Client) Pause(ctx context.Context, accessToken string) error {
	return c.control(ctx, http.MethodPut, "/player/pause", accessToken)
}

func (c *Client) Play(ctx context.Context, accessToken string) error {
	return c.control(ctx, http.MethodPut, "/player/play", accessToken)
}

func (c *Client) Next(ctx context.Context, accessToken string) error {
	return c.control(ctx, http.MethodPost, "/player/next", accessToken)
}

func (c *Client) control(ctx context.Context, method string, endpoint string, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}
