package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamroom/server/internal/chat"
	"github.com/jamroom/server/internal/hub"
	authservice "github.com/jamroom/server/internal/service/auth"
	"github.com/jamroom/server/internal/service/player"
	"github.com/jamroom/server/internal/service/room"
)

type fakeRoomService struct {
	rooms map[string]room.Room
}

func (f *fakeRoomService) CreateOrUpdateRoom(ctx context.Context, params *room.CreateOrUpdateRoomParams) (room.CreateOrUpdateRoomResponse, error) {
	rm := room.Room{
		Code:          "AAAAAA",
		Host:          params.HostId,
		GuestCanPause: params.GuestCanPause,
		VotesToSkip:   params.VotesToSkip,
	}
	_, existed := f.rooms[rm.Code]
	f.rooms[rm.Code] = rm

	return room.CreateOrUpdateRoomResponse{Room: rm, Created: !existed}, nil
}

func (f *fakeRoomService) JoinRoom(ctx context.Context, params *room.JoinRoomParams) error {
	if _, ok := f.rooms[params.Code]; !ok {
		return room.ErrRoomNotFound
	}
	return nil
}

func (f *fakeRoomService) GetRoom(ctx context.Context, params *room.GetRoomParams) (room.GetRoomResponse, error) {
	rm, ok := f.rooms[params.Code]
	if !ok {
		return room.GetRoomResponse{}, room.ErrRoomNotFound
	}
	return room.GetRoomResponse{Room: rm, IsHost: rm.Host == params.CallerId}, nil
}

func (f *fakeRoomService) UpdateRoom(ctx context.Context, params *room.UpdateRoomParams) (room.Room, error) {
	rm, ok := f.rooms[params.Code]
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}
	if rm.Host != params.RequesterId {
		return room.Room{}, room.ErrPermissionDenied
	}
	rm.GuestCanPause = params.GuestCanPause
	rm.VotesToSkip = params.VotesToSkip
	f.rooms[params.Code] = rm
	return rm, nil
}

func (f *fakeRoomService) LeaveRoom(ctx context.Context, callerId string) error {
	return nil
}

type fakePlayerService struct{}

func (fakePlayerService) CurrentSong(ctx context.Context, params *player.CurrentSongParams) (player.CurrentSongResponse, error) {
	return player.CurrentSongResponse{}, player.ErrNoCurrentSong
}

func (fakePlayerService) Pause(ctx context.Context, params *player.PauseParams) error {
	return nil
}

func (fakePlayerService) Resume(ctx context.Context, params *player.PauseParams) error {
	return nil
}

func (fakePlayerService) RequestSkip(ctx context.Context, params *player.RequestSkipParams) (player.RequestSkipResponse, error) {
	return player.RequestSkipResponse{Votes: 1, VotesNeeded: 2}, nil
}

type fakeAuthService struct{}

func (fakeAuthService) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (fakeAuthService) HandleCallback(ctx context.Context, params *authservice.HandleCallbackParams) error {
	return nil
}

func (fakeAuthService) IsAuthenticated(ctx context.Context, identity string) (bool, error) {
	return false, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeRoomService) {
	t.Helper()

	roomService := &fakeRoomService{rooms: map[string]room.Room{
		"AAAAAA": {Code: "AAAAAA", Host: "someone-else", VotesToSkip: 2},
	}}
	c := NewController(roomService, fakePlayerService{}, fakeAuthService{}, hub.New(slog.Default()), "test-secret", slog.Default())

	server := httptest.NewServer(c.GetMux())
	t.Cleanup(server.Close)

	return server, roomService
}

func TestSessionCookieIsIssued(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "first contact must set a session cookie")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestCreateRoomValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/room", "application/json", strings.NewReader(`{"guest_can_pause": true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing votes_to_skip must be rejected")
}

func TestGetRoomNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/room/NOPE42")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRoom(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/room/AAAAAA")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Code          string `json:"code"`
		GuestCanPause bool   `json:"guest_can_pause"`
		VotesToSkip   int    `json:"votes_to_skip"`
		IsHost        bool   `json:"is_host"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AAAAAA", body.Code)
	assert.Equal(t, 2, body.VotesToSkip)
	assert.False(t, body.IsHost, "a fresh session is never the host")
}

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestRoomChat(t *testing.T) {
	server, _ := newTestServer(t)

	alice, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/room/AAAAAA/chat"), nil)
	require.NoError(t, err)
	defer alice.Close()

	bob, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/room/AAAAAA/chat"), nil)
	require.NoError(t, err)
	defer bob.Close()

	err = alice.WriteJSON(chat.Inbound{Type: chat.TypeMessage, Name: "alice", Text: "hello"})
	require.NoError(t, err)

	// both members get the message, sender included, with a server timestamp
	for _, conn := range []*websocket.Conn{alice, bob} {
		event := readEvent(t, conn)
		assert.Equal(t, chat.TypeMessage, event["type"])
		assert.Equal(t, "alice", event["name"])
		assert.Equal(t, "hello", event["text"])
		assert.NotZero(t, event["timestamp_ms"])
	}
}

func TestRoomChatValidationError(t *testing.T) {
	server, _ := newTestServer(t)

	alice, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/room/AAAAAA/chat"), nil)
	require.NoError(t, err)
	defer alice.Close()

	bob, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/room/AAAAAA/chat"), nil)
	require.NoError(t, err)
	defer bob.Close()

	err = alice.WriteJSON(chat.Inbound{Type: chat.TypeMessage, Name: "", Text: "hello"})
	require.NoError(t, err)

	// the error goes back to the sender only
	event := readEvent(t, alice)
	assert.Equal(t, chat.TypeError, event["type"])
	assert.Contains(t, event["message"], "name must be")

	// and the connection stays usable
	err = alice.WriteJSON(chat.Inbound{Type: chat.TypeMessage, Name: "alice", Text: "second try"})
	require.NoError(t, err)
	assert.Equal(t, "second try", readEvent(t, alice)["text"])
	assert.Equal(t, "second try", readEvent(t, bob)["text"])
}

func TestRoomChatUnknownRoom(t *testing.T) {
	server, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "/ws/room/NOPE42/chat"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthStatus(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/auth/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status bool `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Status)
}
