package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jamroom/server/internal/hub"
	authservice "github.com/jamroom/server/internal/service/auth"
	"github.com/jamroom/server/internal/service/player"
	"github.com/jamroom/server/internal/service/room"
	"github.com/jamroom/server/pkg/validator"
)

type iRoomService interface {
	CreateOrUpdateRoom(context.Context, *room.CreateOrUpdateRoomParams) (room.CreateOrUpdateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) error
	GetRoom(context.Context, *room.GetRoomParams) (room.GetRoomResponse, error)
	UpdateRoom(context.Context, *room.UpdateRoomParams) (room.Room, error)
	LeaveRoom(ctx context.Context, callerId string) error
}

type iPlayerService interface {
	CurrentSong(context.Context, *player.CurrentSongParams) (player.CurrentSongResponse, error)
	Pause(context.Context, *player.PauseParams) error
	Resume(context.Context, *player.PauseParams) error
	RequestSkip(context.Context, *player.RequestSkipParams) (player.RequestSkipResponse, error)
}

type iAuthService interface {
	AuthURL(state string) string
	HandleCallback(context.Context, *authservice.HandleCallbackParams) error
	IsAuthenticated(ctx context.Context, identity string) (bool, error)
}

type controller struct {
	roomService   iRoomService
	playerService iPlayerService
	authService   iAuthService
	hub           *hub.Hub
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	secret        string
}

func NewController(roomService iRoomService, playerService iPlayerService, authService iAuthService, h *hub.Hub, secret string, logger *slog.Logger) *controller {
	return &controller{
		roomService:   roomService,
		playerService: playerService,
		authService:   authService,
		hub:           h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
		secret:   secret,
	}
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
