package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jamroom/server/internal/repository/room"
	"github.com/jamroom/server/pkg/randstr"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPermissionDenied = errors.New("permission denied")
)

const codeLength = 6

type iRoomRepo interface {
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoom(context.Context, string) (room.Room, error)
	GetRoomCodeByHost(context.Context, string) (string, error)
	UpdateRoomSettings(context.Context, *room.UpdateRoomSettingsParams) error
	RemoveRoom(ctx context.Context, code string, host string) error
	SetSessionRoom(ctx context.Context, sessionId string, code string) error
	GetSessionRoom(ctx context.Context, sessionId string) (string, error)
	RemoveSessionRoom(ctx context.Context, sessionId string) error
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type service struct {
	roomRepo  iRoomRepo
	generator iGenerator
	logger    *slog.Logger
}

func NewService(roomRepo iRoomRepo, logger *slog.Logger) *service {
	letterBytes := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

	return &service{
		roomRepo:  roomRepo,
		generator: randstr.New(letterBytes),
		logger:    logger,
	}
}
