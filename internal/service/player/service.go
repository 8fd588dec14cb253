// Package player coordinates playback state, pause/resume permissions and
// the vote-to-skip flow for a room.
package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jamroom/server/internal/repository/room"
	"github.com/jamroom/server/internal/upstream/spotify"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAuthRequired     = errors.New("authentication required")
	ErrNoCurrentSong    = errors.New("no song currently playing")
	ErrUpstreamFailed   = errors.New("upstream unavailable")
)

type iRoomRepo interface {
	GetRoom(context.Context, string) (room.Room, error)
	UpdateRoomCurrentSong(ctx context.Context, code string, songId string) error
	RegisterVote(context.Context, *room.RegisterVoteParams) (room.VoteResult, error)
	CountVotes(ctx context.Context, code string, songId string) (int, error)
	ClearVotes(ctx context.Context, code string, songId string) error
}

type iTokenSource interface {
	AccessToken(ctx context.Context, identity string) (string, error)
}

type iUpstream interface {
	CurrentlyPlaying(ctx context.Context, accessToken string) (spotify.Track, error)
	Pause(ctx context.Context, accessToken string) error
	Play(ctx context.Context, accessToken string) error
	Next(ctx context.Context, accessToken string) error
}

type iBroadcaster interface {
	Broadcast(ctx context.Context, roomCode string, v any) error
}

type service struct {
	roomRepo    iRoomRepo
	tokens      iTokenSource
	upstream    iUpstream
	broadcaster iBroadcaster
	logger      *slog.Logger
}

func NewService(roomRepo iRoomRepo, tokens iTokenSource, upstream iUpstream, broadcaster iBroadcaster, logger *slog.Logger) *service {
	return &service{
		roomRepo:    roomRepo,
		tokens:      tokens,
		upstream:    upstream,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s service) getRoom(ctx context.Context, code string) (room.Room, error) {
	rm, err := s.roomRepo.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return room.Room{}, ErrRoomNotFound
		}
		return room.Room{}, err
	}

	return rm, nil
}
