package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamroom/server/internal/repository/room"
	"github.com/jamroom/server/internal/service/auth"
	"github.com/jamroom/server/internal/upstream/spotify"
)

type CurrentSongParams struct {
	RoomCode string
}

type CurrentSongResponse struct {
	spotify.Track
	Votes       int `json:"votes"`
	VotesNeeded int `json:"votes_needed"`
}

// CurrentSong polls the host's playback. A track change updates the room's
// current song (last write wins) and prunes the previous track's votes so
// they never count toward the new one.
func (s service) CurrentSong(ctx context.Context, params *CurrentSongParams) (CurrentSongResponse, error) {
	rm, err := s.getRoom(ctx, params.RoomCode)
	if err != nil {
		return CurrentSongResponse{}, err
	}

	accessToken, err := s.tokens.AccessToken(ctx, rm.Host)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return CurrentSongResponse{}, ErrAuthRequired
		}
		return CurrentSongResponse{}, err
	}

	track, err := s.upstream.CurrentlyPlaying(ctx, accessToken)
	if err != nil {
		return CurrentSongResponse{}, s.mapUpstreamErr(err)
	}

	if track.Id != rm.CurrentSong {
		if err := s.roomRepo.UpdateRoomCurrentSong(ctx, rm.Code, track.Id); err != nil {
			return CurrentSongResponse{}, err
		}
		if rm.CurrentSong != "" {
			if err := s.roomRepo.ClearVotes(ctx, rm.Code, rm.CurrentSong); err != nil {
				s.logger.WarnContext(ctx, "failed to prune stale votes", "error", err)
			}
		}
	}

	votes, err := s.roomRepo.CountVotes(ctx, rm.Code, track.Id)
	if err != nil {
		return CurrentSongResponse{}, err
	}

	return CurrentSongResponse{
		Track:       track,
		Votes:       votes,
		VotesNeeded: rm.VotesToSkip,
	}, nil
}

type PauseParams struct {
	RoomCode    string
	RequesterId string
}

func (s service) Pause(ctx context.Context, params *PauseParams) error {
	return s.transportControl(ctx, params.RoomCode, params.RequesterId, s.upstream.Pause)
}

func (s service) Resume(ctx context.Context, params *PauseParams) error {
	return s.transportControl(ctx, params.RoomCode, params.RequesterId, s.upstream.Play)
}

func (s service) transportControl(ctx context.Context, roomCode string, requesterId string, action func(context.Context, string) error) error {
	rm, err := s.getRoom(ctx, roomCode)
	if err != nil {
		return err
	}

	if requesterId != rm.Host && !rm.GuestCanPause {
		return ErrPermissionDenied
	}

	accessToken, err := s.tokens.AccessToken(ctx, rm.Host)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return ErrAuthRequired
		}
		return err
	}

	// fire-and-forget: a provider hiccup must not fail the request
	if err := action(ctx, accessToken); err != nil {
		s.logger.WarnContext(ctx, "transport control failed", "room_code", roomCode, "error", err)
	}

	return nil
}

type RequestSkipParams struct {
	RoomCode    string
	RequesterId string
}

type RequestSkipResponse struct {
	Skipped     bool
	Votes       int
	VotesNeeded int
}

type trackSkippedEvent struct {
	Type   string `json:"type"`
	SongId string `json:"song_id"`
}

// RequestSkip executes the skip immediately for the host; any other caller
// registers a vote, and the vote that reaches the room's threshold fires
// the skip. Voting twice for the same track is absorbed silently.
func (s service) RequestSkip(ctx context.Context, params *RequestSkipParams) (RequestSkipResponse, error) {
	rm, err := s.getRoom(ctx, params.RoomCode)
	if err != nil {
		return RequestSkipResponse{}, err
	}

	if params.RequesterId == rm.Host {
		if err := s.roomRepo.ClearVotes(ctx, rm.Code, rm.CurrentSong); err != nil {
			return RequestSkipResponse{}, err
		}
		s.executeSkip(ctx, rm)

		return RequestSkipResponse{
			Skipped:     true,
			VotesNeeded: rm.VotesToSkip,
		}, nil
	}

	result, err := s.roomRepo.RegisterVote(ctx, &room.RegisterVoteParams{
		RoomCode:    rm.Code,
		SongId:      rm.CurrentSong,
		VoterId:     params.RequesterId,
		VotesNeeded: rm.VotesToSkip,
	})
	if err != nil {
		return RequestSkipResponse{}, err
	}

	if result.Skipped {
		s.executeSkip(ctx, rm)
	}

	return RequestSkipResponse{
		Skipped:     result.Skipped,
		Votes:       result.Votes,
		VotesNeeded: rm.VotesToSkip,
	}, nil
}

func (s service) executeSkip(ctx context.Context, rm room.Room) {
	s.logger.InfoContext(ctx, "skipping track", "room_code", rm.Code, "song_id", rm.CurrentSong)

	accessToken, err := s.tokens.AccessToken(ctx, rm.Host)
	if err != nil {
		s.logger.WarnContext(ctx, "cannot advance track", "room_code", rm.Code, "error", err)
	} else if err := s.upstream.Next(ctx, accessToken); err != nil {
		s.logger.WarnContext(ctx, "failed to advance track", "room_code", rm.Code, "error", err)
	}

	if err := s.broadcaster.Broadcast(ctx, rm.Code, trackSkippedEvent{
		Type:   "track skipped",
		SongId: rm.CurrentSong,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to broadcast skip", "room_code", rm.Code, "error", err)
	}
}

func (s service) mapUpstreamErr(err error) error {
	switch {
	case errors.Is(err, spotify.ErrNoCurrentSong):
		return ErrNoCurrentSong
	case errors.Is(err, spotify.ErrAuthRequired):
		return ErrAuthRequired
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
}
