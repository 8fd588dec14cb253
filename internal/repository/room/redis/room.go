package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jamroom/server/internal/repository/room"
)

func (r repo) getRoomKey(code string) string {
	return "room:" + code
}

func (r repo) getHostKey(host string) string {
	return "host:" + host + ":room"
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	roomKey := r.getRoomKey(params.Code)

	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}
	if res > 0 {
		return room.ErrRoomAlreadyExists
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, roomKey, room.Room{
		Code:          params.Code,
		Host:          params.Host,
		GuestCanPause: params.GuestCanPause,
		VotesToSkip:   params.VotesToSkip,
		CreatedAt:     params.CreatedAt,
	})
	pipe.Expire(ctx, roomKey, r.expireDuration)

	hostKey := r.getHostKey(params.Host)
	pipe.Set(ctx, hostKey, params.Code, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, code string) (room.Room, error) {
	roomKey := r.getRoomKey(code)

	cmd := r.rc.HGetAll(ctx, roomKey)
	if err := cmd.Err(); err != nil {
		return room.Room{}, fmt.Errorf("failed to get room: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return room.Room{}, room.ErrRoomNotFound
	}

	var rm room.Room
	if err := cmd.Scan(&rm); err != nil {
		return room.Room{}, fmt.Errorf("failed to scan room: %w", err)
	}

	// the host index expires together with the room it points at
	r.rc.Expire(ctx, roomKey, r.expireDuration)
	r.rc.Expire(ctx, r.getHostKey(rm.Host), r.expireDuration)

	return rm, nil
}

func (r repo) GetRoomCodeByHost(ctx context.Context, host string) (string, error) {
	code, err := r.rc.Get(ctx, r.getHostKey(host)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", room.ErrRoomNotFound
		}
		return "", fmt.Errorf("failed to get room code by host: %w", err)
	}

	return code, nil
}

func (r repo) UpdateRoomSettings(ctx context.Context, params *room.UpdateRoomSettingsParams) error {
	roomKey := r.getRoomKey(params.Code)

	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}
	if res == 0 {
		return room.ErrRoomNotFound
	}

	if err := r.rc.HSet(ctx, roomKey,
		"guest_can_pause", params.GuestCanPause,
		"votes_to_skip", params.VotesToSkip,
	).Err(); err != nil {
		return fmt.Errorf("failed to update room settings: %w", err)
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)
	if host, err := r.rc.HGet(ctx, roomKey, "host").Result(); err == nil {
		r.rc.Expire(ctx, r.getHostKey(host), r.expireDuration)
	}

	return nil
}

func (r repo) UpdateRoomCurrentSong(ctx context.Context, code string, songId string) error {
	roomKey := r.getRoomKey(code)

	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}
	if res == 0 {
		return room.ErrRoomNotFound
	}

	if err := r.rc.HSet(ctx, roomKey, "current_song", songId).Err(); err != nil {
		return fmt.Errorf("failed to update current song: %w", err)
	}

	return nil
}

func (r repo) RemoveRoom(ctx context.Context, code string, host string) error {
	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, r.getRoomKey(code))
	pipe.Del(ctx, r.getHostKey(host))

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to remove room: %w", err)
	}

	// vote sets for the room are keyed by song, collect them separately
	iter := r.rc.Scan(ctx, 0, r.getVotesKey(code, "*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := r.rc.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to remove votes: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan votes: %w", err)
	}

	return nil
}
