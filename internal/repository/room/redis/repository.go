package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc                 *redis.Client
	registerVoteScript string
	expireDuration     time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
		// Adds the voter to the track's vote set and decides the skip in one
		// round trip so concurrent requests cannot both fire or double-count.
		// A duplicate voter leaves the set unchanged (SADD returns 0).
		registerVoteScript: rc.ScriptLoad(context.Background(), `
			redis.call('SADD', KEYS[1], ARGV[1])
			local votes = redis.call('SCARD', KEYS[1])
			if votes >= tonumber(ARGV[2]) then
				redis.call('DEL', KEYS[1])
				return {1, votes}
			end
			redis.call('PEXPIRE', KEYS[1], ARGV[3])
			return {0, votes}
		`).Val(),
	}
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
