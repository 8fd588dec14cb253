package redis

import (
	"context"
	"fmt"

	"github.com/jamroom/server/internal/repository/room"
)

func (r repo) getVotesKey(code string, songId string) string {
	return "room:" + code + ":votes:" + songId
}

func (r repo) RegisterVote(ctx context.Context, params *room.RegisterVoteParams) (room.VoteResult, error) {
	votesKey := r.getVotesKey(params.RoomCode, params.SongId)

	res, err := r.rc.EvalSha(ctx, r.registerVoteScript,
		[]string{votesKey},
		params.VoterId,
		params.VotesNeeded,
		r.expireDuration.Milliseconds(),
	).Result()
	if err != nil {
		return room.VoteResult{}, fmt.Errorf("failed to register vote: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return room.VoteResult{}, fmt.Errorf("unexpected register vote reply: %v", res)
	}

	skipped, _ := vals[0].(int64)
	votes, _ := vals[1].(int64)

	return room.VoteResult{
		Skipped: skipped == 1,
		Votes:   int(votes),
	}, nil
}

func (r repo) CountVotes(ctx context.Context, code string, songId string) (int, error) {
	votes, err := r.rc.SCard(ctx, r.getVotesKey(code, songId)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}

	return int(votes), nil
}

func (r repo) ClearVotes(ctx context.Context, code string, songId string) error {
	if err := r.rc.Del(ctx, r.getVotesKey(code, songId)).Err(); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}

	return nil
}
