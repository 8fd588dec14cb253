package room

type Room struct {
	Code          string `redis:"code"`
	Host          string `redis:"host"`
	GuestCanPause bool   `redis:"guest_can_pause"`
	VotesToSkip   int    `redis:"votes_to_skip"`
	CurrentSong   string `redis:"current_song"`
	CreatedAt     int64  `redis:"created_at"`
}

type VoteResult struct {
	Skipped bool
	Votes   int
}
