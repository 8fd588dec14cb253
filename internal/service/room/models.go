package room

type Room struct {
	Code          string `json:"code"`
	Host          string `json:"host"`
	GuestCanPause bool   `json:"guest_can_pause"`
	VotesToSkip   int    `json:"votes_to_skip"`
	CurrentSong   string `json:"current_song,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}
