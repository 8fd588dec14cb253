package room

type SetRoomParams struct {
	Code          string
	Host          string
	GuestCanPause bool
	VotesToSkip   int
	CreatedAt     int64
}

type UpdateRoomSettingsParams struct {
	Code          string
	GuestCanPause bool
	VotesToSkip   int
}

type RegisterVoteParams struct {
	RoomCode    string
	SongId      string
	VoterId     string
	VotesNeeded int
}
