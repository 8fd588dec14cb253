package room

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roomRedis "github.com/jamroom/server/internal/repository/room/redis"
)

func newTestService(t *testing.T) *service {
	t.Helper()

	s := miniredis.RunT(t)
	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	roomRepo := roomRedis.NewRepo(r, time.Hour)

	return NewService(roomRepo, slog.Default())
}

func TestCreateOrUpdateRoom(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:        "host-1",
		GuestCanPause: true,
		VotesToSkip:   3,
	})
	require.NoError(t, err)
	assert.True(t, createResp.Created, "first call must create a room")
	assert.Len(t, createResp.Room.Code, 6, "room code must be 6 characters")
	assert.Equal(t, "host-1", createResp.Room.Host)
	assert.True(t, createResp.Room.GuestCanPause)
	assert.Equal(t, 3, createResp.Room.VotesToSkip)

	// same host again updates settings in place, no second room
	updateResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:        "host-1",
		GuestCanPause: false,
		VotesToSkip:   5,
	})
	require.NoError(t, err)
	assert.False(t, updateResp.Created, "second call must reuse the room")
	assert.Equal(t, createResp.Room.Code, updateResp.Room.Code, "room code must be stable")
	assert.False(t, updateResp.Room.GuestCanPause)
	assert.Equal(t, 5, updateResp.Room.VotesToSkip)

	// a different host gets their own room
	otherResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:      "host-2",
		VotesToSkip: 1,
	})
	require.NoError(t, err)
	assert.True(t, otherResp.Created)
	assert.NotEqual(t, createResp.Room.Code, otherResp.Room.Code)
}

func TestJoinRoom(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:      "host-1",
		VotesToSkip: 2,
	})
	require.NoError(t, err)

	err = service.JoinRoom(ctx, &JoinRoomParams{
		Code:     createResp.Room.Code,
		JoinerId: "guest-1",
	})
	require.NoError(t, err)

	err = service.JoinRoom(ctx, &JoinRoomParams{
		Code:     "NOPE42",
		JoinerId: "guest-1",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRoom(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:        "host-1",
		GuestCanPause: true,
		VotesToSkip:   2,
	})
	require.NoError(t, err)

	hostView, err := service.GetRoom(ctx, &GetRoomParams{
		Code:     createResp.Room.Code,
		CallerId: "host-1",
	})
	require.NoError(t, err)
	assert.True(t, hostView.IsHost)

	guestView, err := service.GetRoom(ctx, &GetRoomParams{
		Code:     createResp.Room.Code,
		CallerId: "guest-1",
	})
	require.NoError(t, err)
	assert.False(t, guestView.IsHost)
	assert.Equal(t, createResp.Room.Code, guestView.Room.Code)

	_, err = service.GetRoom(ctx, &GetRoomParams{
		Code:     "NOPE42",
		CallerId: "guest-1",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateRoomPermissions(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:      "host-1",
		VotesToSkip: 2,
	})
	require.NoError(t, err)

	_, err = service.UpdateRoom(ctx, &UpdateRoomParams{
		Code:        createResp.Room.Code,
		RequesterId: "guest-1",
		VotesToSkip: 1,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied, "guests must not update settings")

	updated, err := service.UpdateRoom(ctx, &UpdateRoomParams{
		Code:          createResp.Room.Code,
		RequesterId:   "host-1",
		GuestCanPause: true,
		VotesToSkip:   4,
	})
	require.NoError(t, err)
	assert.True(t, updated.GuestCanPause)
	assert.Equal(t, 4, updated.VotesToSkip)
}

func TestLeaveRoom(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	createResp, err := service.CreateOrUpdateRoom(ctx, &CreateOrUpdateRoomParams{
		HostId:      "host-1",
		VotesToSkip: 2,
	})
	require.NoError(t, err)
	code := createResp.Room.Code

	err = service.JoinRoom(ctx, &JoinRoomParams{Code: code, JoinerId: "guest-1"})
	require.NoError(t, err)

	// a guest leaving keeps the room alive
	err = service.LeaveRoom(ctx, "guest-1")
	require.NoError(t, err)
	_, err = service.GetRoom(ctx, &GetRoomParams{Code: code, CallerId: "host-1"})
	require.NoError(t, err)

	// leaving without a room association is a no-op
	err = service.LeaveRoom(ctx, "stranger")
	require.NoError(t, err)

	// the host leaving closes the room
	err = service.LeaveRoom(ctx, "host-1")
	require.NoError(t, err)
	_, err = service.GetRoom(ctx, &GetRoomParams{Code: code, CallerId: "guest-1"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
