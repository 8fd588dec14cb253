package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jamroom/server/internal/repository/room"
)

type CreateOrUpdateRoomParams struct {
	HostId        string
	GuestCanPause bool
	VotesToSkip   int
}

type CreateOrUpdateRoomResponse struct {
	Room    Room
	Created bool
}

// CreateOrUpdateRoom keeps the one-host-one-room rule: a host that already
// owns a room gets its settings updated in place instead of a second room.
func (s service) CreateOrUpdateRoom(ctx context.Context, params *CreateOrUpdateRoomParams) (CreateOrUpdateRoomResponse, error) {
	existingCode, err := s.roomRepo.GetRoomCodeByHost(ctx, params.HostId)
	switch {
	case err == nil:
		updateErr := s.roomRepo.UpdateRoomSettings(ctx, &room.UpdateRoomSettingsParams{
			Code:          existingCode,
			GuestCanPause: params.GuestCanPause,
			VotesToSkip:   params.VotesToSkip,
		})
		if updateErr == nil {
			rm, err := s.roomRepo.GetRoom(ctx, existingCode)
			if err != nil {
				return CreateOrUpdateRoomResponse{}, err
			}

			return CreateOrUpdateRoomResponse{Room: s.toRoom(rm)}, nil
		}
		if !errors.Is(updateErr, room.ErrRoomNotFound) {
			return CreateOrUpdateRoomResponse{}, updateErr
		}
		// the indexed room expired, create a fresh one
	case !errors.Is(err, room.ErrRoomNotFound):
		return CreateOrUpdateRoomResponse{}, err
	}

	var code string
	for attempt := 0; ; attempt++ {
		code = s.generator.GenerateRandomString(codeLength)
		err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
			Code:          code,
			Host:          params.HostId,
			GuestCanPause: params.GuestCanPause,
			VotesToSkip:   params.VotesToSkip,
			CreatedAt:     time.Now().Unix(),
		})
		if err == nil {
			break
		}
		if !errors.Is(err, room.ErrRoomAlreadyExists) || attempt >= 5 {
			return CreateOrUpdateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
		}
	}

	if err := s.roomRepo.SetSessionRoom(ctx, params.HostId, code); err != nil {
		return CreateOrUpdateRoomResponse{}, err
	}

	rm, err := s.roomRepo.GetRoom(ctx, code)
	if err != nil {
		return CreateOrUpdateRoomResponse{}, err
	}

	s.logger.InfoContext(ctx, "room created", "room_code", code, "host", params.HostId)

	return CreateOrUpdateRoomResponse{
		Room:    s.toRoom(rm),
		Created: true,
	}, nil
}

type JoinRoomParams struct {
	Code     string
	JoinerId string
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) error {
	if _, err := s.roomRepo.GetRoom(ctx, params.Code); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	return s.roomRepo.SetSessionRoom(ctx, params.JoinerId, params.Code)
}

type GetRoomParams struct {
	Code     string
	CallerId string
}

type GetRoomResponse struct {
	Room   Room
	IsHost bool
}

func (s service) GetRoom(ctx context.Context, params *GetRoomParams) (GetRoomResponse, error) {
	rm, err := s.roomRepo.GetRoom(ctx, params.Code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return GetRoomResponse{}, ErrRoomNotFound
		}
		return GetRoomResponse{}, err
	}

	return GetRoomResponse{
		Room:   s.toRoom(rm),
		IsHost: rm.Host == params.CallerId,
	}, nil
}

type UpdateRoomParams struct {
	Code          string
	RequesterId   string
	GuestCanPause bool
	VotesToSkip   int
}

func (s service) UpdateRoom(ctx context.Context, params *UpdateRoomParams) (Room, error) {
	rm, err := s.roomRepo.GetRoom(ctx, params.Code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, err
	}

	if rm.Host != params.RequesterId {
		return Room{}, ErrPermissionDenied
	}

	if err := s.roomRepo.UpdateRoomSettings(ctx, &room.UpdateRoomSettingsParams{
		Code:          params.Code,
		GuestCanPause: params.GuestCanPause,
		VotesToSkip:   params.VotesToSkip,
	}); err != nil {
		return Room{}, err
	}

	rm.GuestCanPause = params.GuestCanPause
	rm.VotesToSkip = params.VotesToSkip

	return s.toRoom(rm), nil
}

// LeaveRoom clears the caller's room association. A host leaving takes the
// room and its votes down with them.
func (s service) LeaveRoom(ctx context.Context, callerId string) error {
	code, err := s.roomRepo.GetSessionRoom(ctx, callerId)
	if err != nil {
		if errors.Is(err, room.ErrNoSessionRoom) {
			return nil
		}
		return err
	}

	if err := s.roomRepo.RemoveSessionRoom(ctx, callerId); err != nil {
		return err
	}

	rm, err := s.roomRepo.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if rm.Host == callerId {
		s.logger.InfoContext(ctx, "host left, closing room", "room_code", code)
		return s.roomRepo.RemoveRoom(ctx, code, rm.Host)
	}

	return nil
}

func (s service) toRoom(rm room.Room) Room {
	return Room{
		Code:          rm.Code,
		Host:          rm.Host,
		GuestCanPause: rm.GuestCanPause,
		VotesToSkip:   rm.VotesToSkip,
		CurrentSong:   rm.CurrentSong,
		CreatedAt:     rm.CreatedAt,
	}
}
