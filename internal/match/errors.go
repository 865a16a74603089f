package match

import (
	"errors"

	"github.com/kushgupta-hiver/quarto/internal/proto"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotInRoom     = errors.New("player is not in a room")
	ErrInRoom        = errors.New("player is already in a room")

	ErrMatchmakerClosed = errors.New("matchmaker closed")
)

// ErrorMessage turns any failure from the lobby or a room into the error
// frame sent back to the client.
func ErrorMessage(err error) proto.Error {
	return proto.NewError(codeFor(err), err.Error())
}

func codeFor(err error) proto.ErrorCode {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return proto.CodeNotYourTurn
	case errors.Is(err, ErrRoomFull):
		return proto.CodeRoomFull
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrUnknownPlayer), errors.Is(err, ErrNotInRoom):
		return proto.CodeRoomNotFound
	}
	return proto.CodeFor(err)
}
