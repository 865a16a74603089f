package proto

import (
	"errors"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

type ErrorCode string

const (
	CodeNotYourTurn     ErrorCode = "not-your-turn"
	CodeInvalidPiece    ErrorCode = "invalid-piece"
	CodeInvalidPosition ErrorCode = "invalid-position"
	CodeWrongPhase      ErrorCode = "wrong-phase"
	CodeNoQuarto        ErrorCode = "no-quarto"
	CodeGameEnded       ErrorCode = "game-ended"
	CodeRoomFull        ErrorCode = "room-full"
	CodeRoomNotFound    ErrorCode = "room-not-found"
	CodeInvalidMessage  ErrorCode = "invalid-message"
)

var engineCodes = []struct {
	err  error
	code ErrorCode
}{
	{engine.ErrInvalidPiece, CodeInvalidPiece},
	{engine.ErrPieceUnavailable, CodeInvalidPiece},
	{engine.ErrInvalidPosition, CodeInvalidPosition},
	{engine.ErrCellOccupied, CodeInvalidPosition},
	{engine.ErrWrongPhase, CodeWrongPhase},
	{engine.ErrNotPlaying, CodeWrongPhase},
	{engine.ErrNoQuarto, CodeNoQuarto},
	{engine.ErrGameOver, CodeGameEnded},
	{ErrInvalidMessage, CodeInvalidMessage},
}

// CodeFor maps a rules error onto the wire enumeration. Errors it does not
// recognise report as invalid-message.
func CodeFor(err error) ErrorCode {
	for _, c := range engineCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInvalidMessage
}
