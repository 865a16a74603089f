package engine

import "errors"

var (
	ErrNotPlaying       = errors.New("game not started")
	ErrGameOver         = errors.New("game already finished")
	ErrWrongPhase       = errors.New("wrong phase")
	ErrInvalidPiece     = errors.New("invalid piece")
	ErrPieceUnavailable = errors.New("piece not available")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrCellOccupied     = errors.New("cell already taken")
	ErrNoQuarto         = errors.New("no quarto on board")
	ErrInvalidPlayer    = errors.New("invalid player index")
	ErrDuplicatePiece   = errors.New("piece placed twice")
)
