package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeAI     Mode = "ai"
	ModeOnline Mode = "online"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhasePlacing   Phase = "placing"
)

type PlayerType string

const (
	PlayerHumanLocal  PlayerType = "human-local"
	PlayerHumanRemote PlayerType = "human-remote"
	PlayerAI          PlayerType = "ai"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func ParseDifficulty(raw string) (Difficulty, error) {
	switch d := Difficulty(raw); d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Medium, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", raw)
}

// WinCheck selects how wins are awarded.
type WinCheck string

const (
	// WinCheckAuto ends the game as soon as a placement completes a line.
	WinCheckAuto WinCheck = "auto"
	// WinCheckClaim only awards a win through an explicit CallQuarto.
	WinCheckClaim WinCheck = "claim"
)

func ParseWinCheck(raw string) (WinCheck, error) {
	switch w := WinCheck(raw); w {
	case WinCheckAuto, WinCheckClaim:
		return w, nil
	case "":
		return WinCheckAuto, nil
	}
	return "", fmt.Errorf("unknown win check %q", raw)
}

type Player struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       PlayerType `json:"type"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

type MoveType string

const (
	MoveSelect MoveType = "select"
	MovePlace  MoveType = "place"
	MoveQuarto MoveType = "quarto"
)

// Move is one entry of the append-only history.
type Move struct {
	Type      MoveType  `json:"type"`
	Player    int       `json:"player"`
	PieceID   *int      `json:"pieceId,omitempty"`
	Position  *int      `json:"position,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Winner is a player index, WinnerDraw, or WinnerNone.
type Winner int

const (
	WinnerNone Winner = -1
	WinnerDraw Winner = -2
)

func (w Winner) IsPlayer() bool { return w == 0 || w == 1 }

func (w Winner) String() string {
	switch w {
	case WinnerNone:
		return "none"
	case WinnerDraw:
		return "draw"
	}
	return fmt.Sprintf("player%d", int(w))
}

func (w Winner) MarshalJSON() ([]byte, error) {
	switch w {
	case WinnerNone:
		return []byte("null"), nil
	case WinnerDraw:
		return []byte(`"draw"`), nil
	}
	return json.Marshal(int(w))
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*w = WinnerNone
		return nil
	case `"draw"`:
		*w = WinnerDraw
		return nil
	}
	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("winner: %w", err)
	}
	if idx != 0 && idx != 1 {
		return fmt.Errorf("winner: %w", ErrInvalidPlayer)
	}
	*w = Winner(idx)
	return nil
}
