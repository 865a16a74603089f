package engine

import (
	"time"

	"github.com/kushgupta-hiver/quarto/internal/piece"
)

// Snapshot is the serializable view of a Game handed to UI and transport layers.
type Snapshot struct {
	ID              string    `json:"id"`
	Mode            Mode      `json:"mode"`
	Status          Status    `json:"status"`
	Players         [2]Player `json:"players"`
	Board           Board     `json:"board"`
	AvailablePieces []int     `json:"availablePieces"`
	CurrentTurn     int       `json:"currentTurn"`
	Phase           Phase     `json:"phase"`
	SelectedPiece   *int      `json:"selectedPiece"`
	Winner          Winner    `json:"winner"`
	WinningLine     []int     `json:"winningLine"`
	AdvancedRules   bool      `json:"advancedRules"`
	WinCheck        WinCheck  `json:"winCheck"`
	MoveHistory     []Move    `json:"moveHistory"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:              g.id,
		Mode:            g.mode,
		Status:          g.status,
		Players:         g.players,
		Board:           g.board,
		AvailablePieces: g.Available(),
		CurrentTurn:     g.turn,
		Phase:           g.phase,
		Winner:          g.winner,
		AdvancedRules:   g.advanced,
		WinCheck:        g.winCheck,
		MoveHistory:     append([]Move(nil), g.history...),
		CreatedAt:       g.created,
		UpdatedAt:       g.updated,
	}
	if g.selected != Empty {
		s.SelectedPiece = intPtr(g.selected)
	}
	if g.line != nil {
		s.WinningLine = append([]int(nil), g.line.Positions[:]...)
	}
	return s
}

func (s Snapshot) CurrentPlayer() Player { return s.Players[s.CurrentTurn] }

func (s Snapshot) Pieces() []piece.Piece {
	out := make([]piece.Piece, 0, len(s.AvailablePieces))
	for _, id := range s.AvailablePieces {
		if p, ok := piece.ByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s Snapshot) WinningLines() []Win { return FindAllWinningLines(s.Board, s.AdvancedRules) }

func (s Snapshot) IsFinished() bool { return s.Status == StatusFinished }

func (s Snapshot) IsDraw() bool { return s.IsFinished() && s.Winner == WinnerDraw }
