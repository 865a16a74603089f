// Package ai picks Quarto moves with a depth-limited alpha-beta search over
// the select/place turn structure.
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/piece"
)

const (
	// WinScore is the value of a won position; a lost one scores -WinScore.
	WinScore = 100000
	infinity = 1 << 30
)

var (
	ErrNoPieces        = errors.New("ai: no pieces to select")
	ErrNoPositions     = errors.New("ai: no empty positions")
	ErrNoSelectedPiece = errors.New("ai: no piece to place")
	ErrUnknownPhase    = errors.New("ai: unknown phase")
	ErrInconsistent    = errors.New("ai: pieces do not match the board")
	ErrTimeout         = errors.New("ai: timed out")
)

var depths = map[engine.Difficulty]int{
	engine.Easy:   2,
	engine.Medium: 4,
	engine.Hard:   6,
}

// blend is the chance of replacing the searched move with a random legal one.
var blend = map[engine.Difficulty]float64{
	engine.Easy:   0.6,
	engine.Medium: 0.2,
	engine.Hard:   0,
}

func Depth(d engine.Difficulty) int {
	if n, ok := depths[d]; ok {
		return n
	}
	return depths[engine.Medium]
}

type Kind string

const (
	KindSelect Kind = "select"
	KindPlace  Kind = "place"
)

// Move is either a piece to hand over or a cell to place the held piece on.
type Move struct {
	Kind     Kind
	PieceID  int
	Position int
	Score    int
}

func (m Move) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": m.Kind, "score": m.Score}
	if m.Kind == KindSelect {
		out["pieceId"] = m.PieceID
	} else {
		out["position"] = m.Position
	}
	return json.Marshal(out)
}

// Request is an immutable snapshot of everything the engine needs.
type Request struct {
	Board         engine.Board
	Available     []int
	Selected      int
	Phase         engine.Phase
	Difficulty    engine.Difficulty
	AdvancedRules bool
	// Rand drives the difficulty blend; nil uses the global source.
	Rand *rand.Rand
}

// RequestFor builds a request from a game snapshot.
func RequestFor(s engine.Snapshot, d engine.Difficulty) Request {
	sel := engine.Empty
	if s.SelectedPiece != nil {
		sel = *s.SelectedPiece
	}
	return Request{
		Board:         s.Board,
		Available:     append([]int(nil), s.AvailablePieces...),
		Selected:      sel,
		Phase:         s.Phase,
		Difficulty:    d,
		AdvancedRules: s.AdvancedRules,
	}
}

// Decide returns the move for the side to act. It never mutates req.
func Decide(req Request) (Move, error) {
	if err := req.Board.Check(); err != nil {
		return Move{}, fmt.Errorf("%w: %w", ErrInconsistent, err)
	}
	switch req.Phase {
	case engine.PhasePlacing:
		return decidePlace(req)
	case engine.PhaseSelecting:
		return decideSelect(req)
	}
	return Move{}, ErrUnknownPhase
}

func decidePlace(req Request) (Move, error) {
	if !piece.Valid(req.Selected) {
		return Move{}, ErrNoSelectedPiece
	}
	empties := req.Board.EmptyPositions()
	if len(empties) == 0 {
		return Move{}, ErrNoPositions
	}
	if req.Board.Holds(req.Selected) {
		return Move{}, fmt.Errorf("%w: piece %d is already placed", ErrInconsistent, req.Selected)
	}
	avail := piecePool(req.Board, req.Available)
	if !slices.Contains(avail, req.Selected) {
		return Move{}, fmt.Errorf("%w: piece %d is not available", ErrInconsistent, req.Selected)
	}
	for _, pos := range empties {
		if engine.CompletesWin(req.Board, pos, req.Selected, req.AdvancedRules) {
			return Move{Kind: KindPlace, Position: pos, Score: WinScore}, nil
		}
	}
	if randomize(req) {
		return Move{Kind: KindPlace, Position: empties[intN(req.Rand, len(empties))]}, nil
	}
	s := searcher{advanced: req.AdvancedRules}
	pool := without(avail, req.Selected)
	return s.placeRoot(req.Board, pool, req.Selected, Depth(req.Difficulty)), nil
}

func decideSelect(req Request) (Move, error) {
	pool := piecePool(req.Board, req.Available)
	if len(pool) == 0 {
		return Move{}, ErrNoPieces
	}
	if randomize(req) {
		return Move{Kind: KindSelect, PieceID: pool[intN(req.Rand, len(pool))]}, nil
	}
	s := searcher{advanced: req.AdvancedRules}
	return s.selectRoot(req.Board, pool, Depth(req.Difficulty)), nil
}

// piecePool keeps the distinct valid ids of avail that are not on b, in
// their original order.
func piecePool(b engine.Board, avail []int) []int {
	var seen [piece.Count]bool
	for _, c := range b {
		if c != engine.Empty {
			seen[c] = true
		}
	}
	out := make([]int, 0, piece.Count)
	for _, id := range avail {
		if !piece.Valid(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func randomize(req Request) bool {
	p := blend[req.Difficulty]
	if p <= 0 {
		return false
	}
	if req.Rand != nil {
		return req.Rand.Float64() < p
	}
	return rand.Float64() < p
}

func intN(r *rand.Rand, n int) int {
	if r != nil {
		return r.IntN(n)
	}
	return rand.IntN(n)
}

func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
