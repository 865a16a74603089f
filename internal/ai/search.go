package ai

import (
	"sort"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

type searcher struct {
	advanced bool
}

// placeRoot picks the cell for held; pool excludes held.
func (s *searcher) placeRoot(b engine.Board, pool []int, held, depth int) Move {
	best := Move{Kind: KindPlace, Position: engine.Empty, Score: -infinity}
	alpha, beta := -infinity, infinity
	for _, pos := range b.EmptyPositions() {
		next := b.With(pos, held)
		var score int
		if next.IsFull() {
			score = 0
		} else {
			score = s.minimax(next, pool, engine.PhaseSelecting, engine.Empty, depth-1, alpha, beta, true)
		}
		if score > best.Score {
			best.Position, best.Score = pos, score
		}
		alpha = max(alpha, score)
	}
	return best
}

// selectRoot picks the piece to hand over. Pieces that let the opponent win
// at once score -WinScore and are tried last, so a safe piece wins ties.
func (s *searcher) selectRoot(b engine.Board, pool []int, depth int) Move {
	ordered := append([]int(nil), pool...)
	losing := make(map[int]bool, len(ordered))
	for _, id := range ordered {
		losing[id] = givesWin(b, id, s.advanced)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return !losing[ordered[i]] && losing[ordered[j]] })

	best := Move{Kind: KindSelect, PieceID: engine.Empty, Score: -infinity}
	alpha, beta := -infinity, infinity
	for _, id := range ordered {
		var score int
		if losing[id] {
			score = -WinScore
		} else {
			score = s.minimax(b, without(pool, id), engine.PhasePlacing, id, depth-1, alpha, beta, false)
		}
		if score > best.Score {
			best.PieceID, best.Score = id, score
		}
		alpha = max(alpha, score)
	}
	return best
}

// minimax scores a node from the engine's point of view. maximizing says
// whether the engine is the side acting at this node. The side flips at
// selecting nodes and carries over from a placing node to the select that
// follows it.
func (s *searcher) minimax(b engine.Board, pool []int, phase engine.Phase, held, depth, alpha, beta int, maximizing bool) int {
	if depth <= 0 || (phase == engine.PhaseSelecting && len(pool) <= 1) {
		return Evaluate(b, pool, s.advanced, maximizing)
	}

	best := infinity
	if maximizing {
		best = -infinity
	}
	better := func(score int) {
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
	}

	if phase == engine.PhasePlacing {
		for _, pos := range b.EmptyPositions() {
			var score int
			next := b.With(pos, held)
			switch {
			case engine.CompletesWin(b, pos, held, s.advanced):
				score = signed(WinScore, maximizing)
			case next.IsFull():
				score = 0
			default:
				score = s.minimax(next, pool, engine.PhaseSelecting, engine.Empty, depth-1, alpha, beta, maximizing)
			}
			better(score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	for _, id := range pool {
		var score int
		if givesWin(b, id, s.advanced) {
			// the receiver wins on their placement
			score = signed(-WinScore, maximizing)
		} else {
			score = s.minimax(b, without(pool, id), engine.PhasePlacing, id, depth-1, alpha, beta, !maximizing)
		}
		better(score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// givesWin reports whether id can be placed somewhere to complete a line.
func givesWin(b engine.Board, id int, advanced bool) bool {
	for _, pos := range b.EmptyPositions() {
		if engine.CompletesWin(b, pos, id, advanced) {
			return true
		}
	}
	return false
}

func signed(v int, maximizing bool) int {
	if maximizing {
		return v
	}
	return -v
}
