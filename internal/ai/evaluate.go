package ai

import (
	"math/bits"

	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/piece"
)

var centers = [4]int{5, 6, 9, 10}

// Evaluate scores b for the side about to act. A board that already holds
// a quarto belongs to that side: +WinScore when maximizing, -WinScore otherwise.
func Evaluate(b engine.Board, pool []int, advanced, maximizing bool) int {
	if engine.HasQuarto(b, advanced) {
		if maximizing {
			return WinScore
		}
		return -WinScore
	}
	h := heuristic(b, pool)
	if !maximizing {
		return -h
	}
	return h
}

// heuristic rewards lines that are building towards a shared attribute.
// Only the ten straight lines are scored; squares count as wins through
// HasQuarto and CompletesWin but earn no partial credit.
func heuristic(b engine.Board, pool []int) int {
	score := 0
	ids := make([]int, 0, 4)
	for _, l := range engine.Lines {
		ids = ids[:0]
		for _, pos := range l.Positions {
			if id, ok := b.At(pos); ok {
				ids = append(ids, id)
			}
		}
		switch len(ids) {
		case 1:
			score += 10
		case 2:
			score += 100 * bits.OnesCount8(piece.SharedMask(ids...))
		case 3:
			mask := piece.SharedMask(ids...)
			if mask == 0 {
				continue
			}
			v := 1000 * bits.OnesCount8(mask)
			if completable(ids, pool) {
				v *= 10
			}
			score += v
		}
	}
	for _, pos := range centers {
		if _, ok := b.At(pos); ok {
			score += 5
		}
	}
	return score
}

func completable(ids, pool []int) bool {
	for _, id := range pool {
		if piece.SharedMask(append(ids[:3:3], id)...) != 0 {
			return true
		}
	}
	return false
}
