package ai

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

func board(cells ...int) engine.Board {
	b := engine.NewBoard()
	copy(b[:], cells)
	return b
}

func remaining(b engine.Board) []int {
	used := map[int]bool{}
	for _, c := range b {
		used[c] = true
	}
	var out []int
	for id := 0; id < 16; id++ {
		if !used[id] {
			out = append(out, id)
		}
	}
	return out
}

// late game: only 13 can be handed over without an immediate loss
var lateBoard = board(7, 9, 8, 2, 5, 14, 15, 1, 0, 6, 3, 12, engine.Empty, engine.Empty, engine.Empty, engine.Empty)

func TestDecide_PlaceTakesImmediateWin(t *testing.T) {
	b := board(0, 2, 4)
	for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard} {
		t.Run(string(d), func(t *testing.T) {
			m, err := Decide(Request{
				Board:      b,
				Available:  remaining(b),
				Selected:   6,
				Phase:      engine.PhasePlacing,
				Difficulty: d,
			})
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			if m.Kind != KindPlace || m.Position != 3 || m.Score != WinScore {
				t.Fatalf("got %+v, want place 3 score %d", m, WinScore)
			}
		})
	}
}

func TestDecide_SelectAvoidsGivingWin(t *testing.T) {
	m, err := Decide(Request{
		Board:      lateBoard,
		Available:  []int{13, 10, 11, 4},
		Selected:   engine.Empty,
		Phase:      engine.PhaseSelecting,
		Difficulty: engine.Hard,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if m.Kind != KindSelect || m.PieceID != 13 {
		t.Fatalf("expected to hand over 13, got %+v", m)
	}
}

func TestDecide_AllPiecesLose(t *testing.T) {
	m, err := Decide(Request{
		Board:      lateBoard,
		Available:  []int{10, 11, 4},
		Selected:   engine.Empty,
		Phase:      engine.PhaseSelecting,
		Difficulty: engine.Hard,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if m.Score != -WinScore {
		t.Fatalf("expected -%d when every piece loses, got %+v", WinScore, m)
	}
}

func TestDecide_ContractViolations(t *testing.T) {
	full := board(0, 15, 6, 9, 5, 10, 3, 12, 11, 4, 13, 2, 8, 7, 14, 1)
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"no pieces", Request{Board: engine.NewBoard(), Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Hard}, ErrNoPieces},
		{"no positions", Request{Board: full, Selected: 3, Phase: engine.PhasePlacing, Difficulty: engine.Hard}, ErrNoPositions},
		{"nothing held", Request{Board: engine.NewBoard(), Available: []int{1}, Selected: engine.Empty, Phase: engine.PhasePlacing}, ErrNoSelectedPiece},
		{"bad phase", Request{Board: engine.NewBoard(), Phase: "thinking"}, ErrUnknownPhase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decide(tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecide_AlwaysLegal(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := board(0, 15, 6, engine.Empty, 5, engine.Empty, 3, 12, engine.Empty, 4, engine.Empty, 2)
	avail := remaining(b)
	for i := 0; i < 200; i++ {
		sel, err := Decide(Request{Board: b, Available: avail, Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Easy, Rand: rng})
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if !slices.Contains(avail, sel.PieceID) {
			t.Fatalf("selected unavailable piece %d", sel.PieceID)
		}
		pl, err := Decide(Request{Board: b, Available: avail, Selected: sel.PieceID, Phase: engine.PhasePlacing, Difficulty: engine.Easy, Rand: rng})
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if _, taken := b.At(pl.Position); taken || !engine.ValidPosition(pl.Position) {
			t.Fatalf("placed on illegal cell %d", pl.Position)
		}
	}
}

func TestDecide_EasyBlendsRandomMoves(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	b := engine.NewBoard()
	seen := map[int]bool{}
	for i := 0; i < 60; i++ {
		m, err := Decide(Request{Board: b, Available: remaining(b), Selected: 0, Phase: engine.PhasePlacing, Difficulty: engine.Easy, Rand: rng})
		if err != nil {
			t.Fatalf("decide: %v", err)
		}
		seen[m.Position] = true
	}
	if len(seen) < 3 {
		t.Fatalf("expected easy play to vary, saw positions %v", seen)
	}
}

func TestDecide_DoesNotMutateInput(t *testing.T) {
	b := lateBoard
	avail := []int{13, 10, 11, 4}
	req := Request{Board: b, Available: avail, Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Hard}
	if _, err := Decide(req); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if req.Board != lateBoard || !slices.Equal(avail, []int{13, 10, 11, 4}) {
		t.Fatalf("input mutated")
	}
}

func TestSearch_ShallowSelectPrefersSafePiece(t *testing.T) {
	// row 0 holds 0,2,4: light and short pieces all complete it
	b := board(0, 2, 4)
	s := searcher{}
	m := s.selectRoot(b, remaining(b), 2)
	switch m.PieceID {
	case 9, 11, 13, 15:
	default:
		t.Fatalf("expected a dark tall piece, got %+v", m)
	}
}

func TestSearch_PlaceRootOnEmptyBoard(t *testing.T) {
	s := searcher{}
	m := s.placeRoot(engine.NewBoard(), remaining(board(0)), 0, 2)
	if !engine.ValidPosition(m.Position) {
		t.Fatalf("expected a position, got %+v", m)
	}
}

func TestEvaluate(t *testing.T) {
	won := board(0, 2, 4, 6)
	if got := Evaluate(won, nil, false, true); got != WinScore {
		t.Fatalf("won board for maximizer = %d", got)
	}
	if got := Evaluate(won, nil, false, false); got != -WinScore {
		t.Fatalf("won board for minimizer = %d", got)
	}

	center := engine.NewBoard().With(5, 0)
	corner := engine.NewBoard().With(0, 0)
	// a lone piece touches row, column and one diagonal: 3 lines * 10
	if got := Evaluate(corner, nil, false, true); got != 30 {
		t.Fatalf("corner score = %d, want 30", got)
	}
	if got := Evaluate(center, nil, false, true); got != 35 {
		t.Fatalf("center score = %d, want 35", got)
	}
	if got := Evaluate(center, nil, false, false); got != -35 {
		t.Fatalf("minimizer sees negated score, got %d", got)
	}

	three := board(0, 2, 4)
	// shares color and height: 2*1000, times 10 with 6 still in the pool
	base := Evaluate(three, nil, false, true)
	boosted := Evaluate(three, []int{6}, false, true)
	if boosted-base != 18000 {
		t.Fatalf("completable bonus = %d, want 18000", boosted-base)
	}
}

func TestDepth(t *testing.T) {
	if Depth(engine.Easy) != 2 || Depth(engine.Medium) != 4 || Depth(engine.Hard) != 6 {
		t.Fatalf("unexpected depth table")
	}
	if Depth("unknown") != 4 {
		t.Fatalf("unknown difficulty should fall back to medium")
	}
}

func TestDecide_RejectsInconsistentPieces(t *testing.T) {
	twice := board(0, 5, engine.Empty, 5)
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"held piece already placed", Request{Board: board(0), Available: []int{0, 1}, Selected: 0, Phase: engine.PhasePlacing, Difficulty: engine.Hard}, ErrInconsistent},
		{"held piece not available", Request{Board: board(0), Available: []int{1, 2}, Selected: 3, Phase: engine.PhasePlacing, Difficulty: engine.Hard}, ErrInconsistent},
		{"board repeats a piece", Request{Board: twice, Available: []int{1}, Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Hard}, ErrInconsistent},
		{"only placed pieces offered", Request{Board: board(0), Available: []int{0}, Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Hard}, ErrNoPieces},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decide(tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %+v, %v; want %v", m, err, tt.want)
			}
		})
	}
}

func TestDecide_SelectSkipsPlacedAndRepeatedIds(t *testing.T) {
	var avail []int
	for i := 0; i < 25; i++ {
		avail = append(avail, 0, 2, 4, 99, -1)
	}
	avail = append(avail, 13, 13, 10, 11, 4)
	m, err := Decide(Request{Board: lateBoard, Available: avail, Selected: engine.Empty, Phase: engine.PhaseSelecting, Difficulty: engine.Hard})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if m.PieceID != 13 {
		t.Fatalf("expected 13 from the deduplicated pool, got %+v", m)
	}
	if got := piecePool(lateBoard, avail); !slices.Equal(got, []int{4, 13, 10, 11}) {
		t.Fatalf("pool = %v", got)
	}
}

func TestHeuristic_IgnoresSquares(t *testing.T) {
	// 0 and 1 share a 2x2 block but no straight line with 5
	b := board(0, 1, engine.Empty, engine.Empty, 5)
	if Evaluate(b, nil, true, true) != Evaluate(b, nil, false, true) {
		t.Fatalf("advanced rules changed the heuristic on a board without a quarto")
	}
}

// exhaustive is minimax without pruning, following the same node rules as
// searcher.minimax.
func exhaustive(s *searcher, b engine.Board, pool []int, phase engine.Phase, held, depth int, maximizing bool) int {
	if depth <= 0 || (phase == engine.PhaseSelecting && len(pool) <= 1) {
		return Evaluate(b, pool, s.advanced, maximizing)
	}
	best := infinity
	if maximizing {
		best = -infinity
	}
	pick := func(v int) {
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	if phase == engine.PhasePlacing {
		for _, pos := range b.EmptyPositions() {
			next := b.With(pos, held)
			switch {
			case engine.CompletesWin(b, pos, held, s.advanced):
				pick(signed(WinScore, maximizing))
			case next.IsFull():
				pick(0)
			default:
				pick(exhaustive(s, next, pool, engine.PhaseSelecting, engine.Empty, depth-1, maximizing))
			}
		}
		return best
	}
	for _, id := range pool {
		if givesWin(b, id, s.advanced) {
			pick(signed(-WinScore, maximizing))
			continue
		}
		pick(exhaustive(s, b, without(pool, id), engine.PhasePlacing, id, depth-1, !maximizing))
	}
	return best
}

// midgame places n random pieces without completing a line and returns the
// board, the piece to hold next and the rest of the pool.
func midgame(rng *rand.Rand, n int, advanced bool) (engine.Board, int, []int) {
	for {
		ids, cells := rng.Perm(16), rng.Perm(16)
		b := engine.NewBoard()
		for i := 0; i < n; i++ {
			b[cells[i]] = ids[i]
		}
		if engine.HasQuarto(b, advanced) {
			continue
		}
		return b, ids[n], append([]int(nil), ids[n+1:]...)
	}
}

func TestSearch_PruningMatchesExhaustive(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 2))
	for i := 0; i < 60; i++ {
		advanced := i%2 == 1
		depth := 2 + i%3
		b, held, pool := midgame(rng, 7+rng.IntN(3), advanced)
		s := searcher{advanced: advanced}

		want := -infinity
		for _, pos := range b.EmptyPositions() {
			next := b.With(pos, held)
			v := 0
			if !next.IsFull() {
				v = exhaustive(&s, next, pool, engine.PhaseSelecting, engine.Empty, depth-1, true)
			}
			want = max(want, v)
		}
		if got := s.placeRoot(b, pool, held, depth); got.Score != want {
			t.Fatalf("board %v depth %d: place score %d, exhaustive %d", b, depth, got.Score, want)
		}

		full := append([]int{held}, pool...)
		want = -infinity
		for _, id := range full {
			v := -WinScore
			if !givesWin(b, id, advanced) {
				v = exhaustive(&s, b, without(full, id), engine.PhasePlacing, id, depth-1, false)
			}
			want = max(want, v)
		}
		if got := s.selectRoot(b, full, depth); got.Score != want {
			t.Fatalf("board %v depth %d: select score %d, exhaustive %d", b, depth, got.Score, want)
		}
	}
}
