package engine

import "github.com/kushgupta-hiver/quarto/internal/piece"

type LineKind string

const (
	KindRow      LineKind = "row"
	KindColumn   LineKind = "column"
	KindDiagonal LineKind = "diagonal"
	KindSquare   LineKind = "square"
)

type Line struct {
	Kind      LineKind `json:"kind"`
	Positions [4]int   `json:"positions"`
}

// Lines enumerates rows, then columns, then the two diagonals.
var Lines = func() []Line {
	ls := make([]Line, 0, 10)
	for r := 0; r < Side; r++ {
		ls = append(ls, Line{KindRow, [4]int{r * 4, r*4 + 1, r*4 + 2, r*4 + 3}})
	}
	for c := 0; c < Side; c++ {
		ls = append(ls, Line{KindColumn, [4]int{c, c + 4, c + 8, c + 12}})
	}
	ls = append(ls,
		Line{KindDiagonal, [4]int{0, 5, 10, 15}},
		Line{KindDiagonal, [4]int{3, 6, 9, 12}},
	)
	return ls
}()

// Squares are the nine overlapping 2x2 blocks used by the advanced rules.
var Squares = func() []Line {
	ls := make([]Line, 0, 9)
	for r := 0; r < Side-1; r++ {
		for c := 0; c < Side-1; c++ {
			tl := r*4 + c
			ls = append(ls, Line{KindSquare, [4]int{tl, tl + 1, tl + 4, tl + 5}})
		}
	}
	return ls
}()

// Candidates returns the lines checked under the given rule set.
func Candidates(advanced bool) []Line {
	if !advanced {
		return Lines
	}
	out := make([]Line, 0, len(Lines)+len(Squares))
	out = append(out, Lines...)
	return append(out, Squares...)
}

var through = func() [2][Cells][]Line {
	var t [2][Cells][]Line
	for i, adv := range []bool{false, true} {
		for _, l := range Candidates(adv) {
			for _, p := range l.Positions {
				t[i][p] = append(t[i][p], l)
			}
		}
	}
	return t
}()

// LinesThrough lists the candidate lines containing pos.
func LinesThrough(pos int, advanced bool) []Line {
	if advanced {
		return through[1][pos]
	}
	return through[0][pos]
}

// Win is a completed line whose four pieces share at least one attribute.
type Win struct {
	Line
	Shared []piece.Attribute `json:"shared"`
}

// CheckLine reports the shared-attribute mask of a fully occupied line.
// A partially filled line never wins.
func CheckLine(b Board, positions [4]int) (uint8, bool) {
	var ids [4]int
	for i, p := range positions {
		id, ok := b.At(p)
		if !ok {
			return 0, false
		}
		ids[i] = id
	}
	mask := piece.SharedMask(ids[:]...)
	return mask, mask != 0
}

func FindWinningLine(b Board, advanced bool) (Win, bool) {
	for _, l := range Candidates(advanced) {
		if mask, ok := CheckLine(b, l.Positions); ok {
			return Win{Line: l, Shared: piece.MaskAttributes(mask)}, true
		}
	}
	return Win{}, false
}

// FindAllWinningLines returns every winning line; simultaneous wins are legal.
func FindAllWinningLines(b Board, advanced bool) []Win {
	var out []Win
	for _, l := range Candidates(advanced) {
		if mask, ok := CheckLine(b, l.Positions); ok {
			out = append(out, Win{Line: l, Shared: piece.MaskAttributes(mask)})
		}
	}
	return out
}

func HasQuarto(b Board, advanced bool) bool {
	_, ok := FindWinningLine(b, advanced)
	return ok
}

// CompletesWin reports whether placing id on the empty cell pos wins.
// Only lines through pos are inspected.
func CompletesWin(b Board, pos, id int, advanced bool) bool {
	if !ValidPosition(pos) || b[pos] != Empty {
		return false
	}
	b[pos] = id
	for _, l := range LinesThrough(pos, advanced) {
		if _, ok := CheckLine(b, l.Positions); ok {
			return true
		}
	}
	return false
}
