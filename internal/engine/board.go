package engine

import (
	"encoding/json"
	"fmt"

	"github.com/kushgupta-hiver/quarto/internal/piece"
)

const (
	Side  = 4
	Cells = Side * Side
	// Empty marks an unoccupied cell.
	Empty = -1
)

// Board holds a piece id or Empty per cell; index = row*4 + col.
type Board [Cells]int

func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = Empty
	}
	return b
}

func ValidPosition(pos int) bool { return pos >= 0 && pos < Cells }

func (b Board) At(pos int) (int, bool) {
	if !ValidPosition(pos) || b[pos] == Empty {
		return Empty, false
	}
	return b[pos], true
}

// With returns a copy of b with id placed at pos.
func (b Board) With(pos, id int) Board {
	b[pos] = id
	return b
}

func (b Board) IsFull() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b Board) EmptyPositions() []int {
	out := make([]int, 0, Cells)
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Check reports a cell holding an unknown id or a piece placed twice.
func (b Board) Check() error {
	var seen [piece.Count]bool
	for i, c := range b {
		if c == Empty {
			continue
		}
		if !piece.Valid(c) {
			return fmt.Errorf("board: cell %d: %w", i, ErrInvalidPiece)
		}
		if seen[c] {
			return fmt.Errorf("board: cell %d: piece %d placed twice: %w", i, c, ErrDuplicatePiece)
		}
		seen[c] = true
	}
	return nil
}

// Holds reports whether id is already on the board.
func (b Board) Holds(id int) bool {
	for _, c := range b {
		if c == id {
			return true
		}
	}
	return false
}

func (b Board) PlacedCount() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// MarshalJSON renders empty cells as null.
func (b Board) MarshalJSON() ([]byte, error) {
	out := make([]*int, Cells)
	for i, c := range b {
		if c != Empty {
			v := c
			out[i] = &v
		}
	}
	return json.Marshal(out)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []*int
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	if len(cells) != Cells {
		return fmt.Errorf("board: want %d cells, got %d", Cells, len(cells))
	}
	out := NewBoard()
	for i, c := range cells {
		if c != nil {
			out[i] = *c
		}
	}
	if err := out.Check(); err != nil {
		return err
	}
	*b = out
	return nil
}
