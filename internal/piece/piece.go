package piece

// Count is the number of distinct pieces in a set.
const Count = 16

type Attribute string

const (
	AttrColor  Attribute = "color"
	AttrShape  Attribute = "shape"
	AttrTop    Attribute = "top"
	AttrHeight Attribute = "height"
)

// Attributes in bit order: bit0=color, bit1=shape, bit2=top, bit3=height.
var Attributes = [4]Attribute{AttrColor, AttrShape, AttrTop, AttrHeight}

type Color string

const (
	Light Color = "light"
	Dark  Color = "dark"
)

type Shape string

const (
	Round  Shape = "round"
	Square Shape = "square"
)

type Top string

const (
	Solid  Top = "solid"
	Hollow Top = "hollow"
)

type Height string

const (
	Short Height = "short"
	Tall  Height = "tall"
)

// Piece is an immutable catalog entry. Its ID encodes every attribute.
type Piece struct {
	ID     int    `json:"id"`
	Color  Color  `json:"color"`
	Shape  Shape  `json:"shape"`
	Top    Top    `json:"top"`
	Height Height `json:"height"`
}

var catalog = func() [Count]Piece {
	var ps [Count]Piece
	for id := 0; id < Count; id++ {
		ps[id] = decode(id)
	}
	return ps
}()

func decode(id int) Piece {
	p := Piece{ID: id, Color: Light, Shape: Round, Top: Solid, Height: Short}
	if id&1 != 0 {
		p.Color = Dark
	}
	if id&2 != 0 {
		p.Shape = Square
	}
	if id&4 != 0 {
		p.Top = Hollow
	}
	if id&8 != 0 {
		p.Height = Tall
	}
	return p
}

// All returns a copy of the 16 pieces ordered by ID.
func All() [Count]Piece { return catalog }

// ByID returns the piece with the given id, or false when id is outside [0,15].
func ByID(id int) (Piece, bool) {
	if !Valid(id) {
		return Piece{}, false
	}
	return catalog[id], true
}

func Valid(id int) bool { return id >= 0 && id < Count }

// ComputeID is the inverse of ByID.
func ComputeID(c Color, s Shape, t Top, h Height) int {
	id := 0
	if c == Dark {
		id |= 1
	}
	if s == Square {
		id |= 2
	}
	if t == Hollow {
		id |= 4
	}
	if h == Tall {
		id |= 8
	}
	return id
}

func (p Piece) Value(a Attribute) string {
	switch a {
	case AttrColor:
		return string(p.Color)
	case AttrShape:
		return string(p.Shape)
	case AttrTop:
		return string(p.Top)
	case AttrHeight:
		return string(p.Height)
	}
	return ""
}

// SharedMask returns a 4-bit mask of attributes on which every id agrees.
// Fewer than two ids share nothing.
func SharedMask(ids ...int) uint8 {
	if len(ids) < 2 {
		return 0
	}
	and, nor := uint8(0xF), uint8(0xF)
	for _, id := range ids {
		v := uint8(id) & 0xF
		and &= v
		nor &= ^v & 0xF
	}
	return and | nor
}

// MaskAttributes expands a SharedMask result into attribute names.
func MaskAttributes(mask uint8) []Attribute {
	var out []Attribute
	for bit, a := range Attributes {
		if mask&(1<<bit) != 0 {
			out = append(out, a)
		}
	}
	return out
}

// SharedAttributes lists the attributes every piece has in common.
func SharedAttributes(pieces ...Piece) []Attribute {
	ids := make([]int, len(pieces))
	for i, p := range pieces {
		ids[i] = p.ID
	}
	return MaskAttributes(SharedMask(ids...))
}
