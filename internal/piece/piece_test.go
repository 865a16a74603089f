package piece

import (
	"reflect"
	"testing"
)

func TestAll_SixteenDistinct(t *testing.T) {
	seen := map[Piece]bool{}
	for i, p := range All() {
		if p.ID != i {
			t.Fatalf("piece at %d has id %d", i, p.ID)
		}
		if seen[p] {
			t.Fatalf("duplicate piece %+v", p)
		}
		seen[p] = true
	}
	if len(seen) != Count {
		t.Fatalf("expected %d pieces, got %d", Count, len(seen))
	}
}

func TestComputeID_RoundTrip(t *testing.T) {
	for _, c := range []Color{Light, Dark} {
		for _, s := range []Shape{Round, Square} {
			for _, tp := range []Top{Solid, Hollow} {
				for _, h := range []Height{Short, Tall} {
					id := ComputeID(c, s, tp, h)
					p, ok := ByID(id)
					if !ok {
						t.Fatalf("ByID(%d) not found", id)
					}
					if p.Color != c || p.Shape != s || p.Top != tp || p.Height != h {
						t.Fatalf("round trip mismatch for id %d: %+v", id, p)
					}
				}
			}
		}
	}
}

func TestByID_OutOfRange(t *testing.T) {
	for _, id := range []int{-1, 16, 100} {
		if _, ok := ByID(id); ok {
			t.Fatalf("expected ByID(%d) to be absent", id)
		}
	}
}

func TestBitLayout(t *testing.T) {
	p, _ := ByID(9) // 1001
	want := Piece{ID: 9, Color: Dark, Shape: Round, Top: Solid, Height: Tall}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}

func TestSharedAttributes(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want []Attribute
	}{
		{"single piece", []int{3}, nil},
		{"identical pair", []int{5, 5}, []Attribute{AttrColor, AttrShape, AttrTop, AttrHeight}},
		{"tall diagonal", []int{8, 9, 10, 11}, []Attribute{AttrTop, AttrHeight}},
		{"all light", []int{0, 2, 4, 6}, []Attribute{AttrColor, AttrHeight}},
		{"nothing shared", []int{0, 15}, nil},
		{"complements", []int{0, 15, 6, 9}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := make([]Piece, len(tt.ids))
			for i, id := range tt.ids {
				ps[i], _ = ByID(id)
			}
			got := SharedAttributes(ps...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharedMask_MatchesAttributeComparison(t *testing.T) {
	for a := 0; a < Count; a++ {
		for b := 0; b < Count; b++ {
			pa, _ := ByID(a)
			pb, _ := ByID(b)
			var want uint8
			for bit, attr := range Attributes {
				if pa.Value(attr) == pb.Value(attr) {
					want |= 1 << bit
				}
			}
			if got := SharedMask(a, b); got != want {
				t.Fatalf("SharedMask(%d,%d) = %04b, want %04b", a, b, got, want)
			}
		}
	}
}
