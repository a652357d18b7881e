package board

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewSquare(t *testing.T) {
	s, err := NewSquare(5, 4)
	if err != nil || s != E4 {
		t.Fatalf("NewSquare(5, 4) = %s, %v, want e4", s, err)
	}
	if s.File() != 5 || s.Rank() != 4 {
		t.Errorf("e4 coordinates = %d,%d", s.File(), s.Rank())
	}

	for _, c := range [][2]int{{0, 1}, {9, 1}, {1, 0}, {1, 9}, {-3, 12}} {
		if _, err := NewSquare(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("NewSquare(%d, %d) error = %v, want %v", c[0], c[1], err, ErrOutOfBounds)
		}
	}
}

func TestParseSquare(t *testing.T) {
	for _, name := range []string{"a1", "h8", "d5"} {
		s, err := ParseSquare(name)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", name, err)
		}
		if s.String() != name {
			t.Errorf("ParseSquare(%q).String() = %q", name, s)
		}
	}
	for _, name := range []string{"", "i1", "a9", "A1", "e44"} {
		if _, err := ParseSquare(name); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ParseSquare(%q) error = %v, want %v", name, err, ErrOutOfBounds)
		}
	}
}

func TestSquareOffset(t *testing.T) {
	if s, ok := E4.Offset(Vector{1, 2}); !ok || s != F6 {
		t.Errorf("e4 + (1,2) = %s, %v", s, ok)
	}
	if _, ok := H4.Offset(Vector{1, 0}); ok {
		t.Error("h4 + (1,0) should leave the board")
	}
	if _, ok := A1.Offset(Vector{0, -1}); ok {
		t.Error("a1 + (0,-1) should leave the board")
	}
}

func TestSquareSet(t *testing.T) {
	s := SetOf(A1, E4, H8)
	if s.Len() != 3 || !s.Has(E4) || s.Has(E5) {
		t.Errorf("unexpected set %s", s)
	}
	s = s.Remove(E4)
	if s.Has(E4) || s.First() != A1 {
		t.Errorf("after Remove: %s", s)
	}
	if got := s.Squares(); len(got) != 2 || got[0] != A1 || got[1] != H8 {
		t.Errorf("Squares() = %v", got)
	}
}

func TestPieceSymbols(t *testing.T) {
	for _, c := range []byte("KQRBNPkqrbnp") {
		p, ok := PieceFromSymbol(c)
		if !ok {
			t.Fatalf("PieceFromSymbol(%q) failed", c)
		}
		if p.Symbol() != c {
			t.Errorf("symbol round trip %q -> %q", c, p.Symbol())
		}
	}
	if _, ok := PieceFromSymbol('x'); ok {
		t.Error("PieceFromSymbol('x') should fail")
	}
	if p, _ := PieceFromSymbol('q'); p.Side != Dark || p.Kind != Queen {
		t.Errorf("q = %v", p)
	}
}

func TestMoveJSON(t *testing.T) {
	b := New()
	play(t, b, "g1f3")
	data, err := json.Marshal(b.History()[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"piece":{"kind":"knight","side":"light"},"from":"g1","to":"f3","notation":"Nf3"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var m Move
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m != b.History()[0] {
		t.Errorf("Unmarshal = %+v, want %+v", m, b.History()[0])
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"q": Queen, "N": Knight, "rook": Rook, "Bishop": Bishop} {
		if k, ok := ParseKind(in); !ok || k != want {
			t.Errorf("ParseKind(%q) = %s, %v, want %s", in, k, ok, want)
		}
	}
	if _, ok := ParseKind("x"); ok {
		t.Error("ParseKind(x) should fail")
	}
}
