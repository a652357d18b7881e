package diagram

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/hailam/chessrules/internal/board"
)

const testSize = 240 // 30 pixels per square

// near reports whether c is within a small distance of the hex color.
func near(c color.Color, hex string) bool {
	want := hexColor(hex)
	r, g, b, _ := c.RGBA()
	diff := func(a uint32, b uint8) int {
		d := int(a>>8) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	return diff(r, want.R) <= 3 && diff(g, want.G) <= 3 && diff(b, want.B) <= 3
}

func TestRenderStartPosition(t *testing.T) {
	img, err := Render(board.New(), Options{Size: testSize})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.Bounds().Dx(); got != testSize {
		t.Fatalf("width = %d, want %d", got, testSize)
	}

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"a1 corner", 2, testSize - 3, darkSquare},
		{"h1 corner", testSize - 3, testSize - 3, lightSquare},
		{"e4 center", 135, 135, lightSquare},
		{"d4 center", 105, 135, darkSquare},
		{"e2 pawn head", 135, 190, glyphColors[board.Light]},
		{"e7 pawn head", 135, 40, glyphColors[board.Dark]},
	}
	for _, tc := range tests {
		if c := img.At(tc.x, tc.y); !near(c, tc.want) {
			t.Errorf("%s: pixel %v, want %s", tc.name, c, tc.want)
		}
	}
}

func TestRenderFlipped(t *testing.T) {
	img, err := Render(board.New(), Options{Size: testSize, Flipped: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// a1 is now the top-right square.
	if c := img.At(testSize-3, 2); !near(c, darkSquare) {
		t.Errorf("a1 corner: pixel %v, want %s", c, darkSquare)
	}
	// Dark pawns sit on the second row from the bottom.
	if c := img.At(105, 190); !near(c, glyphColors[board.Dark]) {
		t.Errorf("e7 pawn head: pixel %v, want dark fill", c)
	}
}

func TestRenderHighlights(t *testing.T) {
	b := board.New()
	if err := b.ApplyMove(board.E2, board.E4); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	img, err := Render(b, Options{Size: testSize})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if c := img.At(135, 195); !near(c, lightLastMove) {
		t.Errorf("e2 after e2e4: pixel %v, want %s", c, lightLastMove)
	}

	b, err = board.ParseFEN("4k3/8/8/8/8/8/8/4K2r w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if svg := SVG(b, Options{}); !strings.Contains(svg, checkHighlight) {
		t.Error("king in check is not highlighted")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, board.New(), Options{Size: 128, Coordinates: true}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds = %v", b)
	}
}

func TestInvalidSize(t *testing.T) {
	for _, size := range []int{-1, 10, maxSize + 1} {
		if _, err := Render(board.New(), Options{Size: size}); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Render(size %d) error = %v, want %v", size, err, ErrInvalidSize)
		}
	}
}
