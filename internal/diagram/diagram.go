// Package diagram renders board positions as PNG images.
//
// The position is first laid out as an SVG document, rasterized with oksvg at
// a multiple of the requested size and then scaled down for smooth edges.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessrules/internal/board"
)

const (
	// DefaultSize is the edge length in pixels used when Options.Size is 0.
	DefaultSize = 480

	minSize     = 64
	maxSize     = 2048
	renderScale = 3   // Render at 3x resolution for sharp scaling
	squareUnits = 100 // SVG units per square
)

// ErrInvalidSize is returned for image sizes outside the supported range.
var ErrInvalidSize = errors.New("invalid diagram size")

// Square colors.
var (
	lightSquare    = "#f0d9b5"
	darkSquare     = "#b58863"
	lightLastMove  = "#cdd26a"
	darkLastMove   = "#aaa23a"
	checkHighlight = "#e06c5a"
)

// Options controls how a diagram is drawn.
type Options struct {
	Size        int  // edge length in pixels
	Flipped     bool // Dark at the bottom
	Coordinates bool // file letters and rank numbers along the edges
}

func (o Options) size() int {
	if o.Size == 0 {
		return DefaultSize
	}
	return o.Size
}

// origin returns the top-left corner of sq in SVG units.
func (o Options) origin(sq board.Square) (x, y int) {
	col, row := sq.File()-1, 8-sq.Rank()
	if o.Flipped {
		col, row = 8-sq.File(), sq.Rank()-1
	}
	return col * squareUnits, row * squareUnits
}

// SVG returns the diagram as an SVG document.
func SVG(b *board.Board, opts Options) string {
	var sb strings.Builder
	side := 8 * squareUnits
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, side, side, side, side)

	highlight := make(map[board.Square]string)
	if history := b.History(); len(history) > 0 {
		last := history[len(history)-1]
		highlight[last.From] = ""
		highlight[last.To] = ""
	}
	if mover := b.SideToMove(); b.IsCheck(mover) {
		highlight[b.KingSquare(mover)] = checkHighlight
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := opts.origin(sq)
		fill := squareColor(sq, highlight)
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, squareUnits, squareUnits, fill)
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		if p.IsEmpty() {
			continue
		}
		x, y := opts.origin(sq)
		fmt.Fprintf(&sb, `<g transform="translate(%d,%d)" fill="%s" stroke="#000000" stroke-width="3">%s</g>`,
			x, y, glyphColors[p.Side], glyphs[p.Kind])
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func squareColor(sq board.Square, highlight map[board.Square]string) string {
	light := (sq.File()+sq.Rank())%2 == 1
	if c, ok := highlight[sq]; ok {
		switch {
		case c != "":
			return c
		case light:
			return lightLastMove
		default:
			return darkLastMove
		}
	}
	if light {
		return lightSquare
	}
	return darkSquare
}

// Render draws the board into a new image.
func Render(b *board.Board, opts Options) (*image.RGBA, error) {
	size := opts.size()
	if size < minSize || size > maxSize {
		return nil, fmt.Errorf("%w: %d (want %d to %d)", ErrInvalidSize, size, minSize, maxSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(b, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse diagram svg: %w", err)
	}

	// Render at higher resolution, then scale down
	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))
	big := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, big, big.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)

	if opts.Coordinates {
		drawCoordinates(out, opts)
	}
	return out, nil
}

// drawCoordinates labels the files along the bottom edge and the ranks along
// the left edge, each in the color of the other square shade.
func drawCoordinates(img *image.RGBA, opts Options) {
	face := basicfont.Face7x13
	sq := img.Bounds().Dx() / 8
	d := &font.Drawer{Dst: img, Face: face}

	bottomRank, leftFile := 1, 1
	if opts.Flipped {
		bottomRank, leftFile = 8, 8
	}

	for i := 0; i < 8; i++ {
		file, rank := i+1, 8-i
		if opts.Flipped {
			file, rank = 8-i, i+1
		}

		// File letter in the bottom-right corner of the bottom row.
		d.Src = image.NewUniform(labelColor(file, bottomRank))
		d.Dot = fixed.P((i+1)*sq-face.Advance-2, 8*sq-3)
		d.DrawString(string(rune('a' + file - 1)))

		// Rank number in the top-left corner of the left column.
		d.Src = image.NewUniform(labelColor(leftFile, rank))
		d.Dot = fixed.P(2, i*sq+face.Ascent+1)
		d.DrawString(string(rune('0' + rank)))
	}
}

func labelColor(file, rank int) color.Color {
	if (file+rank)%2 == 1 {
		return hexColor(darkSquare)
	}
	return hexColor(lightSquare)
}

func hexColor(s string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// WritePNG renders the board and encodes it as PNG.
func WritePNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := Render(b, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
