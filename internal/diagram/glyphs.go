package diagram

import "github.com/hailam/chessrules/internal/board"

// Piece outlines drawn in a 100x100 box, one per kind.
var glyphs = map[board.Kind]string{
	board.Pawn: `<circle cx="50" cy="32" r="13"/>` +
		`<path d="M28 86 L72 86 L64 58 Q50 48 36 58 Z"/>`,
	board.Knight: `<path d="M28 86 H74 C74 60 70 40 56 20 L50 14 L46 24 C34 30 24 44 22 54 L30 60 L44 50 C42 62 32 72 28 86 Z"/>`,
	board.Bishop: `<ellipse cx="50" cy="48" rx="16" ry="22"/>` +
		`<circle cx="50" cy="20" r="6"/>` +
		`<rect x="28" y="74" width="44" height="12"/>`,
	board.Rook: `<path d="M25 86 H75 V76 H68 V44 H75 V22 H66 V30 H57 V22 H43 V30 H34 V22 H25 V44 H32 V76 H25 Z"/>`,
	board.Queen: `<path d="M24 86 H76 L82 34 L66 54 L58 24 L50 52 L42 24 L34 54 L18 34 Z"/>` +
		`<circle cx="50" cy="20" r="5"/>`,
	board.King: `<path d="M46 8 H54 V18 H64 V26 H54 V36 H46 V26 H36 V18 H46 Z"/>` +
		`<path d="M26 86 H74 L68 44 H32 Z"/>`,
}

// glyphColors holds the fill of each side's pieces.
var glyphColors = [2]string{
	board.Light: "#fafafa",
	board.Dark:  "#202020",
}
