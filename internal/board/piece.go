package board

// Side represents one of the two players.
type Side uint8

const (
	Light Side = iota
	Dark
)

// Other returns the opposite side.
func (s Side) Other() Side {
	return s ^ 1
}

// String returns the side name.
func (s Side) String() string {
	if s == Light {
		return "Light"
	}
	return "Dark"
}

// Forward returns the rank step of the side's pawns.
func (s Side) Forward() int {
	if s == Light {
		return 1
	}
	return -1
}

// HomeRank returns the rank the side's pieces start on.
func (s Side) HomeRank() int {
	if s == Light {
		return 1
	}
	return 8
}

// PawnRank returns the rank the side's pawns start on.
func (s Side) PawnRank() int {
	if s == Light {
		return 2
	}
	return 7
}

// LastRank returns the rank on which the side's pawns promote.
func (s Side) LastRank() int {
	if s == Light {
		return 8
	}
	return 1
}

// Kind represents the type of a chess piece.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Movement vectors per kind.
var (
	orthogonals = []Vector{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonals   = []Vector{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allEight    = append(append([]Vector{}, orthogonals...), diagonals...)
	knightJumps = []Vector{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	pawnForward = [2][]Vector{{{0, 1}}, {{0, -1}}}
	pawnCapture = [2][]Vector{{{-1, 1}, {1, 1}}, {{-1, -1}, {1, -1}}}
)

// Vectors returns the movement directions of the kind for the given side.
// Only pawns depend on the side.
func (k Kind) Vectors(s Side) []Vector {
	switch k {
	case King, Queen:
		return allEight
	case Rook:
		return orthogonals
	case Bishop:
		return diagonals
	case Knight:
		return knightJumps
	case Pawn:
		return pawnForward[s]
	}
	return nil
}

// Limit returns how many steps the kind may take along one vector.
func (k Kind) Limit() int {
	switch k {
	case Queen, Rook, Bishop:
		return 7
	case NoKind:
		return 0
	}
	return 1
}

// Slides reports whether the kind moves any distance along its vectors.
func (k Kind) Slides() bool {
	return k.Limit() > 1
}

// Value is the material value of the kind.
func (k Kind) Value() int {
	return kindValue[k]
}

var kindValue = [7]int{0, 1, 3, 3, 5, 9, 0}

// movesAlong reports whether a piece of this kind travels along v.
func (k Kind) movesAlong(v Vector) bool {
	switch k {
	case Queen:
		return v.Orthogonal() || v.Diagonal()
	case Rook:
		return v.Orthogonal()
	case Bishop:
		return v.Diagonal()
	}
	return false
}

// Piece is a kind owned by a side. The zero value is an empty square.
type Piece struct {
	Kind  Kind `json:"kind"`
	Side  Side `json:"side"`
	Moved bool `json:"moved,omitempty"`
}

// NoPiece marks an empty square.
var NoPiece = Piece{}

// NewPiece creates an unmoved piece.
func NewPiece(k Kind, s Side) Piece {
	return Piece{Kind: k, Side: s}
}

// IsEmpty reports whether p is the empty marker.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Symbol returns the one-letter symbol: uppercase for Light, lowercase for Dark.
func (p Piece) Symbol() byte {
	for _, e := range symbolTable {
		if e.kind == p.Kind && e.side == p.Side {
			return e.symbol
		}
	}
	return emptySymbol
}

// String returns the piece symbol.
func (p Piece) String() string {
	return string(p.Symbol())
}

const emptySymbol = '_'

var symbolTable = [12]struct {
	symbol byte
	kind   Kind
	side   Side
}{
	{'K', King, Light}, {'Q', Queen, Light}, {'R', Rook, Light},
	{'B', Bishop, Light}, {'N', Knight, Light}, {'P', Pawn, Light},
	{'k', King, Dark}, {'q', Queen, Dark}, {'r', Rook, Dark},
	{'b', Bishop, Dark}, {'n', Knight, Dark}, {'p', Pawn, Dark},
}

// PieceFromSymbol converts a piece symbol to an unmoved Piece.
func PieceFromSymbol(c byte) (Piece, bool) {
	for _, e := range symbolTable {
		if e.symbol == c {
			return NewPiece(e.kind, e.side), true
		}
	}
	return NoPiece, false
}

// promotionKinds lists the kinds a pawn may become, strongest first.
var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}
