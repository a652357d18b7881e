package board

import (
	"fmt"
	"strings"
)

// Board represents a complete game state: occupancy, side to move, pending
// promotion, move history and the counters used by the draw rules.
//
// A Board is not safe for concurrent use. It is mutated only by ApplyMove and
// PromotePawn; every other method is a read-only query.
type Board struct {
	squares [64]Piece

	sideToMove Side
	promotion  Square // pawn awaiting promotion, NoSquare if none

	history       []Move
	positions     []uint64 // hashes of the positions reached, for repetition
	halfMoveClock int // moves since last capture or pawn advance (50-move rule)
	plies         int // moves made, including those before deserialization

	// King positions (cached for check detection)
	kings [2]Square
}

// New creates the starting position.
func New() *Board {
	b := empty()
	back := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 1; file <= 8; file++ {
		for _, s := range []Side{Light, Dark} {
			b.put(square(file, s.HomeRank()), NewPiece(back[file-1], s))
			b.put(square(file, s.PawnRank()), NewPiece(Pawn, s))
		}
	}
	b.recordPosition()
	return b
}

func empty() *Board {
	return &Board{
		promotion: NoSquare,
		kings:     [2]Square{NoSquare, NoSquare},
	}
}

// Clone creates a deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.history = append([]Move(nil), b.history...)
	c.positions = append([]uint64(nil), b.positions...)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.PieceAt(sq).IsEmpty()
}

// SideToMove returns the side whose turn it is.
func (b *Board) SideToMove() Side {
	return b.sideToMove
}

// PendingPromotion returns the square of a pawn waiting to be promoted.
func (b *Board) PendingPromotion() (Square, bool) {
	return b.promotion, b.promotion != NoSquare
}

// HalfMoveClock returns the number of moves since the last capture or pawn advance.
func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

// Plies returns the number of moves made in the game.
func (b *Board) Plies() int {
	return b.plies
}

// KingSquare returns the location of the side's king.
func (b *Board) KingSquare(s Side) Square {
	return b.kings[s]
}

// History returns a copy of the move records, oldest first.
func (b *Board) History() []Move {
	return append([]Move(nil), b.history...)
}

// lastMove returns the most recent history record.
func (b *Board) lastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// Pieces returns the squares occupied by the side's pieces.
func (b *Board) Pieces(s Side) SquareSet {
	var set SquareSet
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; !p.IsEmpty() && p.Side == s {
			set = set.Add(sq)
		}
	}
	return set
}

// put places a piece on a square, keeping the king index current.
func (b *Board) put(sq Square, p Piece) {
	b.squares[sq] = p
	if p.Kind == King {
		b.kings[p.Side] = sq
	}
}

// remove clears a square and returns what was there.
func (b *Board) remove(sq Square) Piece {
	p := b.squares[sq]
	b.squares[sq] = NoPiece
	return p
}

// relocate moves a piece between squares and marks it as moved.
func (b *Board) relocate(from, to Square) {
	p := b.remove(from)
	p.Moved = p.Moved || tracksMoved(p.Kind)
	b.put(to, p)
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 8; rank >= 1; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank)
		for file := 1; file <= 8; file++ {
			p := b.squares[square(file, rank)]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	if sq, ok := b.PendingPromotion(); ok {
		fmt.Fprintf(&sb, "Promotion pending: %s\n", sq)
	}
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Moves: %d\n", b.plies)
	return sb.String()
}

// validate checks the structural invariants of a freshly built board.
func (b *Board) validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p.Kind == King {
			kings[p.Side]++
		}
		if p.Kind == Pawn && sq.Rank() == p.Side.HomeRank() {
			return fmt.Errorf("%w: %s pawn on its back rank at %s", ErrInvalidBoardRepresentation, p.Side, sq)
		}
	}
	for _, s := range []Side{Light, Dark} {
		if kings[s] != 1 {
			return fmt.Errorf("%w: %s must have exactly one king, found %d", ErrInvalidBoardRepresentation, s, kings[s])
		}
	}
	return nil
}

// Material returns the total non-king material value of the side.
func (b *Board) Material(s Side) int {
	total := 0
	for _, sq := range b.Pieces(s).Squares() {
		total += b.squares[sq].Kind.Value()
	}
	return total
}
