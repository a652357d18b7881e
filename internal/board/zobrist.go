package board

import "strings"

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][7][64]uint64 // [Side][Kind][Square] - 7 to handle NoKind safely
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [4]uint64        // One per right, in castlingOrder
	zobristSideToMove uint64           // XOR when Dark to move
)

// castlingOrder lists the FEN castling letters in key order.
const castlingOrder = "KQkq"

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for s := Light; s <= Dark; s++ {
		for k := Pawn; k <= King; k++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[s][k][sq] = rng.next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist hash of the position: placement, side to move,
// castling rights and the file of an en passant capture that is actually
// available. Positions with equal hashes count as repeated.
func (b *Board) Hash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; !p.IsEmpty() {
			h ^= zobristPiece[p.Side][p.Kind][sq]
		}
	}
	if b.sideToMove == Dark {
		h ^= zobristSideToMove
	}
	rights := b.castlingRights()
	for i, c := range castlingOrder {
		if strings.ContainsRune(rights, c) {
			h ^= zobristCastling[i]
		}
	}
	if file, ok := b.enPassantFile(); ok {
		h ^= zobristEnPassant[file-1]
	}
	return h
}

// enPassantFile returns the file of the pawn that may be captured en passant
// right now.
func (b *Board) enPassantFile() (int, bool) {
	last, ok := b.lastMove()
	if !ok || !last.DoubleAdvance {
		return 0, false
	}
	mid, _ := last.From.Offset(Vector{0, last.Piece.Side.Forward()})
	for _, df := range []int{-1, 1} {
		sq, ok := last.To.Offset(Vector{df, 0})
		if ok && b.isPawn(sq, b.sideToMove) && b.LegalMoves(sq).Has(mid) {
			return last.To.File(), true
		}
	}
	return 0, false
}

// recordPosition appends the current hash to the repetition history.
func (b *Board) recordPosition() {
	b.positions = append(b.positions, b.Hash())
}

// RepetitionCount returns how often the current position has occurred,
// counting itself.
func (b *Board) RepetitionCount() int {
	if len(b.positions) == 0 {
		return 1
	}
	current := b.positions[len(b.positions)-1]
	n := 0
	for _, h := range b.positions {
		if h == current {
			n++
		}
	}
	return n
}

// IsThreefoldRepetition returns true once the current position has occurred
// three times. The draw may be claimed; it does not end the game by itself.
func (b *Board) IsThreefoldRepetition() bool {
	return b.RepetitionCount() >= 3
}
