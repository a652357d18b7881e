package board

// Outcome is the result of a game.
type Outcome uint8

const (
	Undecided Outcome = iota
	LightWins
	DarkWins
	Draw
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case LightWins:
		return "LightWins"
	case DarkWins:
		return "DarkWins"
	case Draw:
		return "Draw"
	default:
		return "Undecided"
	}
}

// fiftyMoveLimit is the half-move clock value at which the fifty-move draw applies.
const fiftyMoveLimit = 100

// IsCheck returns true if the side's king is attacked.
func (b *Board) IsCheck(s Side) bool {
	return !b.Checkers(s).IsEmpty()
}

// IsCheckmate returns true if the side is in check and has no way out: the
// king cannot step anywhere and, against a single checker, no unpinned piece
// can capture it or interpose.
func (b *Board) IsCheckmate(s Side) bool {
	checkers := b.Checkers(s)
	if checkers.IsEmpty() {
		return false
	}
	king := b.kings[s]
	if !b.LegalMoves(king).IsEmpty() {
		return false
	}
	if checkers.Len() > 1 {
		return true
	}

	checker := checkers.First()
	for _, sq := range b.Attackers(checker, s, false).Remove(king).Squares() {
		if len(b.Pinned(sq)) == 0 {
			return false
		}
	}
	for _, block := range between(king, checker).Squares() {
		for _, sq := range b.Attackers(block, s, true).Squares() {
			if len(b.Pinned(sq)) == 0 {
				return false
			}
		}
	}

	// A checking pawn that just advanced two squares may be taken en passant.
	if last, ok := b.lastMove(); ok && last.DoubleAdvance && last.To == checker {
		for _, df := range []int{-1, 1} {
			sq, ok := checker.Offset(Vector{df, 0})
			if !ok || !b.isPawn(sq, s) {
				continue
			}
			if _, ok := b.enPassantTarget(sq, b.squares[sq], b.Pinned(sq)); ok {
				return false
			}
		}
	}
	return true
}

// IsStalemate returns true if the side to move has no legal move while not in
// check, or if neither side has the material to force mate.
func (b *Board) IsStalemate() bool {
	if b.IsInsufficientMaterial() {
		return true
	}
	s := b.sideToMove
	return !b.IsCheck(s) && !b.HasLegalMove(s)
}

// IsInsufficientMaterial approximates a dead position: both sides hold at most
// three points of non-king material and no pawn, which could still promote.
func (b *Board) IsInsufficientMaterial() bool {
	for _, s := range []Side{Light, Dark} {
		if b.Material(s) > 3 {
			return false
		}
		for _, sq := range b.Pieces(s).Squares() {
			if b.squares[sq].Kind == Pawn {
				return false
			}
		}
	}
	return true
}

// IsFiftyMoveDraw returns true once fifty moves by each side passed without
// a capture or pawn advance.
func (b *Board) IsFiftyMoveDraw() bool {
	return b.halfMoveClock >= fiftyMoveLimit
}

// Outcome reports the game result. A game with a promotion still pending is
// undecided until the pawn is replaced.
func (b *Board) Outcome() Outcome {
	if _, ok := b.PendingPromotion(); ok {
		return Undecided
	}
	switch {
	case b.IsCheckmate(Light):
		return DarkWins
	case b.IsCheckmate(Dark):
		return LightWins
	case b.IsStalemate(), b.IsFiftyMoveDraw():
		return Draw
	}
	return Undecided
}
