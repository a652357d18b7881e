package board

import "fmt"

// ApplyMove plays the piece on from to to. Nothing on the board changes when
// an error is returned.
//
// Castling is requested by moving the king two files toward the rook, en
// passant by moving the pawn diagonally onto the empty square behind the
// pawn that just advanced two squares. A pawn reaching its last rank leaves
// the turn with the mover until PromotePawn is called.
func (b *Board) ApplyMove(from, to Square) error {
	if sq, ok := b.PendingPromotion(); ok {
		return fmt.Errorf("%w: pawn on %s", ErrPromotionRequired, sq)
	}
	piece := b.PieceAt(from)
	if piece.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	if piece.Side != b.sideToMove {
		return fmt.Errorf("%w: %s piece on %s, %s to move", ErrWrongPlayer, piece.Side, from, b.sideToMove)
	}
	if outcome := b.Outcome(); outcome != Undecided {
		return fmt.Errorf("%w: %s", ErrGameAlreadyDecided, outcome)
	}
	if !b.LegalMoves(from).Has(to) {
		return fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}

	rec := Move{
		Piece:    piece,
		From:     from,
		To:       to,
		Capture:  !b.IsEmpty(to),
		Notation: b.notation(from, to),
	}

	switch piece.Kind {
	case Pawn:
		if from.File() != to.File() && b.IsEmpty(to) {
			// En passant: the captured pawn sits beside the mover, not on to.
			b.remove(square(to.File(), from.Rank()))
			rec.Capture = true
			rec.EnPassant = true
		}
		rec.DoubleAdvance = to.Rank()-from.Rank() == 2*piece.Side.Forward()
	case King:
		if df := to.File() - from.File(); df == 2 || df == -2 {
			rookFrom, rookTo := square(8, from.Rank()), square(to.File()-1, from.Rank())
			if df < 0 {
				rookFrom, rookTo = square(1, from.Rank()), square(to.File()+1, from.Rank())
			}
			b.relocate(rookFrom, rookTo)
			rec.Castle = true
		}
	}

	b.remove(to)
	b.relocate(from, to)

	if rec.Capture || piece.Kind == Pawn {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	b.plies++

	if piece.Kind == Pawn && to.Rank() == piece.Side.LastRank() {
		b.promotion = to
	} else {
		b.sideToMove = b.sideToMove.Other()
		rec.Notation += b.checkSuffix()
	}
	b.history = append(b.history, rec)
	if b.promotion == NoSquare {
		b.recordPosition()
	}
	return nil
}

// PromotePawn replaces the pawn waiting on its last rank with p and passes
// the turn. p must be a queen, rook, bishop or knight of the pawn's side.
func (b *Board) PromotePawn(p Piece) error {
	sq, ok := b.PendingPromotion()
	if !ok {
		return ErrNoPawnToPromote
	}
	pawn := b.squares[sq]
	if !isPromotionKind(p.Kind) || p.Side != pawn.Side {
		return fmt.Errorf("%w: %s %s", ErrInvalidPromotionPiece, p.Side, p.Kind)
	}

	b.put(sq, Piece{Kind: p.Kind, Side: p.Side, Moved: tracksMoved(p.Kind)})
	b.promotion = NoSquare
	b.sideToMove = b.sideToMove.Other()

	if n := len(b.history); n > 0 && b.history[n-1].To == sq {
		last := &b.history[n-1]
		last.Promotion = p.Kind
		last.Notation += "=" + string(NewPiece(p.Kind, Light).Symbol()) + b.checkSuffix()
	}
	b.recordPosition()
	return nil
}

// PromotablePieces lists the pieces the side may promote its waiting pawn to.
// The list is empty when the side has no pawn waiting.
func (b *Board) PromotablePieces(s Side) []Piece {
	sq, ok := b.PendingPromotion()
	if !ok || b.squares[sq].Side != s {
		return nil
	}
	pieces := make([]Piece, 0, len(promotionKinds))
	for _, k := range promotionKinds {
		pieces = append(pieces, NewPiece(k, s))
	}
	return pieces
}

func isPromotionKind(k Kind) bool {
	for _, pk := range promotionKinds {
		if k == pk {
			return true
		}
	}
	return false
}

// tracksMoved reports whether the "moved" flag carries meaning for the kind:
// castling rights for kings and rooks, the double advance for pawns.
func tracksMoved(k Kind) bool {
	return k == King || k == Rook || k == Pawn
}
