package board

import (
	"fmt"
	"strings"
)

// notation returns the Standard Algebraic Notation of a legal move, without
// the promotion piece and the check marker, which are only known later.
func (b *Board) notation(from, to Square) string {
	piece := b.squares[from]

	if piece.Kind == King {
		switch to.File() - from.File() {
		case 2:
			return "O-O"
		case -2:
			return "O-O-O"
		}
	}

	var sb strings.Builder
	if piece.Kind != Pawn {
		sb.WriteByte(NewPiece(piece.Kind, Light).Symbol())
		sb.WriteString(b.disambiguation(from, to))
	}

	capture := !b.IsEmpty(to) || (piece.Kind == Pawn && from.File() != to.File())
	if capture {
		if piece.Kind == Pawn {
			// Pawn captures include the file of origin
			sb.WriteByte(byte('a' + from.File() - 1))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	return sb.String()
}

// disambiguation returns the file, rank or full square needed to tell the
// piece on from apart from same-kind pieces that can also reach to.
func (b *Board) disambiguation(from, to Square) string {
	piece := b.squares[from]
	sameFile, sameRank, others := false, false, false

	for _, sq := range b.Pieces(piece.Side).Squares() {
		if sq == from || b.squares[sq].Kind != piece.Kind || !b.LegalMoves(sq).Has(to) {
			continue
		}
		others = true
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !others:
		return ""
	case !sameFile:
		return string(rune('a' + from.File() - 1))
	case !sameRank:
		return string(rune('0' + from.Rank()))
	}
	return from.String()
}

// checkSuffix returns "#" or "+" when the side to move is mated or checked.
func (b *Board) checkSuffix() string {
	s := b.sideToMove
	switch {
	case b.IsCheckmate(s):
		return "#"
	case b.IsCheck(s):
		return "+"
	}
	return ""
}

// ParseSAN resolves a SAN string against the legal moves of the side to move.
// The promotion kind is NoKind unless the text carries one ("e8=Q").
func (b *Board) ParseSAN(s string) (from, to Square, promo Kind, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	side := b.sideToMove
	home := side.HomeRank()

	switch s {
	case "O-O", "0-0":
		return square(5, home), square(7, home), NoKind, b.checkLegal(square(5, home), square(7, home), s)
	case "O-O-O", "0-0-0":
		return square(5, home), square(3, home), NoKind, b.checkLegal(square(5, home), square(3, home), s)
	}

	// Parse promotion
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		p, ok := PieceFromSymbol(s[idx+1])
		if !ok || !isPromotionKind(p.Kind) {
			return NoSquare, NoSquare, NoKind, fmt.Errorf("%w: %q", ErrInvalidPromotionPiece, s)
		}
		promo = p.Kind
		s = s[:idx]
	}

	s = strings.ReplaceAll(s, "x", "")

	// Determine piece kind
	kind := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		p, ok := PieceFromSymbol(s[0])
		if !ok {
			return NoSquare, NoSquare, NoKind, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
		kind = p.Kind
		s = s[1:]
	}

	if len(s) < 2 {
		return NoSquare, NoSquare, NoKind, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	to, err = ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoSquare, NoSquare, NoKind, err
	}

	// Parse disambiguation (file, rank, or both)
	file, rank := 0, 0
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c-'a') + 1
		case c >= '1' && c <= '8':
			rank = int(c-'1') + 1
		}
	}

	for _, sq := range b.Pieces(side).Squares() {
		if b.squares[sq].Kind != kind {
			continue
		}
		if (file != 0 && sq.File() != file) || (rank != 0 && sq.Rank() != rank) {
			continue
		}
		if b.LegalMoves(sq).Has(to) {
			return sq, to, promo, nil
		}
	}
	return NoSquare, NoSquare, NoKind, fmt.Errorf("%w: no %s can reach %s", ErrIllegalMove, kind, to)
}

func (b *Board) checkLegal(from, to Square, text string) error {
	if !b.LegalMoves(from).Has(to) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, text)
	}
	return nil
}
