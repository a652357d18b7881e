package board

// LegalMoves returns every legal destination of the piece on sq, captures
// included.
func (b *Board) LegalMoves(sq Square) SquareSet {
	moves, attacks := b.MovesAndAttacks(sq)
	return moves | attacks
}

// MovesAndAttacks returns the legal destinations of the piece on sq split into
// quiet moves and captures. En passant captures are reported as attacks.
// An empty square yields two empty sets.
func (b *Board) MovesAndAttacks(sq Square) (moves, attacks SquareSet) {
	p := b.PieceAt(sq)
	switch p.Kind {
	case NoKind:
		return 0, 0
	case King:
		return b.kingMoves(sq, p)
	case Pawn:
		moves, attacks = b.pawnMoves(sq, p)
	default:
		moves, attacks = b.cast(sq, p, pinFilter(p.Kind.Vectors(p.Side), b.Pinned(sq)))
	}
	return b.restrictToCheck(p.Side, moves, attacks)
}

// HasLegalMove reports whether any piece of the side can move.
func (b *Board) HasLegalMove(s Side) bool {
	for _, sq := range b.Pieces(s).Squares() {
		if !b.LegalMoves(sq).IsEmpty() {
			return true
		}
	}
	return false
}

// cast walks each vector up to the piece's step limit. Empty squares are
// moves; the first occupied square ends the ray and counts as an attack when
// it holds an enemy.
func (b *Board) cast(from Square, p Piece, vectors []Vector) (moves, attacks SquareSet) {
	for _, v := range vectors {
		sq := from
		for step := 0; step < p.Kind.Limit(); step++ {
			next, ok := sq.Offset(v)
			if !ok {
				break
			}
			sq = next
			q := b.squares[sq]
			if q.IsEmpty() {
				moves = moves.Add(sq)
				continue
			}
			if q.Side != p.Side {
				attacks = attacks.Add(sq)
			}
			break
		}
	}
	return moves, attacks
}

// pinFilter keeps only the vectors lying on the pin axis.
func pinFilter(vectors, pin []Vector) []Vector {
	if len(pin) == 0 {
		return vectors
	}
	kept := make([]Vector, 0, len(pin))
	for _, v := range vectors {
		if onAxis(pin, v) {
			kept = append(kept, v)
		}
	}
	return kept
}

func onAxis(pin []Vector, v Vector) bool {
	if len(pin) == 0 {
		return true
	}
	for _, a := range pin {
		if a == v {
			return true
		}
	}
	return false
}

// restrictToCheck limits a non-king piece to answers to check: with a single
// checker it may capture the checker or step between it and the king; with
// two checkers it cannot move at all.
func (b *Board) restrictToCheck(s Side, moves, attacks SquareSet) (SquareSet, SquareSet) {
	checkers := b.Checkers(s)
	switch checkers.Len() {
	case 0:
		return moves, attacks
	case 1:
		checker := checkers.First()
		block := between(b.kings[s], checker)
		allowed := block.Add(checker)
		// A checking pawn that just advanced two squares can also be taken en passant.
		if last, ok := b.lastMove(); ok && last.DoubleAdvance && last.To == checker {
			allowed = allowed.Add(square(checker.File(), checker.Rank()+s.Forward()))
		}
		return moves & block, attacks & allowed
	default:
		return 0, 0
	}
}

// pawnMoves generates pushes, diagonal captures and en passant for the pawn
// on sq, honouring a pin. A pawn pinned along its rank gets nothing, along its
// file keeps its pushes, along a diagonal keeps only the capture on that
// diagonal.
func (b *Board) pawnMoves(sq Square, p Piece) (moves, attacks SquareSet) {
	pin := b.Pinned(sq)
	fwd := pawnForward[p.Side][0]

	if onAxis(pin, fwd) {
		if one, ok := sq.Offset(fwd); ok && b.IsEmpty(one) {
			moves = moves.Add(one)
			if !p.Moved && sq.Rank() == p.Side.PawnRank() {
				if two, ok := one.Offset(fwd); ok && b.IsEmpty(two) {
					moves = moves.Add(two)
				}
			}
		}
	}

	for _, v := range pawnCapture[p.Side] {
		if !onAxis(pin, v) {
			continue
		}
		to, ok := sq.Offset(v)
		if !ok {
			continue
		}
		if q := b.squares[to]; !q.IsEmpty() && q.Side != p.Side {
			attacks = attacks.Add(to)
		}
	}

	if to, ok := b.enPassantTarget(sq, p, pin); ok {
		attacks = attacks.Add(to)
	}
	return moves, attacks
}

// enPassantTarget returns the landing square of an en passant capture by the
// pawn on sq, if the previous move allows one.
func (b *Board) enPassantTarget(sq Square, p Piece, pin []Vector) (Square, bool) {
	last, ok := b.lastMove()
	if !ok || !last.DoubleAdvance || last.Piece.Side == p.Side {
		return NoSquare, false
	}
	victim := last.To
	df := victim.File() - sq.File()
	if victim.Rank() != sq.Rank() || (df != 1 && df != -1) || !b.isPawn(victim, p.Side.Other()) {
		return NoSquare, false
	}
	if !onAxis(pin, Vector{df, p.Side.Forward()}) {
		return NoSquare, false
	}
	if b.exposesAlongRank(sq, victim, p.Side) {
		return NoSquare, false
	}
	return square(victim.File(), sq.Rank()+p.Side.Forward()), true
}

// exposesAlongRank reports whether removing both pawns of an en passant
// capture from the rank would leave side's king facing an enemy rook or queen
// along it.
func (b *Board) exposesAlongRank(a, c Square, s Side) bool {
	lo, hi := a, c
	if lo.File() > hi.File() {
		lo, hi = hi, lo
	}
	_, left := b.firstWithin(lo, Vector{-1, 0}, 7)
	_, right := b.firstWithin(hi, Vector{1, 0}, 7)

	ownKing := func(q Piece) bool { return q.Kind == King && q.Side == s }
	slider := func(q Piece) bool { return q.Side != s && (q.Kind == Rook || q.Kind == Queen) }
	return (ownKing(left) && slider(right)) || (slider(left) && ownKing(right))
}

// kingMoves generates king steps and castling, then drops every destination
// that is attacked or that stays in the line of a checking slider.
func (b *Board) kingMoves(sq Square, p Piece) (moves, attacks SquareSet) {
	moves, attacks = b.cast(sq, p, p.Kind.Vectors(p.Side))
	moves |= b.castlingMoves(sq, p)

	// Stepping straight back from a slider keeps the king on the checking
	// line; that square is not attacked yet only because the king shields it.
	var fire SquareSet
	for _, c := range b.Checkers(p.Side).Squares() {
		if !b.squares[c].Kind.Slides() {
			continue
		}
		if d, ok := direction(c, sq); ok {
			if behind, ok := sq.Offset(d); ok {
				fire = fire.Add(behind)
			}
		}
	}

	enemy := p.Side.Other()
	safe := func(set SquareSet) SquareSet {
		for _, to := range set.Squares() {
			if fire.Has(to) || b.IsAttacked(to, enemy) {
				set = set.Remove(to)
			}
		}
		return set
	}
	return safe(moves), safe(attacks)
}

// castlingMoves returns the castling destinations of an unmoved king on its
// home square: two files toward an unmoved rook in the corner, with nothing
// in between and no attacked square on the king's path.
func (b *Board) castlingMoves(sq Square, p Piece) SquareSet {
	var set SquareSet
	if p.Moved || sq != square(5, p.Side.HomeRank()) {
		return set
	}
	enemy := p.Side.Other()
	if b.IsAttacked(sq, enemy) {
		return set
	}
	for _, v := range []Vector{{1, 0}, {-1, 0}} {
		rookSq, rook := b.firstWithin(sq, v, 7)
		if rook.Kind != Rook || rook.Side != p.Side || rook.Moved {
			continue
		}
		if f := rookSq.File(); f != 1 && f != 8 {
			continue
		}
		transit, _ := sq.Offset(v)
		dest, _ := transit.Offset(v)
		if b.IsAttacked(transit, enemy) || b.IsAttacked(dest, enemy) {
			continue
		}
		set = set.Add(dest)
	}
	return set
}
