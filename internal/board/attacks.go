package board

// phantomKinds are the kinds probed from the target square. A phantom piece
// of a kind standing on the target reaches exactly the squares from which a
// real piece of that kind attacks the target.
var phantomKinds = [5]Kind{Knight, Bishop, Rook, Queen, King}

// Attackers returns the squares of side's pieces that could capture a piece
// standing on target.
//
// In blocker mode the result answers "which pieces could move onto target"
// instead: pawns are matched by their straight pushes (single, or double from
// the starting rank) and the king is left out, since it cannot interpose.
// Blocker mode is only meaningful for an empty target.
func (b *Board) Attackers(target Square, side Side, blockers bool) SquareSet {
	var set SquareSet
	if !target.IsValid() {
		return set
	}

	for _, k := range phantomKinds {
		if blockers && k == King {
			continue
		}
		for _, v := range k.Vectors(side) {
			sq, p := b.firstWithin(target, v, k.Limit())
			if p.Kind == k && p.Side == side {
				set = set.Add(sq)
			}
		}
	}

	// Pawns attack diagonally but move straight, so they are looked up directly,
	// one rank behind the target from side's point of view.
	back := -side.Forward()
	if !blockers {
		for _, df := range []int{-1, 1} {
			if sq, ok := target.Offset(Vector{df, back}); ok && b.isPawn(sq, side) {
				set = set.Add(sq)
			}
		}
		return set
	}

	one, ok := target.Offset(Vector{0, back})
	if !ok {
		return set
	}
	if b.isPawn(one, side) {
		return set.Add(one)
	}
	if b.IsEmpty(one) {
		two, ok := one.Offset(Vector{0, back})
		if ok && b.isPawn(two, side) && !b.squares[two].Moved && two.Rank() == side.PawnRank() {
			set = set.Add(two)
		}
	}
	return set
}

// Checkers returns the enemy pieces currently giving check to side's king.
func (b *Board) Checkers(s Side) SquareSet {
	return b.Attackers(b.kings[s], s.Other(), false)
}

// IsAttacked reports whether any piece of side attacks sq.
func (b *Board) IsAttacked(sq Square, by Side) bool {
	return !b.Attackers(sq, by, false).IsEmpty()
}

// Pinned returns the axis a piece pinned to its own king may still move
// along, as the pin direction and its negation. A piece that is not pinned
// gets an empty result.
func (b *Board) Pinned(sq Square) []Vector {
	p := b.PieceAt(sq)
	if p.IsEmpty() || p.Kind == King {
		return nil
	}
	king := b.kings[p.Side]
	d, ok := direction(king, sq)
	if !ok {
		return nil
	}

	first, _ := b.firstWithin(king, d, 7)
	if first != sq {
		return nil
	}
	_, beyond := b.firstWithin(sq, d, 7)
	if !beyond.IsEmpty() && beyond.Side != p.Side && beyond.Kind.movesAlong(d) {
		return []Vector{d, d.Neg()}
	}
	return nil
}

// firstWithin walks from (but not including) from along v for at most limit
// steps and returns the first occupied square with its piece. NoSquare and
// NoPiece are returned when the walk leaves the board or runs out of steps.
func (b *Board) firstWithin(from Square, v Vector, limit int) (Square, Piece) {
	sq := from
	for step := 0; step < limit; step++ {
		next, ok := sq.Offset(v)
		if !ok {
			break
		}
		sq = next
		if p := b.squares[sq]; !p.IsEmpty() {
			return sq, p
		}
	}
	return NoSquare, NoPiece
}

// between returns the squares strictly between two squares on a shared line.
func between(a, c Square) SquareSet {
	var set SquareSet
	d, ok := direction(a, c)
	if !ok {
		return set
	}
	for sq, _ := a.Offset(d); sq != c; sq, _ = sq.Offset(d) {
		set = set.Add(sq)
	}
	return set
}

func (b *Board) isPawn(sq Square, s Side) bool {
	p := b.squares[sq]
	return p.Kind == Pawn && p.Side == s
}
