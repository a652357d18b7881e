package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// A pawn reaching its last rank branches once per promotion piece.
func Perft(b *Board, depth int) (int64, error) {
	if depth <= 0 {
		return 1, nil
	}

	var nodes int64
	side := b.sideToMove
	for _, from := range b.Pieces(side).Squares() {
		piece := b.squares[from]
		for _, to := range b.LegalMoves(from).Squares() {
			promotes := piece.Kind == Pawn && to.Rank() == side.LastRank()
			if depth == 1 {
				if promotes {
					nodes += int64(len(promotionKinds))
				} else {
					nodes++
				}
				continue
			}

			child := b.Clone()
			if err := child.ApplyMove(from, to); err != nil {
				return 0, err
			}
			if !promotes {
				n, err := Perft(child, depth-1)
				if err != nil {
					return 0, err
				}
				nodes += n
				continue
			}
			for _, p := range child.PromotablePieces(side) {
				promoted := child.Clone()
				if err := promoted.PromotePawn(p); err != nil {
					return 0, err
				}
				n, err := Perft(promoted, depth-1)
				if err != nil {
					return 0, err
				}
				nodes += n
			}
		}
	}
	return nodes, nil
}
