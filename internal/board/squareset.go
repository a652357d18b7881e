package board

import (
	"math/bits"
	"strings"
)

// SquareSet is a set of squares with one bit per square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8.
type SquareSet uint64

// SetOf builds a set from the given squares.
func SetOf(squares ...Square) SquareSet {
	var s SquareSet
	for _, sq := range squares {
		s = s.Add(sq)
	}
	return s
}

// Add returns the set with sq included.
func (s SquareSet) Add(sq Square) SquareSet {
	if !sq.IsValid() {
		return s
	}
	return s | 1<<sq
}

// Remove returns the set without sq.
func (s SquareSet) Remove(sq Square) SquareSet {
	if !sq.IsValid() {
		return s
	}
	return s &^ (1 << sq)
}

// Has returns true if sq is in the set.
func (s SquareSet) Has(sq Square) bool {
	return sq.IsValid() && s&(1<<sq) != 0
}

// Len returns the number of squares in the set.
func (s SquareSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IsEmpty returns true if no square is set.
func (s SquareSet) IsEmpty() bool {
	return s == 0
}

// First returns the lowest square in the set, or NoSquare.
func (s SquareSet) First() Square {
	if s == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(s)))
}

// Squares returns the set members in ascending order.
func (s SquareSet) Squares() []Square {
	squares := make([]Square, 0, s.Len())
	for s != 0 {
		sq := s.First()
		squares = append(squares, sq)
		s &= s - 1
	}
	return squares
}

// String lists the squares, e.g. "e3 e4".
func (s SquareSet) String() string {
	names := make([]string, 0, s.Len())
	for _, sq := range s.Squares() {
		names = append(names, sq.String())
	}
	return strings.Join(names, " ")
}
