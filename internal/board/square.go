// Package board implements the chess rules core: board state, legal move
// generation, move application and game outcome.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from file and rank, both in [1,8].
func NewSquare(file, rank int) (Square, error) {
	if file < 1 || file > 8 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("%w: file %d rank %d", ErrOutOfBounds, file, rank)
	}
	return square(file, rank), nil
}

// square builds a square from coordinates already known to be in range.
func square(file, rank int) Square {
	return Square((rank-1)*8 + file - 1)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	return NewSquare(int(s[0]-'a')+1, int(s[1]-'1')+1)
}

// File returns the file of the square (1-8, where 1=a, 8=h).
func (sq Square) File() int {
	return int(sq)&7 + 1
}

// Rank returns the rank of the square (1-8).
func (sq Square) Rank() int {
	return int(sq)>>3 + 1
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File()-1, '0'+sq.Rank())
}

// Offset steps from sq by the vector. The second result is false when the
// step leaves the board; ray casts stop there.
func (sq Square) Offset(v Vector) (Square, bool) {
	if !sq.IsValid() {
		return NoSquare, false
	}
	file, rank := sq.File()+v.DF, sq.Rank()+v.DR
	if file < 1 || file > 8 || rank < 1 || rank > 8 {
		return NoSquare, false
	}
	return square(file, rank), true
}

// Vector is a movement direction in file/rank steps.
type Vector struct {
	DF, DR int
}

// Neg returns the opposite direction.
func (v Vector) Neg() Vector {
	return Vector{-v.DF, -v.DR}
}

// Orthogonal reports whether v moves along a file or rank.
func (v Vector) Orthogonal() bool {
	return (v.DF == 0) != (v.DR == 0)
}

// Diagonal reports whether v moves along a diagonal.
func (v Vector) Diagonal() bool {
	return v.DF != 0 && (v.DF == v.DR || v.DF == -v.DR)
}

// direction returns the unit step leading from one square to another when
// they share a file, rank or diagonal.
func direction(from, to Square) (Vector, bool) {
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	if from == to || (df != 0 && dr != 0 && df != dr && df != -dr) {
		return Vector{}, false
	}
	return Vector{sign(df), sign(dr)}, true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
