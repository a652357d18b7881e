package board

import "errors"

var (
	ErrOutOfBounds                = errors.New("out of bounds")
	ErrInvalidBoardRepresentation = errors.New("invalid board representation")
	ErrEmptySquare                = errors.New("empty square")
	ErrWrongPlayer                = errors.New("wrong player")
	ErrIllegalMove                = errors.New("illegal move")
	ErrPromotionRequired          = errors.New("promotion required")
	ErrNoPawnToPromote            = errors.New("no pawn to promote")
	ErrInvalidPromotionPiece      = errors.New("invalid promotion piece")
	ErrGameAlreadyDecided         = errors.New("game already decided")
)

var errorNames = []struct {
	err  error
	name string
}{
	{ErrOutOfBounds, "OutOfBounds"},
	{ErrInvalidBoardRepresentation, "InvalidBoardRepresentation"},
	{ErrEmptySquare, "EmptySquare"},
	{ErrWrongPlayer, "WrongPlayer"},
	{ErrIllegalMove, "IllegalMove"},
	{ErrPromotionRequired, "PromotionRequired"},
	{ErrNoPawnToPromote, "NoPawnToPromote"},
	{ErrInvalidPromotionPiece, "InvalidPromotionPiece"},
	{ErrGameAlreadyDecided, "GameAlreadyDecided"},
}

// ErrorName returns the short name of the rule violation err wraps, such as
// "IllegalMove", or "" if err is not one of this package's errors.
func ErrorName(err error) string {
	for _, e := range errorNames {
		if errors.Is(err, e.err) {
			return e.name
		}
	}
	return ""
}
