package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialized board layout:
//
//	<rank 8>/<rank 7>/.../<rank 1>,<side>,<plies>,<half-move clock>
//
// Each rank lists files a to h, one symbol per square: KQRBNP for Light,
// kqrbnp for Dark, '_' for an empty square. A king or rook that has moved is
// prefixed with '*'. The side is 'l' or 'd'.
const (
	movedMarker   = '*'
	rankSeparator = '/'
	fieldSep      = ","
)

// StartPosition is the serialized starting position.
const StartPosition = "rnbqkbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"

// Serialize returns the text form of the board. History records are not part
// of it.
func (b *Board) Serialize() string {
	var sb strings.Builder

	for rank := 8; rank >= 1; rank-- {
		for file := 1; file <= 8; file++ {
			p := b.squares[square(file, rank)]
			if p.IsEmpty() {
				sb.WriteByte(emptySymbol)
				continue
			}
			if p.Moved && (p.Kind == King || p.Kind == Rook) {
				sb.WriteByte(movedMarker)
			}
			sb.WriteByte(p.Symbol())
		}
		if rank > 1 {
			sb.WriteByte(rankSeparator)
		}
	}

	sb.WriteString(fieldSep)
	sb.WriteByte(sideCode(b.sideToMove))
	sb.WriteString(fieldSep)
	sb.WriteString(strconv.Itoa(b.plies))
	sb.WriteString(fieldSep)
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	return sb.String()
}

// Parse rebuilds a board from its serialized text.
func Parse(text string) (*Board, error) {
	fields := strings.Split(text, fieldSep)
	if len(fields) != 4 {
		return nil, invalid("need 4 fields, got %d", len(fields))
	}

	b := empty()
	if err := parseGrid(b, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "l":
		b.sideToMove = Light
	case "d":
		b.sideToMove = Dark
	default:
		return nil, invalid("side to move %q", fields[1])
	}

	var err error
	if b.plies, err = parseCount(fields[2]); err != nil {
		return nil, err
	}
	if b.halfMoveClock, err = parseCount(fields[3]); err != nil {
		return nil, err
	}

	if err := b.settle(); err != nil {
		return nil, err
	}
	b.recordPosition()
	return b, nil
}

// parseGrid fills the squares from the rank section.
func parseGrid(b *Board, grid string) error {
	ranks := strings.Split(grid, string(rankSeparator))
	if len(ranks) != 8 {
		return invalid("need 8 ranks, got %d", len(ranks))
	}

	for i, row := range ranks {
		rank := 8 - i
		file := 1
		moved := false

		for j := 0; j < len(row); j++ {
			c := row[j]
			if c == movedMarker {
				if moved {
					return invalid("repeated moved marker in rank %d", rank)
				}
				moved = true
				continue
			}
			if file > 8 {
				return invalid("too many squares in rank %d", rank)
			}
			if c == emptySymbol {
				if moved {
					return invalid("moved marker before empty square in rank %d", rank)
				}
				file++
				continue
			}

			p, ok := PieceFromSymbol(c)
			if !ok {
				return invalid("piece symbol %q", c)
			}
			if moved && p.Kind != King && p.Kind != Rook {
				return invalid("moved marker before %s", p.Kind)
			}
			p.Moved = moved
			moved = false
			b.put(square(file, rank), p)
			file++
		}

		if moved || file != 9 {
			return invalid("rank %d has %d squares", rank, file-1)
		}
	}
	return nil
}

// settle derives the state the text does not carry: pawn moved flags from
// their rank and a pending promotion from a pawn standing on its last rank.
// It then checks the board invariants.
func (b *Board) settle() error {
	if err := b.validate(); err != nil {
		return err
	}

	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p.Kind != Pawn {
			continue
		}
		b.squares[sq].Moved = sq.Rank() != p.Side.PawnRank()
		if sq.Rank() != p.Side.LastRank() {
			continue
		}
		if p.Side != b.sideToMove {
			return invalid("%s pawn on %s awaits promotion out of turn", p.Side, sq)
		}
		if b.promotion != NoSquare {
			return invalid("more than one pawn awaits promotion")
		}
		b.promotion = sq
	}
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, invalid("counter %q", s)
	}
	return n, nil
}

func sideCode(s Side) byte {
	if s == Light {
		return 'l'
	}
	return 'd'
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidBoardRepresentation}, args...)...)
}

// Restore parses a serialized board and reattaches its move history, so a
// double advance recorded last can still be answered en passant.
func Restore(text string, history []Move) (*Board, error) {
	b, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.DoubleAdvance && (last.Piece.Side == b.sideToMove || !b.isPawn(last.To, last.Piece.Side)) {
			return nil, invalid("history ends with %s which does not match the board", last)
		}
	}
	b.history = append([]Move(nil), history...)
	b.positions = nil
	b.recordPosition()
	return b, nil
}
