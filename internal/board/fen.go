package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board.
//
// Castling rights become moved flags: a king or corner rook keeps its
// unmoved status only if a right names it. An en passant target is recorded
// as a double pawn advance in the history so it can be captured next move.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrInvalidBoardRepresentation, len(parts))
	}

	b := empty()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		b.sideToMove = Light
	case "b":
		b.sideToMove = Dark
	default:
		return nil, invalid("FEN side to move %q", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(b, parts[2]); err != nil {
		return nil, err
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, invalid("FEN half-move clock %q", parts[4])
		}
		b.halfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	fullMove := 1
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, invalid("FEN full-move number %q", parts[5])
		}
		fullMove = fmn
	}
	b.plies = (fullMove - 1) * 2
	if b.sideToMove == Dark {
		b.plies++
	}

	if err := b.settle(); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		if err := setEnPassant(b, parts[3]); err != nil {
			return nil, err
		}
	}
	b.recordPosition()
	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return invalid("FEN needs 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 8 - i // FEN starts from rank 8
		file := 1

		for _, c := range rankStr {
			if file > 8 {
				return invalid("too many squares in rank %d", rank)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				file += int(c - '0')
				continue
			}
			p, ok := PieceFromSymbol(byte(c))
			if !ok {
				return invalid("FEN piece character %q", c)
			}
			// Kings and rooks count as moved unless a castling right says otherwise.
			p.Moved = p.Kind == King || p.Kind == Rook
			b.put(square(file, rank), p)
			file++
		}

		if file != 9 {
			return invalid("rank %d has %d squares", rank, file-1)
		}
	}
	return nil
}

// parseCastlingRights clears the moved flags of the king and rook each
// right refers to.
func parseCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		var s Side
		var rookFile int
		switch c {
		case 'K':
			s, rookFile = Light, 8
		case 'Q':
			s, rookFile = Light, 1
		case 'k':
			s, rookFile = Dark, 8
		case 'q':
			s, rookFile = Dark, 1
		default:
			return invalid("FEN castling character %q", c)
		}
		king, rook := square(5, s.HomeRank()), square(rookFile, s.HomeRank())
		kp, rp := b.squares[king], b.squares[rook]
		if kp.Kind != King || kp.Side != s || rp.Kind != Rook || rp.Side != s {
			return invalid("castling right %q without king and rook in place", c)
		}
		b.squares[king].Moved = false
		b.squares[rook].Moved = false
	}
	return nil
}

// setEnPassant records the double advance that produced the target square.
func setEnPassant(b *Board, target string) error {
	sq, err := ParseSquare(target)
	if err != nil {
		return invalid("FEN en passant square %q", target)
	}
	mover := b.sideToMove.Other()
	to, ok1 := sq.Offset(Vector{0, mover.Forward()})
	from, ok2 := sq.Offset(Vector{0, -mover.Forward()})
	if !ok1 || !ok2 || !b.isPawn(to, mover) || !b.IsEmpty(sq) || !b.IsEmpty(from) {
		return invalid("FEN en passant square %s without a pawn that just advanced", sq)
	}
	b.history = append(b.history, Move{
		Piece:         NewPiece(Pawn, mover),
		From:          from,
		To:            to,
		DoubleAdvance: true,
		Notation:      to.String(),
	})
	return nil
}

// ToFEN returns the FEN representation of the board.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 8; rank >= 1; rank-- {
		empty := 0
		for file := 1; file <= 8; file++ {
			p := b.squares[square(file, rank)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 1 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	if b.sideToMove == Light {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	// Castling rights
	sb.WriteString(b.castlingRights())

	// En passant
	sb.WriteByte(' ')
	if last, ok := b.lastMove(); ok && last.DoubleAdvance {
		mid, _ := last.From.Offset(Vector{0, last.Piece.Side.Forward()})
		sb.WriteString(mid.String())
	} else {
		sb.WriteByte('-')
	}

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.plies/2 + 1))

	return sb.String()
}

// castlingRights derives the FEN castling field from the moved flags.
func (b *Board) castlingRights() string {
	s := ""
	for _, side := range []Side{Light, Dark} {
		home := side.HomeRank()
		king := b.squares[square(5, home)]
		if king.Kind != King || king.Side != side || king.Moved {
			continue
		}
		for _, r := range []struct {
			file int
			char byte
		}{{8, 'K'}, {1, 'Q'}} {
			rook := b.squares[square(r.file, home)]
			if rook.Kind != Rook || rook.Side != side || rook.Moved {
				continue
			}
			c := r.char
			if side == Dark {
				c += 'a' - 'A'
			}
			s += string(c)
		}
	}
	if s == "" {
		return "-"
	}
	return s
}
