// Package console implements a line-oriented text protocol driving one board.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessrules/internal/board"
)

// Console reads commands and writes replies for a single game.
type Console struct {
	board *board.Board
	out   io.Writer
}

// New creates a console at the starting position writing to out.
func New(out io.Writer) *Console {
	return &Console{
		board: board.New(),
		out:   out,
	}
}

// Board returns the current board.
func (c *Console) Board() *board.Board {
	return c.board
}

// Run processes commands from in until "quit" or end of input.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		if cmd == "quit" {
			return nil
		}
		if err := c.Execute(cmd, args); err != nil {
			c.printError(err)
		}
	}
	return scanner.Err()
}

// Execute runs one command.
func (c *Console) Execute(cmd string, args []string) error {
	switch cmd {
	case "new":
		c.board = board.New()
		c.println("ok")
	case "load":
		return c.handleLoad(args)
	case "fen":
		return c.handleFEN(args)
	case "position":
		return c.handlePosition(args)
	case "d":
		c.println(c.board.String())
	case "serialize":
		c.println(c.board.Serialize())
	case "tofen":
		c.println(c.board.ToFEN())
	case "legal":
		return c.handleLegal(args)
	case "move":
		return c.handleMove(args)
	case "san":
		return c.handleSAN(args)
	case "promote":
		return c.handlePromote(args)
	case "status":
		c.handleStatus()
	case "history":
		c.handleHistory()
	case "perft":
		return c.handlePerft(args)
	case "help":
		c.println(helpText)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

const helpText = `commands:
  new                        start position
  load <text>                serialized board
  fen <fen>                  FEN position
  position startpos|fen <fen> [moves <m>...]
  d                          print board
  serialize | tofen          print position
  legal <sq>                 destinations of the piece on sq
  move <from> <to> | <e2e4>  play a move
  san <Nf3>                  play a move in SAN
  promote <q|r|b|n>          replace the waiting pawn
  status | history
  perft <depth>
  quit`

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// printError reports err by its rule name when it has one.
func (c *Console) printError(err error) {
	if name := board.ErrorName(err); name != "" {
		fmt.Fprintf(c.out, "error: %s (%v)\n", name, err)
		return
	}
	fmt.Fprintf(c.out, "error: %v\n", err)
}

func (c *Console) handleLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <serialized board>")
	}
	b, err := board.Parse(args[0])
	if err != nil {
		return err
	}
	c.board = b
	c.println("ok")
	return nil
}

func (c *Console) handleFEN(args []string) error {
	b, err := board.ParseFEN(strings.Join(args, " "))
	if err != nil {
		return err
	}
	c.board = b
	c.println("ok")
	return nil
}

// handlePosition sets up a position and plays moves on it.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (c *Console) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: position startpos|fen <fen> [moves ...]")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}
	setup, moves := args[:movesAt], []string(nil)
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.New()
	case "fen":
		var err error
		if b, err = board.ParseFEN(strings.Join(setup[1:], " ")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown position %q", args[0])
	}

	for _, m := range moves {
		if err := playCoordinate(b, m); err != nil {
			return fmt.Errorf("move %s: %w", m, err)
		}
	}
	c.board = b
	c.println("ok")
	return nil
}

// playCoordinate applies a move such as "e2e4" or "e7e8q".
func playCoordinate(b *board.Board, m string) error {
	if len(m) != 4 && len(m) != 5 {
		return fmt.Errorf("%w: %q", board.ErrOutOfBounds, m)
	}
	from, err := board.ParseSquare(m[:2])
	if err != nil {
		return err
	}
	to, err := board.ParseSquare(m[2:4])
	if err != nil {
		return err
	}
	if err := b.ApplyMove(from, to); err != nil {
		return err
	}
	if len(m) == 5 {
		k, ok := board.ParseKind(m[4:])
		if !ok {
			return fmt.Errorf("%w: %q", board.ErrInvalidPromotionPiece, m[4:])
		}
		return b.PromotePawn(board.NewPiece(k, b.SideToMove()))
	}
	return nil
}

func (c *Console) handleLegal(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: legal <square>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}
	c.println(c.board.LegalMoves(sq).String())
	return nil
}

func (c *Console) handleMove(args []string) error {
	var m string
	switch len(args) {
	case 1:
		m = args[0]
	case 2:
		m = args[0] + args[1]
	default:
		return errors.New("usage: move <from> <to>")
	}

	// Applied on a copy so a bad promotion suffix leaves the game untouched.
	next := c.board.Clone()
	if err := playCoordinate(next, m); err != nil {
		return err
	}
	c.board = next
	c.reportLastMove()
	return nil
}

func (c *Console) handleSAN(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: san <move>")
	}
	from, to, promo, err := c.board.ParseSAN(args[0])
	if err != nil {
		return err
	}

	next := c.board.Clone()
	if err := next.ApplyMove(from, to); err != nil {
		return err
	}
	if promo != board.NoKind {
		if err := next.PromotePawn(board.NewPiece(promo, next.SideToMove())); err != nil {
			return err
		}
	}
	c.board = next
	c.reportLastMove()
	return nil
}

func (c *Console) handlePromote(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: promote <q|r|b|n>")
	}
	k, ok := board.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", board.ErrInvalidPromotionPiece, args[0])
	}
	if err := c.board.PromotePawn(board.NewPiece(k, c.board.SideToMove())); err != nil {
		return err
	}
	c.reportLastMove()
	return nil
}

// reportLastMove prints the notation of the last move and what happens next.
func (c *Console) reportLastMove() {
	history := c.board.History()
	last := history[len(history)-1]
	if sq, ok := c.board.PendingPromotion(); ok {
		fmt.Fprintf(c.out, "ok %s promote %s\n", last.Notation, sq)
		return
	}
	if outcome := c.board.Outcome(); outcome != board.Undecided {
		fmt.Fprintf(c.out, "ok %s %s\n", last.Notation, outcome)
		return
	}
	fmt.Fprintf(c.out, "ok %s\n", last.Notation)
}

func (c *Console) handleStatus() {
	b := c.board
	side := b.SideToMove()
	fmt.Fprintf(c.out, "side: %s\n", side)
	fmt.Fprintf(c.out, "check: %v\n", b.IsCheck(side))
	if sq, ok := b.PendingPromotion(); ok {
		fmt.Fprintf(c.out, "promotion: %s\n", sq)
	}
	fmt.Fprintf(c.out, "halfmove clock: %d\n", b.HalfMoveClock())
	fmt.Fprintf(c.out, "plies: %d\n", b.Plies())
	fmt.Fprintf(c.out, "repetitions: %d\n", b.RepetitionCount())
	fmt.Fprintf(c.out, "outcome: %s\n", b.Outcome())
}

func (c *Console) handleHistory() {
	history := c.board.History()
	if len(history) == 0 {
		c.println("(no moves)")
		return
	}
	var sb strings.Builder
	for i, m := range history {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.Notation)
	}
	c.println(sb.String())
}

// handlePerft runs a perft test.
func (c *Console) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		var err error
		if depth, err = strconv.Atoi(args[0]); err != nil || depth < 1 {
			return fmt.Errorf("bad depth %q", args[0])
		}
	}

	start := time.Now()
	nodes, err := board.Perft(c.board, depth)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(c.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(c.out, "NPS: %.0f\n", nps)
	}
	return nil
}
