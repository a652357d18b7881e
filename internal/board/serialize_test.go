package board

import (
	"errors"
	"testing"
)

// sameBoard compares everything the serialized form carries.
func sameBoard(t *testing.T, got, want *Board) {
	t.Helper()
	if got.squares != want.squares {
		t.Errorf("squares differ:\n%s\nwant:\n%s", got, want)
	}
	if got.sideToMove != want.sideToMove {
		t.Errorf("side to move = %s, want %s", got.sideToMove, want.sideToMove)
	}
	if got.promotion != want.promotion {
		t.Errorf("pending promotion = %s, want %s", got.promotion, want.promotion)
	}
	if got.plies != want.plies || got.halfMoveClock != want.halfMoveClock {
		t.Errorf("counters = %d/%d, want %d/%d", got.plies, got.halfMoveClock, want.plies, want.halfMoveClock)
	}
	if got.kings != want.kings {
		t.Errorf("kings = %v, want %v", got.kings, want.kings)
	}
}

func TestSerializeStartPosition(t *testing.T) {
	if got := New().Serialize(); got != StartPosition {
		t.Errorf("Serialize() = %q, want %q", got, StartPosition)
	}
	sameBoard(t, mustParse(t, StartPosition), New())
}

func TestSerializeAfterMoves(t *testing.T) {
	b := New()
	play(t, b, "e2e4")
	want := "rnbqkbnr/pppppppp/________/________/____P___/________/PPPP_PPP/RNBQKBNR,d,1,0"
	if got := b.Serialize(); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}

	play(t, b, "e7e5", "g1f3", "b8c6", "e1e2", "a8b8")
	want = "_*rbqkbnr/pppp_ppp/__n_____/____p___/____P___/_____N__/PPPP*KPPP/RNBQ_B_R,l,6,4"
	if got := b.Serialize(); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	boards := map[string]*Board{
		"start": New(),
	}

	b := New()
	play(t, b, "e2e4", "d7d5", "e4d5", "g8f6", "f1b5", "c7c6", "g1f3", "c6b5", "e1g1")
	boards["castled"] = b

	b = mustParse(t, "_______k/_P______/________/________/________/________/________/K_______,l,40,3")
	play(t, b, "b7b8")
	boards["pending promotion"] = b

	for name, b := range boards {
		t.Run(name, func(t *testing.T) {
			text := b.Serialize()
			decoded := mustParse(t, text)
			sameBoard(t, decoded, b)
			if again := decoded.Serialize(); again != text {
				t.Errorf("round trip changed text:\n%s\n%s", text, again)
			}
		})
	}
}

func TestParseRestoresPendingPromotion(t *testing.T) {
	b := mustParse(t, "_Q_____k/________/________/________/________/________/_____p__/K_______,d,81,0")
	if _, ok := b.PendingPromotion(); ok {
		t.Fatal("no pawn on its last rank, nothing should be pending")
	}

	b = mustParse(t, "_______k/________/________/________/________/________/________/K____p__,d,81,0")
	sq, ok := b.PendingPromotion()
	if !ok || sq != F1 {
		t.Fatalf("PendingPromotion() = %s, %v, want f1, true", sq, ok)
	}
	if err := b.ApplyMove(H8, G8); !errors.Is(err, ErrPromotionRequired) {
		t.Errorf("ApplyMove error = %v, want %v", err, ErrPromotionRequired)
	}
	if err := b.PromotePawn(NewPiece(Queen, Dark)); err != nil {
		t.Fatalf("PromotePawn: %v", err)
	}
	if got := b.SideToMove(); got != Light {
		t.Errorf("side to move after promotion = %s, want Light", got)
	}
}

func TestParseMovedFlags(t *testing.T) {
	b := mustParse(t, "r___k__*r/________/________/________/___P____/________/P_______/*R___*K___,l,10,2")

	tests := []struct {
		square string
		moved  bool
	}{
		{"a8", false},
		{"e8", false},
		{"h8", true},
		{"a1", true},
		{"e1", true},
		{"d4", true},
		{"a2", false},
	}
	for _, tc := range tests {
		if got := b.PieceAt(sq(t, tc.square)).Moved; got != tc.moved {
			t.Errorf("%s moved = %v, want %v", tc.square, got, tc.moved)
		}
	}
	if b.LegalMoves(E1).Has(C1) {
		t.Error("castling allowed with a moved king")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"MissingFields", "rnbqkbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,0"},
		{"SevenRanks", "rnbqkbnr/pppppppp/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"ShortRank", "rnbqkbnr/pppppppp/_______/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"LongRank", "rnbqkbnr/pppppppp/_________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"UnknownSymbol", "rnbqkbnr/pppppppp/___x____/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"MarkerBeforePawn", "rnbqkbnr/pppppppp/________/________/________/________/*PPPPPPPP/RNBQKBNR,l,0,0"},
		{"MarkerBeforeEmpty", "rnbqkbnr/pppppppp/*________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"TrailingMarker", "rnbqkbnr/pppppppp/________*/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"DoubleMarker", "rnbq**kbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"MissingKing", "rnbq_bnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"TwoKings", "rnbqkbnr/pppppppp/________/________/___K____/________/PPPPPPPP/RNBQKBNR,l,0,0"},
		{"PawnOnHomeRank", "_______k/________/________/________/________/________/________/K_P_____,l,0,0"},
		{"PromotionOutOfTurn", "_P_____k/________/________/________/________/________/________/K_______,d,0,0"},
		{"TwoPendingPromotions", "_P__P__k/________/________/________/________/________/________/K_______,l,0,0"},
		{"BadSide", "rnbqkbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,w,0,0"},
		{"NegativePlies", "rnbqkbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,-1,0"},
		{"BadClock", "rnbqkbnr/pppppppp/________/________/________/________/PPPPPPPP/RNBQKBNR,l,0,x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			if !errors.Is(err, ErrInvalidBoardRepresentation) {
				t.Errorf("Parse error = %v, want %v", err, ErrInvalidBoardRepresentation)
			}
		})
	}
}

func TestRestoreKeepsEnPassant(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "a7a6", "e4e5", "d7d5")

	plain := mustParse(t, b.Serialize())
	if plain.LegalMoves(E5).Has(D6) {
		t.Error("en passant should not survive plain serialization")
	}

	restored, err := Restore(b.Serialize(), b.History())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.LegalMoves(E5).Has(D6) {
		t.Error("en passant lost after Restore")
	}
	if len(restored.History()) != 4 {
		t.Errorf("history length = %d, want 4", len(restored.History()))
	}

	if _, err := Restore(StartPosition, b.History()); !errors.Is(err, ErrInvalidBoardRepresentation) {
		t.Errorf("Restore with mismatched history: %v", err)
	}
}
