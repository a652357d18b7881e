package board

import "testing"

func TestHashIdentifiesPositions(t *testing.T) {
	if New().Hash() != mustFEN(t, StartFEN).Hash() {
		t.Error("start position hashes differ between New and ParseFEN")
	}

	// Same placement, different castling rights.
	a := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w Kkq - 0 1")
	if a.Hash() == b.Hash() {
		t.Error("castling rights do not affect the hash")
	}

	// A double advance nobody can capture leaves the hash alone.
	c := New()
	play(t, c, "e2e4")
	d := mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if c.Hash() != d.Hash() {
		t.Error("uncapturable en passant square changed the hash")
	}

	// One that can be captured does not.
	e := mustFEN(t, "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	f := mustFEN(t, "4k3/8/8/8/3pP3/8/8/4K3 b - - 0 1")
	if e.Hash() == f.Hash() {
		t.Error("available en passant capture does not affect the hash")
	}
}

func TestThreefoldRepetition(t *testing.T) {
	b := New()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	play(t, b, shuffle...)
	if got := b.RepetitionCount(); got != 2 {
		t.Errorf("RepetitionCount() = %d, want 2", got)
	}
	if b.IsThreefoldRepetition() {
		t.Error("threefold reported after two occurrences")
	}

	play(t, b, shuffle...)
	if !b.IsThreefoldRepetition() {
		t.Error("expected threefold repetition")
	}
	if b.Outcome() != Undecided {
		t.Error("repetition must not end the game by itself")
	}
}

func TestRepetitionNeedsSameRights(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "e7e5", "e1e2", "e8e7", "e2e1", "e7e8")
	// Back on the squares of move two, but castling rights are gone.
	if got := b.RepetitionCount(); got != 1 {
		t.Errorf("RepetitionCount() = %d, want 1", got)
	}
}
