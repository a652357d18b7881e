package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Storage) {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewManager(store), store
}

func move(t *testing.T, m *Manager, id, from, to string) *Snapshot {
	t.Helper()
	f, err := board.ParseSquare(from)
	if err != nil {
		t.Fatal(err)
	}
	d, err := board.ParseSquare(to)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := m.Move(context.Background(), id, f, d)
	if err != nil {
		t.Fatalf("Move(%s%s): %v", from, to, err)
	}
	return snap
}

func TestCreateAndMove(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	snap, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(snap.ID) != 16 {
		t.Errorf("id %q is not 16 hex digits", snap.ID)
	}
	if snap.Board != board.StartPosition || snap.Outcome != "Undecided" || len(snap.Moves) != 0 {
		t.Errorf("unexpected new game %+v", snap)
	}

	legal, err := m.Legal(ctx, snap.ID, board.E2)
	if err != nil {
		t.Fatalf("Legal: %v", err)
	}
	if len(legal) != 2 || legal[0] != board.E3 || legal[1] != board.E4 {
		t.Errorf("Legal(e2) = %v, want [e3 e4]", legal)
	}

	snap = move(t, m, snap.ID, "e2", "e4")
	if snap.SideToMove != board.Dark || len(snap.Moves) != 1 || snap.Moves[0].Notation != "e4" {
		t.Errorf("after e2e4: %+v", snap)
	}

	if _, err := m.Move(ctx, snap.ID, board.E4, board.E5); !errors.Is(err, board.ErrWrongPlayer) {
		t.Errorf("Move out of turn: %v, want %v", err, board.ErrWrongPlayer)
	}
}

func TestCreateFromPosition(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	snap, err := m.Create(ctx, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("Create from FEN: %v", err)
	}
	if snap.FEN != "4k3/8/8/8/8/8/8/4K2R w K - 0 1" {
		t.Errorf("FEN = %q", snap.FEN)
	}

	if _, err := m.Create(ctx, "not a board"); !errors.Is(err, board.ErrInvalidBoardRepresentation) {
		t.Errorf("Create with bad FEN: %v", err)
	}
	if _, err := m.Create(ctx, "garbage"); !errors.Is(err, board.ErrInvalidBoardRepresentation) {
		t.Errorf("Create with bad text: %v", err)
	}
}

func TestPromotionFlow(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	snap, err := m.Create(ctx, "_______k/_P______/________/________/________/________/________/K_______,l,20,0")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	snap = move(t, m, snap.ID, "b7", "b8")
	if snap.PendingPromotion == nil || *snap.PendingPromotion != board.B8 {
		t.Fatalf("pending promotion = %v, want b8", snap.PendingPromotion)
	}
	if len(snap.Promotable) != 4 {
		t.Errorf("promotable = %v", snap.Promotable)
	}

	if _, err := m.Move(ctx, snap.ID, board.H8, board.H7); !errors.Is(err, board.ErrPromotionRequired) {
		t.Errorf("Move with pending promotion: %v", err)
	}
	if _, err := m.Promote(ctx, snap.ID, board.King); !errors.Is(err, board.ErrInvalidPromotionPiece) {
		t.Errorf("Promote to king: %v", err)
	}

	snap, err = m.Promote(ctx, snap.ID, board.Queen)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if snap.PendingPromotion != nil || snap.SideToMove != board.Dark {
		t.Errorf("after promotion: %+v", snap)
	}
	if got := snap.Moves[len(snap.Moves)-1].Notation; got != "b8=Q+" {
		t.Errorf("notation = %q, want b8=Q+", got)
	}
}

func TestReloadFromStore(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	snap, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := snap.ID
	move(t, m, id, "e2", "e4")
	move(t, m, id, "a7", "a6")
	move(t, m, id, "e4", "e5")
	move(t, m, id, "d7", "d5")

	// A fresh manager over the same store knows the game and its history.
	fresh := NewManager(store)
	ids, err := fresh.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("List() = %v, want [%s]", ids, id)
	}

	legal, err := fresh.Legal(ctx, id, board.E5)
	if err != nil {
		t.Fatalf("Legal: %v", err)
	}
	if !board.SetOf(legal...).Has(board.D6) {
		t.Errorf("en passant lost after reload: %v", legal)
	}

	snap = move(t, fresh, id, "e5", "d6")
	if !snap.Moves[len(snap.Moves)-1].EnPassant {
		t.Error("expected an en passant record")
	}
}

func TestGameNotFound(t *testing.T) {
	ctx := context.Background()
	for name, m := range map[string]*Manager{
		"memory": NewManager(nil),
		"store":  func() *Manager { m, _ := newTestManager(t); return m }(),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
				t.Errorf("Get: %v, want %v", err, ErrGameNotFound)
			}
			if _, err := m.Move(ctx, "missing", board.E2, board.E4); !errors.Is(err, ErrGameNotFound) {
				t.Errorf("Move: %v, want %v", err, ErrGameNotFound)
			}
		})
	}
}

func TestFinishedGameIsCounted(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	snap, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, mv := range [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"f1", "c4"}, {"d7", "d6"}, {"d1", "f3"}, {"b8", "c6"}, {"f3", "f7"}} {
		snap = move(t, m, snap.ID, mv[0], mv[1])
	}
	if snap.Outcome != "LightWins" {
		t.Fatalf("outcome = %s, want LightWins", snap.Outcome)
	}
	if _, err := m.Move(ctx, snap.ID, board.E8, board.E7); !errors.Is(err, board.ErrGameAlreadyDecided) {
		t.Errorf("Move after mate: %v, want %v", err, board.ErrGameAlreadyDecided)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesFinished != 1 || stats.LightWins != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil)

	snap, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var mu sync.Mutex
	var seen []string
	cancel := m.Subscribe(snap.ID, func(s *Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Moves[len(s.Moves)-1].Notation)
	})

	move(t, m, snap.ID, "g1", "f3")
	cancel()
	cancel()
	move(t, m, snap.ID, "g8", "f6")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "Nf3" {
		t.Errorf("watcher saw %v, want [Nf3]", seen)
	}
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil)

	snap, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Every goroutine tries the same first move; exactly one may succeed.
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Move(ctx, snap.ID, board.E2, board.E4)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Errorf("%d concurrent moves succeeded, want 1", ok)
	}

	snap, err = m.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(snap.Moves) != 1 {
		t.Errorf("history has %d moves, want 1", len(snap.Moves))
	}
}
