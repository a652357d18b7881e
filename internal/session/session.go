// Package session keeps live games in memory, serializes access to each one
// and persists every change through a Store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrGameNotFound is returned for an id no game is known by.
var ErrGameNotFound = errors.New("game not found")

// Store persists game records. *storage.Storage implements it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	LoadGame(id string) (*storage.GameRecord, error)
	ListGames() ([]string, error)
	RecordResult(outcome board.Outcome) error
}

// Snapshot is the externally visible state of a game.
type Snapshot struct {
	ID               string        `json:"id"`
	Board            string        `json:"board"`
	FEN              string        `json:"fen"`
	SideToMove       board.Side    `json:"side_to_move"`
	Check            bool          `json:"check"`
	PendingPromotion *board.Square `json:"pending_promotion,omitempty"`
	Promotable       []board.Kind  `json:"promotable,omitempty"`
	Outcome          string        `json:"outcome"`
	Repetitions      int           `json:"repetitions"`
	Moves            []board.Move  `json:"moves"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type game struct {
	mu      sync.Mutex
	id      string
	board   *board.Board
	created time.Time
	updated time.Time
}

// Manager owns the live games. All methods are safe for concurrent use;
// operations on one game are serialized.
type Manager struct {
	store Store

	mu    sync.RWMutex
	games map[string]*game

	watchMu  sync.RWMutex
	watchers map[string]map[int]func(*Snapshot)
	nextID   int
}

// NewManager creates a manager. A nil store keeps games in memory only.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		games:    make(map[string]*game),
		watchers: make(map[string]map[int]func(*Snapshot)),
	}
}

// Create starts a game. An empty position means the standard starting
// position; otherwise position is either the serialized board text or FEN.
func (m *Manager) Create(ctx context.Context, position string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := parsePosition(position)
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &game{id: id, board: b, created: now, updated: now}
	if err := m.persist(g, b); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	log.Printf("session: created game %s", id)
	return snapshot(g), nil
}

func parsePosition(position string) (*board.Board, error) {
	switch {
	case position == "":
		return board.New(), nil
	case strings.Contains(strings.TrimSpace(position), " "):
		return board.ParseFEN(position)
	default:
		return board.Parse(strings.TrimSpace(position))
	}
}

// Get returns the current state of the game.
func (m *Manager) Get(ctx context.Context, id string) (*Snapshot, error) {
	g, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return snapshot(g), nil
}

// Board returns a copy of the game's board.
func (m *Manager) Board(ctx context.Context, id string) (*board.Board, error) {
	g, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone(), nil
}

// List returns the ids of all known games, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	m.mu.RLock()
	for id := range m.games {
		seen[id] = true
	}
	m.mu.RUnlock()

	if m.store != nil {
		stored, err := m.store.ListGames()
		if err != nil {
			return nil, err
		}
		for _, id := range stored {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Legal returns the destinations of the piece on sq.
func (m *Manager) Legal(ctx context.Context, id string, sq board.Square) ([]board.Square, error) {
	g, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.LegalMoves(sq).Squares(), nil
}

// Move plays from-to in the game.
func (m *Manager) Move(ctx context.Context, id string, from, to board.Square) (*Snapshot, error) {
	return m.mutate(ctx, id, func(b *board.Board) error {
		return b.ApplyMove(from, to)
	})
}

// Promote replaces the pawn waiting on its last rank with a piece of kind k.
func (m *Manager) Promote(ctx context.Context, id string, k board.Kind) (*Snapshot, error) {
	return m.mutate(ctx, id, func(b *board.Board) error {
		return b.PromotePawn(board.NewPiece(k, b.SideToMove()))
	})
}

// mutate applies fn to a copy of the board and swaps it in once the copy is
// stored, so a failed save leaves the game untouched.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*board.Board) error) (*Snapshot, error) {
	g, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.board.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	before := g.board.Outcome()
	prevUpdated := g.updated
	g.updated = time.Now().UTC()
	if err := m.persist(g, next); err != nil {
		g.updated = prevUpdated
		return nil, err
	}
	g.board = next

	if outcome := next.Outcome(); outcome != before && outcome != board.Undecided {
		log.Printf("session: game %s finished: %s", id, outcome)
		if m.store != nil {
			if err := m.store.RecordResult(outcome); err != nil {
				log.Printf("session: record result of %s: %v", id, err)
			}
		}
	}

	snap := snapshot(g)
	m.notify(id, snap)
	return snap, nil
}

// Subscribe registers fn to receive the state after every change to the
// game. fn runs with the game locked and must not block or call back into
// the manager for the same game. The returned func removes the watcher.
func (m *Manager) Subscribe(id string, fn func(*Snapshot)) (cancel func()) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	m.nextID++
	key := m.nextID
	if m.watchers[id] == nil {
		m.watchers[id] = make(map[int]func(*Snapshot))
	}
	m.watchers[id][key] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.watchMu.Lock()
			defer m.watchMu.Unlock()
			delete(m.watchers[id], key)
			if len(m.watchers[id]) == 0 {
				delete(m.watchers, id)
			}
		})
	}
}

func (m *Manager) notify(id string, snap *Snapshot) {
	m.watchMu.RLock()
	defer m.watchMu.RUnlock()
	for _, fn := range m.watchers[id] {
		fn(snap)
	}
}

// lookup finds a live game, loading it from the store on first use.
func (m *Manager) lookup(ctx context.Context, id string) (*game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	g, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		return g, nil
	}
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	rec, err := m.store.LoadGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	b, err := board.Restore(rec.Board, rec.Moves)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	g = &game{id: id, board: b, created: rec.CreatedAt, updated: rec.UpdatedAt}
	m.games[id] = g
	return g, nil
}

func (m *Manager) persist(g *game, b *board.Board) error {
	if m.store == nil {
		return nil
	}
	return m.store.SaveGame(&storage.GameRecord{
		ID:        g.id,
		Board:     b.Serialize(),
		Moves:     b.History(),
		Outcome:   b.Outcome().String(),
		CreatedAt: g.created,
		UpdatedAt: g.updated,
	})
}

func snapshot(g *game) *Snapshot {
	b := g.board
	s := &Snapshot{
		ID:          g.id,
		Board:       b.Serialize(),
		FEN:         b.ToFEN(),
		SideToMove:  b.SideToMove(),
		Check:       b.IsCheck(b.SideToMove()),
		Outcome:     b.Outcome().String(),
		Repetitions: b.RepetitionCount(),
		Moves:       b.History(),
		CreatedAt:   g.created,
		UpdatedAt:   g.updated,
	}
	if s.Moves == nil {
		s.Moves = []board.Move{}
	}
	if sq, ok := b.PendingPromotion(); ok {
		s.PendingPromotion = &sq
		for _, p := range b.PromotablePieces(b.SideToMove()) {
			s.Promotable = append(s.Promotable, p.Kind)
		}
	}
	return s
}

func newID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
