package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrules/internal/board"
)

// Storage keys
const (
	keyGamePrefix = "game/"
	keyStats      = "stats"
)

// ErrNotFound is returned when no game is stored under the requested id.
var ErrNotFound = errors.New("game not found")

// GameRecord is the persisted form of one game.
type GameRecord struct {
	ID        string       `json:"id"`
	Board     string       `json:"board"`
	Moves     []board.Move `json:"moves"`
	Outcome   string       `json:"outcome"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// GameStats counts finished games by result.
type GameStats struct {
	GamesFinished int `json:"games_finished"`
	LightWins     int `json:"light_wins"`
	DarkWins      int `json:"dark_wins"`
	Draws         int `json:"draws"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(keyGamePrefix + id)
}

// SaveGame stores the record, replacing any previous version.
func (s *Storage) SaveGame(rec *GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame loads the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteGame removes the record stored under id.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// ListGames returns the ids of all stored games in key order.
func (s *Storage) ListGames() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyGamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), keyGamePrefix))
		}
		return nil
	})

	return ids, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult counts a finished game in the statistics.
func (s *Storage) RecordResult(outcome board.Outcome) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	switch outcome {
	case board.LightWins:
		stats.LightWins++
	case board.DarkWins:
		stats.DarkWins++
	case board.Draw:
		stats.Draws++
	default:
		return nil
	}
	stats.GamesFinished++

	return s.SaveStats(stats)
}
