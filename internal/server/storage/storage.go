// FILE: internal/server/storage/storage.go

// Package storage persists game history and user accounts in SQLite.
// Game and move records go through a single async writer so the move
// path never blocks on disk; user and session writes are synchronous
// because auth must observe its own writes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const writerDrainTimeout = 2 * time.Second

// Store wraps the SQLite handle with the async game writer.
type Store struct {
	db      *sql.DB
	path    string
	writes  chan func(*sql.Tx) error
	healthy atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewStore opens the database at path and starts the writer goroutine.
// Dev mode switches the journal to WAL so concurrent reads during
// interactive testing do not contend with the writer.
func NewStore(path string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	// moves.game_id references games, sessions.user_id references users
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:     db,
		path:   path,
		writes: make(chan func(*sql.Tx) error, 1000),
		ctx:    ctx,
		cancel: cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy reports whether the async writer is still accepting work.
// A failed write degrades the store permanently until restart.
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Best-effort drain of queued writes before exit
			deadline := time.After(writerDrainTimeout)
			for {
				select {
				case fn := <-s.writes:
					if s.healthy.Load() {
						s.runWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}

		case fn := <-s.writes:
			if !s.healthy.Load() {
				continue
			}
			s.runWrite(fn)
		}
	}
}

// runWrite executes one queued write inside its own transaction. Any
// failure marks the store degraded; the in-memory game registry stays
// authoritative so play continues without history.
func (s *Store) runWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: begin transaction: %v", err)
		s.healthy.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write failed: %v", err)
		s.healthy.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: commit: %v", err)
		s.healthy.Store(false)
	}
}

// Close stops the writer, waits briefly for queued writes, and closes
// the database.
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(writerDrainTimeout):
		log.Printf("Warning: storage writer shutdown timed out, queued writes lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB applies the schema. Statements are idempotent, so running it
// against an existing database is safe.
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file.
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove database file: %w", err)
	}

	return nil
}
