// FILE: internal/server/service/service.go

// Package service owns the live game registry and user accounts. Games
// live in memory and are mirrored to storage when a store is attached;
// a nil store runs the server stateless.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"konane/internal/server/game"
	"konane/internal/server/storage"
)

const (
	MaxUsers           = 100
	TempUserTTL        = 24 * time.Hour
	SessionTTL         = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

type Service struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New builds a service. store may be nil, which disables persistence
// and user accounts backed by it.
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:     make(map[string]*game.Game),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}
}

// GetStorageHealth reports the persistence status for /health.
func (s *Service) GetStorageHealth() string {
	switch {
	case s.store == nil:
		return "disabled"
	case s.store.IsHealthy():
		return "ok"
	default:
		return "degraded"
	}
}

// RegisterWait parks a long-poll request until the game advances past
// moveCount or ctx expires.
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// Shutdown releases waiters, drops the game registry, and closes the
// store.
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically removes expired temp users and sessions.
// Blocks until ctx is cancelled; run it in its own goroutine.
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if s.store == nil {
		return
	}

	if deleted, err := s.store.DeleteExpiredTempUsers(); err != nil {
		log.Printf("cleanup: delete expired users: %v", err)
	} else if deleted > 0 {
		log.Printf("cleanup: deleted %d expired temp users", deleted)
	}

	if deleted, err := s.store.DeleteExpiredSessions(); err != nil {
		log.Printf("cleanup: delete expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("cleanup: deleted %d expired sessions", deleted)
	}
}
