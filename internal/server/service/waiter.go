// FILE: internal/server/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout caps how long a long-poll request may park. It is
// shorter than the HTTP write timeout so the response always gets out.
const WaitTimeout = 25 * time.Second

// waiter is one parked long-poll request. notify carries a single
// wake-up; moveCount is the game position the client already knows.
type waiter struct {
	moveCount int
	notify    chan struct{}
	timer     *time.Timer
}

// wake sends the single notification without ever blocking on a slow
// or departed client.
func (r *waiter) wake() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// WaitRegistry parks long-polling clients per game and wakes them when
// the game advances, is deleted, or their wait window lapses.
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waiter
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waiter),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait parks a client on gameID and returns the channel that
// signals when the game moves past moveCount, the client disconnects,
// or WaitTimeout expires.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	req := &waiter{
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
	}
	req.timer = time.AfterFunc(WaitTimeout, req.wake)

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watch(ctx, gameID, req)

	return req.notify
}

// watch tears the waiter down on whichever comes first: client
// disconnect, delivered notification, or registry shutdown.
func (w *WaitRegistry) watch(ctx context.Context, gameID string, req *waiter) {
	defer w.wg.Done()

	select {
	case <-ctx.Done():
		w.remove(gameID, req)
	case <-req.notify:
		w.remove(gameID, req)
	case <-w.shutdown:
		req.timer.Stop()
		close(req.notify)
	}
}

// NotifyGame wakes every client whose known move count no longer
// matches the game.
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	waitList := w.waiters[gameID]
	w.mu.RUnlock()

	for _, req := range waitList {
		if req.moveCount != currentMoveCount {
			req.wake()
		}
	}
}

// RemoveGame wakes and drops every waiter on a game about to be
// deleted; the re-fetch on the client side reports the deletion.
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.wake()
	}
}

// Shutdown wakes the watch goroutines and waits for them to finish.
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("http wait registry shutdown failed")
	}
}

func (w *WaitRegistry) remove(gameID string, req *waiter) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, entry := range waitList {
		if entry == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	req.timer.Stop()
}
