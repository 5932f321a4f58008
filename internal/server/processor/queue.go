// FILE: internal/server/processor/queue.go
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"konane/internal/server/core"
	"konane/internal/server/mover"
)

const (
	moverQueueDepth    = 100
	moverSearchTimeout = 5 * time.Second
	resultHandoff      = 100 * time.Millisecond
)

// MoverTask asks a worker to pick a move for one position.
type MoverTask struct {
	GameID   string
	Layout   string
	Color    core.Color
	Response chan<- MoverResult
}

// MoverResult is the worker's answer. NoMoves means the side to move
// has lost; Error means the search itself failed.
type MoverResult struct {
	GameID   string
	Move     string
	Captured int
	NoMoves  bool
	Error    error
}

// MoverQueue runs computer move searches on a small worker pool so
// HTTP requests never block on them.
type MoverQueue struct {
	tasks   chan MoverTask
	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	stop    sync.Once
}

func NewMoverQueue(workerCount int) *MoverQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &MoverQueue{
		tasks:   make(chan MoverTask, moverQueueDepth),
		workers: workerCount,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	return q
}

func (q *MoverQueue) worker() {
	defer q.wg.Done()

	// One chooser per worker, no shared state between them
	m := mover.New()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			result := runSearch(m, task)

			// Hand off unless the submitter has given up
			select {
			case task.Response <- result:
			case <-time.After(resultHandoff):
			}

		case <-q.ctx.Done():
			return
		}
	}
}

func runSearch(m *mover.Greedy, task MoverTask) MoverResult {
	result := MoverResult{GameID: task.GameID}

	search, err := m.Search(task.Layout, task.Color)
	if err != nil {
		result.Error = fmt.Errorf("move search failed: %v", err)
		return result
	}
	if search.NoMoves {
		result.NoMoves = true
		return result
	}

	result.Move = search.BestMove
	result.Captured = search.Captured
	return result
}

// Submit enqueues without blocking; a full queue is an error the
// caller surfaces to the client. The shutdown check comes first so a
// send on the closed task channel can never be selected.
func (q *MoverQueue) Submit(task MoverTask) error {
	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync enqueues and invokes callback from a background
// goroutine with the result, or with a timeout error if the search
// takes too long.
func (q *MoverQueue) SubmitAsync(gameID, layout string, color core.Color, callback func(MoverResult)) error {
	respChan := make(chan MoverResult, 1)

	if err := q.Submit(MoverTask{
		GameID:   gameID,
		Layout:   layout,
		Color:    color,
		Response: respChan,
	}); err != nil {
		return err
	}

	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-time.After(moverSearchTimeout):
			callback(MoverResult{
				GameID: gameID,
				Error:  fmt.Errorf("move search timeout"),
			})
		}
	}()

	return nil
}

// Shutdown stops the workers, waiting up to timeout for in-flight
// searches. Safe to call more than once.
func (q *MoverQueue) Shutdown(timeout time.Duration) error {
	q.stop.Do(func() {
		q.cancel()
		close(q.tasks)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
