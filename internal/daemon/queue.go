package daemon

import (
	"sync"

	"github.com/jmylchreest/volbrt/internal/model"
)

// Queue is an unbounded single-producer single-consumer queue between the
// socket accept loop and the GTK main loop. Push never blocks.
type Queue struct {
	mu    sync.Mutex
	items []model.Request
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a request.
func (q *Queue) Push(req model.Request) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()
}

// Drain removes and returns everything queued so far, oldest first.
// Returns nil when the queue is empty.
func (q *Queue) Drain() []model.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
