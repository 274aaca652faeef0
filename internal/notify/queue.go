// Package notify holds the transient message queue that decouples
// "a page wants to tell the user something" from "something renders
// that message and removes it later".
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davemunger/playdeck/pkg/domain"
)

// Queue is an append/remove list of notifications keyed by id, with
// insertion order preserved for rendering. Expiry timers fire off the
// UI goroutine, so access is guarded by a mutex.
type Queue struct {
	mu       sync.Mutex
	items    []domain.Notification
	timers   map[uuid.UUID]*time.Timer
	onChange func()
}

// New creates an empty queue. onChange, when non-nil, is invoked after
// every mutation (enqueue, dismissal, expiry) so the UI can redraw; it
// must be safe to call from a timer goroutine.
func New(onChange func()) *Queue {
	return &Queue{
		timers:   make(map[uuid.UUID]*time.Timer),
		onChange: onChange,
	}
}

// Enqueue appends a notification and returns its generated id. A
// positive ttl schedules automatic removal; zero or negative means the
// notification persists until dismissed.
func (q *Queue) Enqueue(message string, severity domain.Severity, ttl time.Duration) uuid.UUID {
	n := domain.Notification{
		ID:        uuid.New(),
		Message:   message,
		Severity:  severity,
		TTL:       ttl,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.items = append(q.items, n)
	if ttl > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(ttl, func() {
			q.Dismiss(id)
		})
	}
	q.mu.Unlock()

	q.notify()
	return n.ID
}

// Dismiss removes the notification with the given id. Dismissing an id
// that is not present is a no-op.
func (q *Queue) Dismiss(id uuid.UUID) {
	q.mu.Lock()
	idx := -1
	for i, n := range q.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.notify()
}

// Items returns a snapshot of the queue in insertion order.
func (q *Queue) Items() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of pending notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) notify() {
	if q.onChange != nil {
		q.onChange()
	}
}

// defaultTTL is how long the convenience wrappers keep a message on
// screen before it expires on its own.
const defaultTTL = 5 * time.Second

// Success enqueues a success message with the default TTL.
func (q *Queue) Success(message string) uuid.UUID {
	return q.Enqueue(message, domain.SeveritySuccess, defaultTTL)
}

// Error enqueues an error message with the default TTL.
func (q *Queue) Error(message string) uuid.UUID {
	return q.Enqueue(message, domain.SeverityError, defaultTTL)
}

// Warning enqueues a warning message with the default TTL.
func (q *Queue) Warning(message string) uuid.UUID {
	return q.Enqueue(message, domain.SeverityWarning, defaultTTL)
}

// Info enqueues an info message with the default TTL.
func (q *Queue) Info(message string) uuid.UUID {
	return q.Enqueue(message, domain.SeverityInfo, defaultTTL)
}
