// Package notify holds the storefront's transient toast notifications.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const DefaultTTL = 3500 * time.Millisecond

type Toast struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Queue keeps toasts until they expire or are dismissed. Expiry is evaluated
// lazily on read, so the queue owns no goroutines.
type Queue struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64
	toasts []Toast
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// NewQueueWithClock is used by tests to control expiry.
func NewQueueWithClock(now func() time.Time) *Queue {
	return &Queue{now: now}
}

// Push appends a toast and returns its id. ttl <= 0 uses DefaultTTL.
func (q *Queue) Push(message string, level Level, ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	now := q.now()
	q.toasts = append(q.toasts, Toast{
		ID:        q.nextID,
		Message:   message,
		Level:     level,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	q.pruneLocked(now)
	return q.nextID
}

func (q *Queue) Info(message string) int64    { return q.Push(message, LevelInfo, 0) }
func (q *Queue) Success(message string) int64 { return q.Push(message, LevelSuccess, 0) }
func (q *Queue) Error(message string) int64   { return q.Push(message, LevelError, 0) }

// Dismiss removes a toast before it expires. Unknown ids are ignored.
func (q *Queue) Dismiss(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the unexpired toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(q.now())
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

func (q *Queue) pruneLocked(now time.Time) {
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
}
