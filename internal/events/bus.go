package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// Handler must not block on Publish to the same bus: it runs on the dispatcher.
type Handler func(ctx context.Context, s Signal)

type subscription struct {
	id    int
	kinds map[Kind]bool
	h     Handler
}

func (s subscription) wants(k Kind) bool {
	return len(s.kinds) == 0 || s.kinds[k]
}

// Bus delivers signals one at a time, in publish order, to subscribers in
// subscription order. Delivery is fire-and-forget.
type Bus struct {
	origin string
	logger *log.Logger

	subMu  sync.RWMutex
	subs   []subscription
	nextID int

	pubMu   sync.Mutex
	closed  bool
	seq     uint64
	lastSeq map[string]uint64
	queue   chan Signal

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBus(origin string, logger *log.Logger, buffer int) *Bus {
	if origin == "" {
		origin = uuid.NewString()
	}
	if buffer <= 0 {
		buffer = 256
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		origin:  origin,
		logger:  logger,
		lastSeq: map[string]uint64{},
		queue:   make(chan Signal, buffer),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *Bus) Origin() string { return b.origin }

// Subscribe registers h for the given kinds, or for all kinds when none are given.
func (b *Bus) Subscribe(h Handler, kinds ...Kind) (unsubscribe func()) {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}

	b.subMu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kinds: set, h: h})
	b.subMu.Unlock()

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish stamps a local signal and queues it. It returns false once the bus is closed.
func (b *Bus) Publish(ctx context.Context, kind Kind) (Signal, bool) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	if b.closed {
		return Signal{}, false
	}
	b.seq++
	s := Signal{
		Kind:          kind,
		ID:            uuid.NewString(),
		Origin:        b.origin,
		Sequence:      b.seq,
		CorrelationID: middleware.GetCorrelationID(ctx),
		OccurredAt:    time.Now().UTC(),
	}
	b.queue <- s
	return s, true
}

// Inject queues a signal received from another process. Echoes of our own
// signals, and duplicates or stale signals per origin, are dropped.
func (b *Bus) Inject(s Signal) bool {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	if b.closed || s.Origin == b.origin || !s.Kind.Valid() {
		return false
	}
	if s.Sequence <= b.lastSeq[s.Origin] {
		return false
	}
	b.lastSeq[s.Origin] = s.Sequence
	b.queue <- s
	return true
}

// Close stops accepting signals and waits until every queued signal has been
// delivered. Handler contexts are cancelled only after the queue is drained.
func (b *Bus) Close() {
	b.pubMu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.pubMu.Unlock()

	<-b.done
	b.cancel()
}

func (b *Bus) dispatch() {
	defer close(b.done)

	for s := range b.queue {
		b.subMu.RLock()
		subs := make([]subscription, len(b.subs))
		copy(subs, b.subs)
		b.subMu.RUnlock()

		ctx := middleware.WithCorrelationID(b.ctx, s.CorrelationID)
		for _, sub := range subs {
			if sub.wants(s.Kind) {
				b.call(ctx, sub.h, s)
			}
		}
	}
}

func (b *Bus) call(ctx context.Context, h Handler, s Signal) {
	defer func() {
		if rec := recover(); rec != nil && b.logger != nil {
			b.logger.Printf("signal %s handler panic: %v", s.Kind, rec)
		}
	}()
	h(ctx, s)
}
