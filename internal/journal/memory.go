package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepository is used when no journal database is configured. Entries do
// not survive a restart.
type MemoryRepository struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[int]Entry
}

func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(time.Now)
}

func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{now: now, entries: map[int]Entry{}}
}

func (m *MemoryRepository) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[e.OrderID]; ok {
		return nil
	}
	now := m.now()
	e.Status = StatusOrderCreated
	e.Total = decimal.NullDecimal{}
	e.SaleID, e.LastError, e.Attempts = 0, "", 0
	e.CreatedAt, e.UpdatedAt = now, now
	m.entries[e.OrderID] = e
	return nil
}

func (m *MemoryRepository) MarkTotal(_ context.Context, orderID int, total decimal.Decimal) error {
	return m.update(orderID, func(e *Entry) {
		e.Total = decimal.NewNullDecimal(total)
		e.Status = StatusTotalComputed
	})
}

func (m *MemoryRepository) MarkFrozen(_ context.Context, orderID, saleID int) error {
	return m.update(orderID, func(e *Entry) {
		e.SaleID = saleID
		e.Status = StatusFrozen
		e.LastError = ""
	})
}

func (m *MemoryRepository) MarkFailed(_ context.Context, orderID int, reason string) error {
	return m.update(orderID, func(e *Entry) {
		e.Status = StatusFailed
		e.LastError = reason
		e.Attempts++
	})
}

func (m *MemoryRepository) update(orderID int, fn func(*Entry)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[orderID]
	if !ok {
		return ErrNotFound
	}
	fn(&e)
	e.UpdatedAt = m.now()
	m.entries[orderID] = e
	return nil
}

func (m *MemoryRepository) Pending(_ context.Context, before time.Time, maxAttempts, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for _, e := range m.entries {
		if e.Frozen() || !e.CreatedAt.Before(before) {
			continue
		}
		if maxAttempts <= 0 || e.Attempts < maxAttempts {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].OrderID < out[j].OrderID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, orderID int) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[orderID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}
