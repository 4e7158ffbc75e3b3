package transactions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store down")

// memStore keeps rows in insertion order and counts calls so tests can prove
// a request never reached storage.
type memStore struct {
	mu    sync.Mutex
	rows  []Transaction
	calls int
	fail  bool
}

var _ Store = (*memStore)(nil)

func (m *memStore) touch() error {
	m.calls++
	if m.fail {
		return errStoreDown
	}
	return nil
}

func (m *memStore) Insert(_ context.Context, t *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return err
	}
	for _, r := range m.rows {
		if r.ID == t.ID {
			return errors.New("duplicate id")
		}
	}
	t.CreatedAt = time.Now().UTC()
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memStore) ListBySession(_ context.Context, sessionID string) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return nil, err
	}
	out := make([]Transaction, 0)
	for _, r := range m.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) GetBySession(_ context.Context, sessionID string, id uuid.UUID) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return nil, err
	}
	for _, r := range m.rows {
		if r.SessionID == sessionID && r.ID == id {
			t := r
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memStore) SumBySession(_ context.Context, sessionID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch(); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, r := range m.rows {
		if r.SessionID == sessionID {
			sum = sum.Add(r.Amount)
		}
	}
	return sum, nil
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
