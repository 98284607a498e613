package session

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStorage keeps records in process memory. A zero ttl disables
// expiry.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func memoryKey(sessionID, key string) string {
	return sessionID + ":" + key
}

func (m *MemoryStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}

	rec := memoryRecord{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		rec.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.records[memoryKey(sessionID, key)] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := validate(sessionID, key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, ok := m.records[memoryKey(sessionID, key)]
	m.mu.RUnlock()

	if !ok || (!rec.expiresAt.IsZero() && m.now().After(rec.expiresAt)) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), rec.value...), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, sessionID, key string) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.records, memoryKey(sessionID, key))
	m.mu.Unlock()
	return nil
}

// Sweep drops expired records and reports how many were removed.
func (m *MemoryStorage) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, rec := range m.records {
		if !rec.expiresAt.IsZero() && now.After(rec.expiresAt) {
			delete(m.records, k)
			removed++
		}
	}
	return removed
}
