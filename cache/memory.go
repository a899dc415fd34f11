package cache

import (
	"container/list"
	"context"
	"sync"
)

// MemoryStore is an in-process Store capped at a maximum number of entries.
// When full, the entry stored longest ago is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	max     int
	entries map[string]*list.Element
	order   *list.List // front is the oldest write
}

// NewMemoryStore creates a store holding at most max entries.
// max <= 0 disables the cap.
func NewMemoryStore(max int) *MemoryStore {
	return &MemoryStore{
		max:     max,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Read implements Reader
func (m *MemoryStore) Read(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return el.Value.(*Entry), true, nil
}

// Write implements Writer
func (m *MemoryStore) Write(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[entry.Key]; ok {
		el.Value = entry
		m.order.MoveToBack(el)
		return nil
	}

	m.entries[entry.Key] = m.order.PushBack(entry)
	for m.max > 0 && m.order.Len() > m.max {
		oldest := m.order.Front()
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*Entry).Key)
	}
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
