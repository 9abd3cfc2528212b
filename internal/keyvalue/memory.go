package keyvalue

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. It backs local development when no AWS
// credentials are configured and is used throughout the tests.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string]Item
}

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]map[string]Item),
	}
}

func (m *Memory) Put(_ context.Context, table string, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]Item)
		m.tables[table] = t
	}

	t[ID(item)] = Copy(item)
	return nil
}

func (m *Memory) Get(_ context.Context, table string, id string) (Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.tables[table][id]
	if !ok {
		return nil, false, nil
	}

	return Copy(item), true, nil
}

func (m *Memory) Delete(_ context.Context, table string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables[table], id)
	return nil
}

func (m *Memory) Scan(_ context.Context, table string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.tables[table]))
	for id := range m.tables[table] {
		ids = append(ids, id)
	}

	// Deterministic order keeps test output stable. DynamoDB makes no
	// ordering promise for scans, so callers must not rely on this.
	sort.Strings(ids)

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Copy(m.tables[table][id]))
	}

	return items, nil
}
