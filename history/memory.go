package history

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository keeps history in process, for tests and single-node setups
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Item
	byID  map[string]int
}

// NewMemoryRepository creates an empty in-memory history store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]int)}
}

// Append stores the item
func (m *MemoryRepository) Append(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[item.ID]; exists {
		return fmt.Errorf("history item %s already recorded", item.ID)
	}
	m.byID[item.ID] = len(m.items)
	m.items = append(m.items, item)
	return nil
}

// Get retrieves an item by ID
func (m *MemoryRepository) Get(_ context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, exists := m.byID[id]
	if !exists {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.items[idx], nil
}

// ListByConfig returns items for a config, newest first
func (m *MemoryRepository) ListByConfig(_ context.Context, configID string, limit int) ([]Item, error) {
	return m.list(func(i Item) bool { return i.ConfigID == configID }, limit), nil
}

// ListByProject returns items for configs owned by a project, newest first
func (m *MemoryRepository) ListByProject(_ context.Context, projectID string, limit int) ([]Item, error) {
	return m.list(func(i Item) bool { return i.ProjectID == projectID }, limit), nil
}

// Len returns the number of stored items
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close is a no-op
func (m *MemoryRepository) Close(context.Context) error {
	return nil
}

func (m *MemoryRepository) list(match func(Item) bool, limit int) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Item
	for i := len(m.items) - 1; i >= 0; i-- {
		if !match(m.items[i]) {
			continue
		}
		out = append(out, m.items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
