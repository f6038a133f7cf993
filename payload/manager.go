package payload

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

type formatEntry struct {
	format  Format
	enabled bool
}

/* Manager is the registry of payload formats
 * Reads go through an immutable snapshot; writers copy and swap it
 */
type Manager struct {
	mu      sync.Mutex
	current atomic.Pointer[map[string]formatEntry]
}

// NewManager creates a manager with the given formats registered and enabled
func NewManager(formats ...Format) (*Manager, error) {
	m := &Manager{}
	empty := map[string]formatEntry{}
	m.current.Store(&empty)
	if err := m.Register(formats...); err != nil {
		return nil, err
	}
	return m, nil
}

// Register adds formats; a name may only be registered once
func (m *Manager) Register(formats ...Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snapshot()
	for _, f := range formats {
		if _, exists := next[f.Name()]; exists {
			return fmt.Errorf("format %s already registered", f.Name())
		}
		next[f.Name()] = formatEntry{format: f, enabled: true}
	}
	m.current.Store(&next)
	return nil
}

// SetEnabled globally enables or disables a registered format
func (m *Manager) SetEnabled(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snapshot()
	entry, exists := next[name]
	if !exists {
		return fmt.Errorf("format %s not registered", name)
	}
	entry.enabled = enabled
	next[name] = entry
	m.current.Store(&next)
	return nil
}

// IsRegistered reports whether the format is registered and enabled
func (m *Manager) IsRegistered(name string) bool {
	entry, exists := (*m.current.Load())[name]
	return exists && entry.enabled
}

// Get returns an enabled format by name
func (m *Manager) Get(name string) (Format, bool) {
	entry, exists := (*m.current.Load())[name]
	if !exists || !entry.enabled {
		return nil, false
	}
	return entry.format, true
}

// Names lists the enabled format names, sorted
func (m *Manager) Names() []string {
	var names []string
	for name, entry := range *m.current.Load() {
		if entry.enabled {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (m *Manager) snapshot() map[string]formatEntry {
	return maps.Clone(*m.current.Load())
}
