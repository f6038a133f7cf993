package template

import (
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	locatorID   = "id:"
	locatorName = "name:"
)

type catalog struct {
	ordered []Template
	byID    map[string]int
	byName  map[string]int
}

/* Registry holds the registered template set
 * Readers work on an immutable catalog; Replace swaps in a new one atomically
 */
type Registry struct {
	current atomic.Pointer[catalog]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(&catalog{byID: map[string]int{}, byName: map[string]int{}})
	return r
}

// Replace validates templates and swaps them in as the registered set
func (r *Registry) Replace(templates []Template) error {
	next := &catalog{
		ordered: make([]Template, 0, len(templates)),
		byID:    make(map[string]int, len(templates)),
		byName:  make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validating template: %w", err)
		}
		if _, exists := next.byID[t.ID]; exists {
			return fmt.Errorf("duplicate template id %s", t.ID)
		}
		next.byID[t.ID] = len(next.ordered)
		if t.Name != "" {
			if _, exists := next.byName[t.Name]; !exists {
				next.byName[t.Name] = len(next.ordered)
			}
		}
		next.ordered = append(next.ordered, t)
	}
	r.current.Store(next)
	return nil
}

// Lookup finds a template by locator: "id:<id>", "name:<name>" or a bare id
func (r *Registry) Lookup(locator string) (Template, error) {
	c := r.current.Load()

	var (
		idx    int
		exists bool
	)
	switch {
	case strings.HasPrefix(locator, locatorID):
		idx, exists = c.byID[strings.TrimPrefix(locator, locatorID)]
	case strings.HasPrefix(locator, locatorName):
		idx, exists = c.byName[strings.TrimPrefix(locator, locatorName)]
	default:
		idx, exists = c.byID[locator]
	}
	if !exists {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, locator)
	}
	return c.ordered[idx], nil
}

// Default returns the highest ranked template supporting the format
// Ties go to the template registered first
func (r *Registry) Default(format string) (Template, bool) {
	var (
		best  Template
		found bool
	)
	for _, t := range r.current.Load().ordered {
		if !t.SupportsFormat(format) {
			continue
		}
		if !found || t.Rank > best.Rank {
			best, found = t, true
		}
	}
	return best, found
}

// List returns the registered templates in registration order
func (r *Registry) List() []Template {
	c := r.current.Load()
	out := make([]Template, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of registered templates
func (r *Registry) Len() int {
	return len(r.current.Load().ordered)
}
