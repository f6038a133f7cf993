package template

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/marcelsud/webhook-notifier/event"
)

var (
	// ErrNotRenderable is returned when no enabled template content matches an event
	ErrNotRenderable = errors.New("template not renderable")
	// ErrTemplateNotFound is returned when a template locator matches nothing
	ErrTemplateNotFound = errors.New("template not found")
)

/* Content is the template fragment for one event state
 * An empty DateFormat inherits the template default
 */
type Content struct {
	State      event.Kind
	Text       string
	Enabled    bool
	DateFormat string
}

// Copy returns a detached value that can be overridden per config
func (c Content) Copy() Content {
	return Content{
		State:      c.State,
		Text:       c.Text,
		Enabled:    c.Enabled,
		DateFormat: c.DateFormat,
	}
}

// Variant selects whether a content entry applies to default builds, branch builds or both
type Variant int

const (
	VariantDefault Variant = iota + 1
	VariantBranch
	VariantAll
)

func (v Variant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantBranch:
		return "branch"
	case VariantAll:
		return "all"
	}
	return "unknown"
}

// NewVariant parses a variant name, empty means default
func NewVariant(s string) Variant {
	switch s {
	case "", "default":
		return VariantDefault
	case "branch":
		return VariantBranch
	case "all":
		return VariantAll
	}
	return 0
}

/* Template aggregates one Content per event state plus optional branch variants
 * Values are immutable once built: With returns a new Template
 */
type Template struct {
	ID          string
	Name        string
	Description string
	Rank        int
	Formats     []string
	DateFormat  string

	states       map[event.Kind]Content
	branchStates map[event.Kind]Content
}

// With returns a copy of t with content registered for the variant
func (t Template) With(c Content, v Variant) Template {
	next := t
	next.Formats = slices.Clone(t.Formats)
	next.states = maps.Clone(t.states)
	next.branchStates = maps.Clone(t.branchStates)
	if next.states == nil {
		next.states = make(map[event.Kind]Content)
	}
	if next.branchStates == nil {
		next.branchStates = make(map[event.Kind]Content)
	}

	if v == VariantDefault || v == VariantAll {
		next.states[c.State] = c.Copy()
	}
	if v == VariantBranch || v == VariantAll {
		next.branchStates[c.State] = c.Copy()
	}
	return next
}

// ForState returns the default content for a state
func (t Template) ForState(k event.Kind) (Content, bool) {
	c, ok := t.states[k]
	return c, ok
}

// BranchForState returns the branch build content for a state
func (t Template) BranchForState(k event.Kind) (Content, bool) {
	c, ok := t.branchStates[k]
	return c, ok
}

// SupportsFormat reports whether the template renders the given payload format
func (t Template) SupportsFormat(format string) bool {
	return slices.Contains(t.Formats, format)
}

// States lists the states with default content, in kind order
func (t Template) States() []event.Kind {
	return sortedKinds(t.states)
}

// BranchStates lists the states with branch content, in kind order
func (t Template) BranchStates() []event.Kind {
	return sortedKinds(t.branchStates)
}

// Validate checks if the template is valid
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id cannot be empty")
	}
	if len(t.Formats) == 0 {
		return fmt.Errorf("template %s must support at least one format", t.ID)
	}
	if len(t.states) == 0 && len(t.branchStates) == 0 {
		return fmt.Errorf("template %s has no state content", t.ID)
	}
	return nil
}

func sortedKinds(m map[event.Kind]Content) []event.Kind {
	kinds := slices.Collect(maps.Keys(m))
	slices.Sort(kinds)
	return kinds
}
