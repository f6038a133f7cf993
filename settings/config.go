package settings

import (
	"fmt"
	"maps"
	"net"
	"net/url"
	"slices"
	"strconv"

	"github.com/marcelsud/webhook-notifier/event"
)

/* WebHookConfig is a configured delivery target owned by a project
 * Read-only to the pipeline: resolution wraps it in Resolved instead of stamping it
 */
type WebHookConfig struct {
	ID                    string
	URL                   string
	Format                string
	Enabled               bool
	States                States
	EnabledForSubProjects bool
	// Template is a template locator: "id:<id>", "name:<name>" or a bare id
	Template       string
	InlineTemplate string
	Params         map[string]string
	BuildTypes     BuildTypeFilter
	// Proxy is an optional "host:port" hint that wins over the global proxy rules
	Proxy string
}

// Validate checks if the webhook configuration is valid
func (c WebHookConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("webhook id cannot be empty")
	}
	if c.URL == "" {
		return fmt.Errorf("url cannot be empty for webhook %s", c.ID)
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) url for webhook %s", c.ID)
	}
	if c.Format == "" {
		return fmt.Errorf("format cannot be empty for webhook %s", c.ID)
	}
	if c.Proxy != "" {
		if _, _, err := SplitProxy(c.Proxy); err != nil {
			return fmt.Errorf("invalid proxy for webhook %s: %w", c.ID, err)
		}
	}
	return nil
}

// Clone returns a copy that shares no maps or slices with c
func (c WebHookConfig) Clone() WebHookConfig {
	clone := c
	clone.Params = maps.Clone(c.Params)
	clone.BuildTypes.IDs = slices.Clone(c.BuildTypes.IDs)
	return clone
}

// SplitProxy splits a "host:port" proxy hint
func SplitProxy(hostPort string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return "", 0, fmt.Errorf("splitting proxy address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid proxy port %q", portStr)
	}
	return host, port, nil
}

/* States is the set of event kinds a webhook is enabled for
 * The zero value enables every kind
 */
type States uint32

// NewStates builds a state set from kinds
func NewStates(kinds ...event.Kind) States {
	var s States
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Has reports whether the kind bit is set
func (s States) Has(k event.Kind) bool {
	return s&(1<<uint(k)) != 0
}

// Kinds returns the kinds in the set in declaration order
func (s States) Kinds() []event.Kind {
	var kinds []event.Kind
	for _, k := range event.Kinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

var finishedRefinements = NewStates(event.BuildSuccessful, event.BuildFailed, event.BuildBroken, event.BuildFixed)

/* Enabled reports whether the set admits the event
 * A finished build needs BuildFinished plus, when any refinement is set, a matching
 * refinement: BuildFixed/BuildBroken for an outcome flip, otherwise BuildSuccessful/BuildFailed
 */
func (s States) Enabled(ev event.Event) bool {
	if s == 0 {
		return true
	}
	if ev.Kind != event.BuildFinished {
		return s.Has(ev.Kind)
	}
	if !s.Has(event.BuildFinished) {
		return false
	}
	if s&finishedRefinements == 0 {
		return true
	}
	if change, ok := ev.StateChange(); ok && s.Has(change) {
		return true
	}
	return s.Has(ev.EffectiveKind())
}

// BuildTypeFilter scopes a webhook to build types
type BuildTypeFilter struct {
	All bool
	IDs []string
}

// Admits reports whether the build type passes the filter
// Events that carry no build type are always admitted
func (f BuildTypeFilter) Admits(buildTypeID string) bool {
	if buildTypeID == "" || f.All || len(f.IDs) == 0 {
		return true
	}
	return slices.Contains(f.IDs, buildTypeID)
}

// Project is one node of the project hierarchy
type Project struct {
	ID         string
	ExternalID string
	Name       string
	ParentID   string
}

// ProjectSettings is the webhook settings stored on one project
type ProjectSettings struct {
	ProjectID string
	Enabled   bool
	Configs   []WebHookConfig
}

/* Resolved is a config selected for an event, annotated with the project that owns it
 * The owning project is the ancestor the config was declared on, not the event's project
 */
type Resolved struct {
	Config            WebHookConfig
	ProjectID         string
	ProjectExternalID string
}
