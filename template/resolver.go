package template

import (
	"errors"
	"fmt"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/rs/zerolog"
)

// Source is the registered template set seen by the resolver
type Source interface {
	Lookup(locator string) (Template, error)
	Default(format string) (Template, bool)
}

// Scope is what the lookup knows about the config and the triggering build
type Scope struct {
	// Locator is the config template reference, empty selects the format default
	Locator     string
	BranchBuild bool
	// Refined lists refined kinds tried before the raw kind, most specific first
	Refined []event.Kind
}

// Resolver selects the template content used to render an event
type Resolver struct {
	source Source
	log    zerolog.Logger
}

// NewResolver creates a new template resolver
func NewResolver(source Source, log zerolog.Logger) *Resolver {
	return &Resolver{
		source: source,
		log:    log.With().Str("component", "template_resolver").Logger(),
	}
}

/* Find returns the content to render kind with
 * An inline override wins outright. Otherwise each candidate kind (refined, then raw) is tried
 * with the branch variant first for branch builds; the first default entry found decides.
 * The returned content has its date format inherited from the template when empty.
 */
func (r *Resolver) Find(kind event.Kind, scope Scope, format string, override string) (Content, error) {
	if override != "" {
		return Content{State: kind, Text: override, Enabled: true}, nil
	}

	t, err := r.template(scope.Locator, format)
	if err != nil {
		return Content{}, err
	}

	candidates := make([]event.Kind, 0, len(scope.Refined)+1)
	for _, k := range scope.Refined {
		if k != kind {
			candidates = append(candidates, k)
		}
	}
	candidates = append(candidates, kind)

	for _, k := range candidates {
		if scope.BranchBuild {
			if c, ok := t.BranchForState(k); ok && c.Enabled {
				return inherit(c, t), nil
			}
		}
		if c, ok := t.ForState(k); ok {
			if !c.Enabled {
				return Content{}, fmt.Errorf("%w: template %s disabled for %s", ErrNotRenderable, t.ID, k)
			}
			return inherit(c, t), nil
		}
	}

	return Content{}, fmt.Errorf("%w: template %s has no content for %s", ErrNotRenderable, t.ID, candidates[0])
}

func (r *Resolver) template(locator, format string) (Template, error) {
	if locator == "" {
		t, ok := r.source.Default(format)
		if !ok {
			return Template{}, fmt.Errorf("%w: no template registered for format %s", ErrNotRenderable, format)
		}
		return t, nil
	}

	t, err := r.source.Lookup(locator)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			r.log.Warn().Str("locator", locator).Msg("Configured template not registered")
			return Template{}, fmt.Errorf("%w: %w", ErrNotRenderable, err)
		}
		return Template{}, fmt.Errorf("looking up template %s: %w", locator, err)
	}
	if !t.SupportsFormat(format) {
		return Template{}, fmt.Errorf("%w: template %s does not support format %s", ErrNotRenderable, t.ID, format)
	}
	return t, nil
}

func inherit(c Content, t Template) Content {
	out := c.Copy()
	if out.DateFormat == "" {
		out.DateFormat = t.DateFormat
	}
	return out
}
