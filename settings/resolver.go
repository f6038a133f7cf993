package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

/* Resolver collects the webhook configs that apply to an event's project
 * Uses pointer semantics as it's an API, not data
 */
type Resolver struct {
	Tree    ProjectTree
	Store   Store
	Formats FormatRegistry
	log     zerolog.Logger
}

// NewResolver creates a new config resolver
func NewResolver(tree ProjectTree, store Store, formats FormatRegistry, log zerolog.Logger) *Resolver {
	return &Resolver{
		Tree:    tree,
		Store:   store,
		Formats: formats,
		log:     log.With().Str("component", "config_resolver").Logger(),
	}
}

/* Resolve walks the hierarchy from the root to projectID and returns the applicable configs
 * in hierarchy-then-declaration order. Configs are not deduplicated: a project inheriting
 * from two ancestors gets one entry per ancestor config.
 */
func (r *Resolver) Resolve(ctx context.Context, projectID string) ([]Resolved, error) {
	path, err := r.Tree.Path(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolving project path for %s: %w", projectID, err)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("resolving project path for %s: %w", projectID, ErrProjectNotFound)
	}

	var resolved []Resolved
	for _, project := range path {
		projSettings, err := r.Store.ProjectSettings(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("loading settings for project %s: %w", project.ID, err)
		}
		if !projSettings.Enabled {
			r.log.Debug().Str("project_id", project.ID).Msg("webhooks are disabled for project")
			continue
		}

		for _, cfg := range projSettings.Configs {
			if skip := r.skipReason(cfg, project.ID, projectID); skip != "" {
				evt := r.log.Debug()
				if skip == skipUnregisteredFormat {
					evt = r.log.Warn()
				}
				evt.Str("webhook_id", cfg.ID).
					Str("project_id", project.ID).
					Str("event_project_id", projectID).
					Str("format", cfg.Format).
					Msg(skip)
				continue
			}

			resolved = append(resolved, Resolved{
				Config:            cfg.Clone(),
				ProjectID:         project.ID,
				ProjectExternalID: project.ExternalID,
			})
		}
	}

	return resolved, nil
}

const (
	skipDisabled           = "webhook disabled, skipping"
	skipUnregisteredFormat = "no registered payload format, skipping"
	skipSubProject         = "webhook not enabled for sub-projects, skipping"
)

// skipReason returns why cfg does not apply, or "" when it does
func (r *Resolver) skipReason(cfg WebHookConfig, ownerID, eventProjectID string) string {
	if !cfg.Enabled {
		return skipDisabled
	}
	if r.Formats == nil || !r.Formats.IsRegistered(cfg.Format) {
		return skipUnregisteredFormat
	}
	if ownerID != eventProjectID && !cfg.EnabledForSubProjects {
		return skipSubProject
	}
	return ""
}
