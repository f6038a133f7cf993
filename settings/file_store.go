package settings

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

/* FileStore serves the project hierarchy and webhook settings from a settings.yaml file
 * Implements both ProjectTree and Store; a reload swaps the whole snapshot
 */

// File represents the structure of settings.yaml
type File struct {
	Projects []ProjectFile `yaml:"projects"`
}

// ProjectFile represents a single project in the YAML file
type ProjectFile struct {
	ID              string        `yaml:"id"`
	ExternalID      string        `yaml:"external_id"`
	Name            string        `yaml:"name"`
	Parent          string        `yaml:"parent"`
	WebhooksEnabled *bool         `yaml:"webhooks_enabled"` // Default: true
	Webhooks        []WebHookFile `yaml:"webhooks"`
}

// WebHookFile represents a single webhook config in the YAML file
type WebHookFile struct {
	ID                    string            `yaml:"id"`
	URL                   string            `yaml:"url"`
	Format                string            `yaml:"format"`
	Enabled               *bool             `yaml:"enabled"`                 // Default: true
	EnabledForSubProjects *bool             `yaml:"enabled_for_subprojects"` // Default: true
	States                []event.Kind      `yaml:"states"`                  // Empty: all states
	Template              string            `yaml:"template"`
	InlineTemplate        string            `yaml:"inline_template"`
	Params                map[string]string `yaml:"params"`
	BuildTypes            *BuildTypesFile   `yaml:"build_types"` // Default: all build types
	Proxy                 string            `yaml:"proxy"`
}

// BuildTypesFile represents the build type filter in the YAML file
type BuildTypesFile struct {
	All bool     `yaml:"all"`
	IDs []string `yaml:"ids"`
}

type snapshot struct {
	projects map[string]Project
	settings map[string]ProjectSettings
	order    []string
}

// FileStore holds the loaded settings
type FileStore struct {
	mu   sync.RWMutex
	snap snapshot
}

// NewFileStore creates an empty file store
func NewFileStore() *FileStore {
	return &FileStore{
		snap: snapshot{
			projects: make(map[string]Project),
			settings: make(map[string]ProjectSettings),
		},
	}
}

// Load reads and parses the settings file
func (s *FileStore) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}
	return s.Parse(data)
}

// Parse validates YAML settings and replaces the current snapshot
func (s *FileStore) Parse(data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing settings YAML: %w", err)
	}

	next := snapshot{
		projects: make(map[string]Project, len(file.Projects)),
		settings: make(map[string]ProjectSettings, len(file.Projects)),
	}
	webhookIDs := make(map[string]string)

	for _, pf := range file.Projects {
		if pf.ID == "" {
			return fmt.Errorf("validating settings: project id cannot be empty")
		}
		if _, exists := next.projects[pf.ID]; exists {
			return fmt.Errorf("validating settings: duplicate project %s", pf.ID)
		}
		externalID := pf.ExternalID
		if externalID == "" {
			externalID = pf.ID
		}
		next.projects[pf.ID] = Project{
			ID:         pf.ID,
			ExternalID: externalID,
			Name:       pf.Name,
			ParentID:   pf.Parent,
		}
		next.order = append(next.order, pf.ID)

		ps := ProjectSettings{
			ProjectID: pf.ID,
			Enabled:   boolOr(pf.WebhooksEnabled, true),
		}
		for _, wf := range pf.Webhooks {
			cfg := wf.toConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validating settings for project %s: %w", pf.ID, err)
			}
			if owner, exists := webhookIDs[cfg.ID]; exists {
				return fmt.Errorf("validating settings: webhook %s declared on %s and %s", cfg.ID, owner, pf.ID)
			}
			webhookIDs[cfg.ID] = pf.ID
			ps.Configs = append(ps.Configs, cfg)
		}
		next.settings[pf.ID] = ps
	}

	for _, id := range next.order {
		if _, err := pathOf(next.projects, id); err != nil {
			return fmt.Errorf("validating settings: %w", err)
		}
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return nil
}

func (wf WebHookFile) toConfig() WebHookConfig {
	filter := BuildTypeFilter{All: true}
	if wf.BuildTypes != nil {
		filter = BuildTypeFilter{All: wf.BuildTypes.All, IDs: wf.BuildTypes.IDs}
	}
	return WebHookConfig{
		ID:                    wf.ID,
		URL:                   wf.URL,
		Format:                wf.Format,
		Enabled:               boolOr(wf.Enabled, true),
		States:                NewStates(wf.States...),
		EnabledForSubProjects: boolOr(wf.EnabledForSubProjects, true),
		Template:              wf.Template,
		InlineTemplate:        wf.InlineTemplate,
		Params:                wf.Params,
		BuildTypes:            filter,
		Proxy:                 wf.Proxy,
	}
}

// Path returns the ancestor chain from the root to projectID
func (s *FileStore) Path(_ context.Context, projectID string) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pathOf(s.snap.projects, projectID)
}

// ProjectSettings returns a copy of the settings stored on a project
func (s *FileStore) ProjectSettings(_ context.Context, projectID string) (ProjectSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, exists := s.snap.settings[projectID]
	if !exists {
		return ProjectSettings{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	configs := make([]WebHookConfig, len(ps.Configs))
	for i, cfg := range ps.Configs {
		configs[i] = cfg.Clone()
	}
	ps.Configs = configs
	return ps, nil
}

// Projects returns all loaded projects in file order
func (s *FileStore) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]Project, 0, len(s.snap.order))
	for _, id := range s.snap.order {
		projects = append(projects, s.snap.projects[id])
	}
	return projects
}

func pathOf(projects map[string]Project, projectID string) ([]Project, error) {
	var reversed []Project // own project first
	seen := make(map[string]bool)

	for id := projectID; id != ""; {
		project, exists := projects[id]
		if !exists {
			if id == projectID {
				return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
			}
			return nil, fmt.Errorf("project %s has unknown parent %s", projectID, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("project hierarchy cycle at %s", id)
		}
		seen[id] = true
		reversed = append(reversed, project)
		id = project.ParentID
	}

	return lo.Reverse(reversed), nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
