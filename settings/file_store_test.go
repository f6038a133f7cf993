package settings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `
projects:
  - id: project0
    external_id: _Root
    name: Root
    webhooks:
      - id: root-hook
        url: https://hooks.example.com/root
        format: jsonTemplate
        params:
          channel: builds
  - id: project1
    external_id: TeamA
    parent: project0
    webhooks:
      - id: team-hook
        url: http://team.example.com/hook
        format: nvpairs
        enabled_for_subprojects: false
        states: [buildStarted, buildFinished, buildFailed]
        build_types:
          ids: [bt1]
        proxy: proxy.local:3128
  - id: project2
    parent: project1
    webhooks_enabled: false
`

func TestFileStore_Parse(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := settings.NewFileStore()
		require.NoError(t, store.Parse([]byte(settingsYAML)))

		path, err := store.Path(ctx, "project2")
		require.NoError(t, err)
		require.Len(t, path, 3)
		assert.Equal(t, "project0", path[0].ID)
		assert.Equal(t, "project2", path[2].ID)
		assert.Equal(t, "project2", path[2].ExternalID)

		root, err := store.ProjectSettings(ctx, "project0")
		require.NoError(t, err)
		require.Len(t, root.Configs, 1)
		cfg := root.Configs[0]
		assert.True(t, cfg.Enabled)
		assert.True(t, cfg.EnabledForSubProjects)
		assert.True(t, cfg.BuildTypes.All)
		assert.Equal(t, settings.States(0), cfg.States)
		assert.Equal(t, "builds", cfg.Params["channel"])

		team, err := store.ProjectSettings(ctx, "project1")
		require.NoError(t, err)
		cfg = team.Configs[0]
		assert.False(t, cfg.EnabledForSubProjects)
		assert.Equal(t, []event.Kind{event.BuildStarted, event.BuildFinished, event.BuildFailed}, cfg.States.Kinds())
		assert.Equal(t, []string{"bt1"}, cfg.BuildTypes.IDs)
		assert.Equal(t, "proxy.local:3128", cfg.Proxy)

		leaf, err := store.ProjectSettings(ctx, "project2")
		require.NoError(t, err)
		assert.False(t, leaf.Enabled)

		assert.Len(t, store.Projects(), 3)
	})

	t.Run("returned settings are copies", func(t *testing.T) {
		store := settings.NewFileStore()
		require.NoError(t, store.Parse([]byte(settingsYAML)))

		ps, err := store.ProjectSettings(ctx, "project0")
		require.NoError(t, err)
		ps.Configs[0].Params["channel"] = "changed"

		ps, err = store.ProjectSettings(ctx, "project0")
		require.NoError(t, err)
		assert.Equal(t, "builds", ps.Configs[0].Params["channel"])
	})

	t.Run("error - unknown project", func(t *testing.T) {
		store := settings.NewFileStore()
		require.NoError(t, store.Parse([]byte(settingsYAML)))

		_, err := store.Path(ctx, "ghost")
		assert.True(t, errors.Is(err, settings.ErrProjectNotFound))

		_, err = store.ProjectSettings(ctx, "ghost")
		assert.True(t, errors.Is(err, settings.ErrProjectNotFound))
	})

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown state",
			yaml: "projects:\n  - id: p\n    webhooks:\n      - id: w\n        url: http://x.io\n        format: json\n        states: [nope]\n",
			want: "parsing settings YAML",
		},
		{
			name: "duplicate project",
			yaml: "projects:\n  - id: p\n  - id: p\n",
			want: "duplicate project p",
		},
		{
			name: "duplicate webhook id",
			yaml: "projects:\n  - id: a\n    webhooks:\n      - {id: w, url: http://x.io, format: json}\n  - id: b\n    webhooks:\n      - {id: w, url: http://y.io, format: json}\n",
			want: "webhook w declared on a and b",
		},
		{
			name: "unknown parent",
			yaml: "projects:\n  - id: a\n    parent: ghost\n",
			want: "unknown parent ghost",
		},
		{
			name: "cycle",
			yaml: "projects:\n  - id: a\n    parent: b\n  - id: b\n    parent: a\n",
			want: "cycle",
		},
		{
			name: "missing url",
			yaml: "projects:\n  - id: a\n    webhooks:\n      - {id: w, format: json}\n",
			want: "url cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run("error - "+tt.name, func(t *testing.T) {
			store := settings.NewFileStore()
			err := store.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("error - failed parse keeps previous snapshot", func(t *testing.T) {
		store := settings.NewFileStore()
		require.NoError(t, store.Parse([]byte(settingsYAML)))
		require.Error(t, store.Parse([]byte("projects:\n  - id: ''\n")))

		assert.Len(t, store.Projects(), 3)
	})
}

func TestFileStore_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settingsYAML), 0o600))

	store := settings.NewFileStore()
	require.NoError(t, store.Load(path))
	assert.Len(t, store.Projects(), 3)

	err := settings.NewFileStore().Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading settings file")
}
