package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/settings/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var hierarchy = []settings.Project{
	{ID: "project0", ExternalID: "_Root", Name: "Root"},
	{ID: "project1", ExternalID: "TeamA", Name: "Team A", ParentID: "project0"},
	{ID: "project2", ExternalID: "ProjectX", Name: "Project X", ParentID: "project1"},
}

func webhookConfig(id string, subProjects bool) settings.WebHookConfig {
	return settings.WebHookConfig{
		ID:                    id,
		URL:                   "http://example.com/" + id,
		Format:                "jsonTemplate",
		Enabled:               true,
		EnabledForSubProjects: subProjects,
		Params:                map[string]string{"color": "red"},
	}
}

func newResolver(t *testing.T, byProject map[string]settings.ProjectSettings, registered bool) *settings.Resolver {
	t.Helper()

	tree := mocks.NewProjectTree(t)
	tree.On("Path", mock.Anything, "project2").Return(hierarchy, nil).Maybe()
	tree.On("Path", mock.Anything, "project1").Return(hierarchy[:2], nil).Maybe()

	store := mocks.NewStore(t)
	for _, p := range hierarchy {
		ps, ok := byProject[p.ID]
		if !ok {
			ps = settings.ProjectSettings{ProjectID: p.ID, Enabled: true}
		}
		store.On("ProjectSettings", mock.Anything, p.ID).Return(ps, nil).Maybe()
	}

	formats := mocks.NewFormatRegistry(t)
	formats.On("IsRegistered", mock.Anything).Return(registered).Maybe()

	return settings.NewResolver(tree, store, formats, zerolog.Nop())
}

func configIDs(resolved []settings.Resolved) []string {
	ids := make([]string, 0, len(resolved))
	for _, r := range resolved {
		ids = append(ids, r.Config.ID)
	}
	return ids
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("success - root config inherited and stamped with root ids", func(t *testing.T) {
		r := newResolver(t, map[string]settings.ProjectSettings{
			"project0": {ProjectID: "project0", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("root-hook", true)}},
		}, true)

		resolved, err := r.Resolve(ctx, "project2")

		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, "root-hook", resolved[0].Config.ID)
		assert.Equal(t, "project0", resolved[0].ProjectID)
		assert.Equal(t, "_Root", resolved[0].ProjectExternalID)
	})

	t.Run("sub-project disabled config excluded for descendants, included for owner", func(t *testing.T) {
		byProject := map[string]settings.ProjectSettings{
			"project1": {ProjectID: "project1", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("team-only", false)}},
		}

		resolved, err := newResolver(t, byProject, true).Resolve(ctx, "project2")
		require.NoError(t, err)
		assert.Empty(t, resolved)

		resolved, err = newResolver(t, byProject, true).Resolve(ctx, "project1")
		require.NoError(t, err)
		assert.Equal(t, []string{"team-only"}, configIDs(resolved))
	})

	t.Run("unregistered format removes every config", func(t *testing.T) {
		r := newResolver(t, map[string]settings.ProjectSettings{
			"project0": {ProjectID: "project0", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("a", true)}},
			"project2": {ProjectID: "project2", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("b", true)}},
		}, false)

		resolved, err := r.Resolve(ctx, "project2")

		require.NoError(t, err)
		assert.Empty(t, resolved)
	})

	t.Run("disabled configs and disabled projects are skipped", func(t *testing.T) {
		disabled := webhookConfig("disabled", true)
		disabled.Enabled = false

		r := newResolver(t, map[string]settings.ProjectSettings{
			"project0": {ProjectID: "project0", Enabled: false, Configs: []settings.WebHookConfig{webhookConfig("root", true)}},
			"project1": {ProjectID: "project1", Enabled: true, Configs: []settings.WebHookConfig{disabled, webhookConfig("team", true)}},
			"project2": {ProjectID: "project2", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("own", false)}},
		}, true)

		resolved, err := r.Resolve(ctx, "project2")

		require.NoError(t, err)
		assert.Equal(t, []string{"team", "own"}, configIDs(resolved))
	})

	t.Run("hierarchy then declaration order, no dedup, idempotent", func(t *testing.T) {
		r := newResolver(t, map[string]settings.ProjectSettings{
			"project0": {ProjectID: "project0", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("r1", true), webhookConfig("r2", true)}},
			"project1": {ProjectID: "project1", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("t1", true)}},
			"project2": {ProjectID: "project2", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("r1", true)}},
		}, true)

		first, err := r.Resolve(ctx, "project2")
		require.NoError(t, err)
		second, err := r.Resolve(ctx, "project2")
		require.NoError(t, err)

		assert.Equal(t, []string{"r1", "r2", "t1", "r1"}, configIDs(first))
		assert.Equal(t, first, second)
	})

	t.Run("resolved configs are detached from the store", func(t *testing.T) {
		r := newResolver(t, map[string]settings.ProjectSettings{
			"project0": {ProjectID: "project0", Enabled: true, Configs: []settings.WebHookConfig{webhookConfig("r1", true)}},
		}, true)

		first, err := r.Resolve(ctx, "project2")
		require.NoError(t, err)
		first[0].Config.Params["color"] = "blue"

		second, err := r.Resolve(ctx, "project2")
		require.NoError(t, err)
		assert.Equal(t, "red", second[0].Config.Params["color"])
	})

	t.Run("error - unknown project", func(t *testing.T) {
		tree := mocks.NewProjectTree(t)
		tree.On("Path", mock.Anything, "ghost").Return(nil, settings.ErrProjectNotFound)

		r := settings.NewResolver(tree, mocks.NewStore(t), mocks.NewFormatRegistry(t), zerolog.Nop())
		_, err := r.Resolve(ctx, "ghost")

		require.Error(t, err)
		assert.True(t, errors.Is(err, settings.ErrProjectNotFound))
	})
}
