package template_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templatesYAML = `
templates:
  - id: slack.com-compact
    name: Slack compact
    rank: 100
    formats: [jsonTemplate]
    date_format: "2006-01-02 15:04"
    content:
      - states: [buildStarted, buildInterrupted]
        text: '{"text": "${buildName} ${buildStateDescription}"}'
      - states: [buildInterrupted]
        text: '{"text": "${branchDisplayName} interrupted"}'
        variant: branch
        enabled: false
      - states: [buildSuccessful, buildFixed]
        text: '{"text": "${buildName} passed"}'
        variant: all
        date_format: "15:04"
      - states: [buildFailed]
        text: '{"text": "${branchDisplayName} failed"}'
        variant: branch
      - states: [buildFailed]
        text: '{"text": "${buildName} failed"}'
      - states: [beforeBuildFinish]
        text: '{"text": "almost"}'
        enabled: false
  - id: legacy
    name: Legacy parameters
    formats: [nvpairs, json]
    content:
      - states: [buildStarted, buildFinished, responsibilityChanged]
`

func TestParse(t *testing.T) {
	t.Run("success - combined states and variants", func(t *testing.T) {
		templates, err := template.Parse([]byte(templatesYAML))
		require.NoError(t, err)
		require.Len(t, templates, 2)

		slack := templates[0]
		assert.Equal(t, "slack.com-compact", slack.ID)
		assert.Equal(t, []event.Kind{
			event.BuildStarted, event.BuildInterrupted, event.BeforeBuildFinished,
			event.BuildSuccessful, event.BuildFailed, event.BuildFixed,
		}, slack.States())
		assert.Equal(t, []event.Kind{event.BuildInterrupted, event.BuildSuccessful, event.BuildFailed, event.BuildFixed}, slack.BranchStates())

		interrupted, ok := slack.BranchForState(event.BuildInterrupted)
		require.True(t, ok)
		assert.False(t, interrupted.Enabled)

		started, ok := slack.ForState(event.BuildStarted)
		require.True(t, ok)
		assert.True(t, started.Enabled)
		assert.Empty(t, started.DateFormat)

		fixed, ok := slack.BranchForState(event.BuildFixed)
		require.True(t, ok)
		assert.Equal(t, "15:04", fixed.DateFormat)

		before, ok := slack.ForState(event.BeforeBuildFinished)
		require.True(t, ok)
		assert.False(t, before.Enabled)

		legacy := templates[1]
		assert.True(t, legacy.SupportsFormat("json"))
		assert.False(t, legacy.SupportsFormat("jsonTemplate"))
	})

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "templates:\n  - formats: [json]\n    content:\n      - states: [buildStarted]\n",
			want: "template id cannot be empty",
		},
		{
			name: "no formats",
			yaml: "templates:\n  - id: t\n    content:\n      - states: [buildStarted]\n",
			want: "at least one format",
		},
		{
			name: "unknown variant",
			yaml: "templates:\n  - id: t\n    formats: [json]\n    content:\n      - states: [buildStarted]\n        variant: nightly\n",
			want: "unknown variant",
		},
		{
			name: "duplicate state",
			yaml: "templates:\n  - id: t\n    formats: [json]\n    content:\n      - states: [buildStarted]\n      - states: [buildStarted]\n        variant: all\n",
			want: "declared twice",
		},
		{
			name: "unknown state",
			yaml: "templates:\n  - id: t\n    formats: [json]\n    content:\n      - states: [buildExploded]\n",
			want: "parsing templates YAML",
		},
		{
			name: "empty states",
			yaml: "templates:\n  - id: t\n    formats: [json]\n    content:\n      - text: x\n",
			want: "states cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run("error - "+tt.name, func(t *testing.T) {
			_, err := template.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegistry_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(templatesYAML), 0o600))

	registry := template.NewRegistry()
	require.NoError(t, registry.Load(path))
	assert.Equal(t, 2, registry.Len())

	err := registry.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading templates file")
	assert.Equal(t, 2, registry.Len())
}
