package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcelsud/webhook-notifier/dispatch"
	dispatchmocks "github.com/marcelsud/webhook-notifier/dispatch/mocks"
	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/history"
	historymocks "github.com/marcelsud/webhook-notifier/history/mocks"
	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/template"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const eventBody = `{"kind":"buildStarted","project_id":"project1","entity":{"type":"build","id":"42","name":"Compile"}}`

func newRegistry(t *testing.T) *template.Registry {
	t.Helper()
	templates, err := template.Parse([]byte(`
templates:
  - id: chat
    name: Chat
    rank: 5
    formats: [jsonTemplate]
    content:
      - states: [buildStarted]
        text: '{"text": "${buildName}"}'
`))
	require.NoError(t, err)
	registry := template.NewRegistry()
	require.NoError(t, registry.Replace(templates))
	return registry
}

func serve(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := Handlers(context.Background(), Dependencies{})

	w := serve(h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestPostEvent(t *testing.T) {
	t.Run("success - dispatches and reports deliveries", func(t *testing.T) {
		d := dispatchmocks.NewUseCase(t)
		stats := webhook.NewExecutionStats()
		stats.Outcome = webhook.Success
		stats.StatusCode = http.StatusOK
		d.On("DispatchWithOverride", mock.Anything, mock.MatchedBy(func(ev event.Event) bool {
			return ev.Kind == event.BuildStarted && ev.ProjectID == "project1" && ev.Entity.Name == "Compile"
		}), payload.NoOverride).Return([]dispatch.Result{{
			Kind:   dispatch.Delivered,
			Config: settings.Resolved{Config: settings.WebHookConfig{ID: "hook1"}, ProjectID: "project0"},
			Item:   history.Item{ID: "item1"},
			Stats:  stats,
		}}, nil)

		w := serve(Handlers(context.Background(), Dependencies{Dispatcher: d}), http.MethodPost, "/v1/events", []byte(eventBody))

		require.Equal(t, http.StatusOK, w.Code)
		var resp eventResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "buildStarted", resp.Kind)
		require.Len(t, resp.Deliveries, 1)
		assert.Equal(t, "hook1", resp.Deliveries[0].ConfigID)
		assert.Equal(t, "delivered", resp.Deliveries[0].Result)
		assert.Equal(t, "success", resp.Deliveries[0].Outcome)
		assert.Equal(t, "item1", resp.Deliveries[0].HistoryID)
		assert.Equal(t, stats.TrackingID.String(), resp.Deliveries[0].TrackingID)
	})

	t.Run("success - force enables the delivery", func(t *testing.T) {
		d := dispatchmocks.NewUseCase(t)
		d.On("DispatchWithOverride", mock.Anything, mock.Anything, payload.ForceEnable).Return(nil, nil)

		w := serve(Handlers(context.Background(), Dependencies{Dispatcher: d}), http.MethodPost, "/v1/events?force=true", []byte(eventBody))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"kind":"buildStarted","project_id":"project1","deliveries":[]}`, w.Body.String())
	})

	t.Run("error - malformed body", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{Dispatcher: dispatchmocks.NewUseCase(t)}), http.MethodPost, "/v1/events", []byte(`{`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - unknown kind", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{Dispatcher: dispatchmocks.NewUseCase(t)}), http.MethodPost, "/v1/events", []byte(`{"kind":"buildExploded","project_id":"p"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - invalid force flag", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{Dispatcher: dispatchmocks.NewUseCase(t)}), http.MethodPost, "/v1/events?force=maybe", []byte(eventBody))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"error - invalid event", fmt.Errorf("%w: project id is required", dispatch.ErrInvalidEvent), http.StatusBadRequest},
		{"error - unknown project", fmt.Errorf("resolving: %w", settings.ErrProjectNotFound), http.StatusNotFound},
		{"error - resolver failure", errors.New("store unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dispatchmocks.NewUseCase(t)
			d.On("DispatchWithOverride", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(Handlers(context.Background(), Dependencies{Dispatcher: d}), http.MethodPost, "/v1/events", []byte(eventBody))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetHistory(t *testing.T) {
	t.Run("success - by config with default limit", func(t *testing.T) {
		repo := historymocks.NewRepository(t)
		repo.On("ListByConfig", mock.Anything, "hook1", defaultHistoryLimit).
			Return([]history.Item{{ID: "i2", EventKind: event.BuildStarted}, {ID: "i1", EventKind: event.BuildStarted}}, nil)

		w := serve(Handlers(context.Background(), Dependencies{History: repo}), http.MethodGet, "/v1/history?config_id=hook1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var items []history.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "i2", items[0].ID)
	})

	t.Run("success - by project empty", func(t *testing.T) {
		repo := historymocks.NewRepository(t)
		repo.On("ListByProject", mock.Anything, "project0", 5).Return(nil, nil)

		w := serve(Handlers(context.Background(), Dependencies{History: repo}), http.MethodGet, "/v1/history?project_id=project0&limit=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("error - missing filter", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{History: historymocks.NewRepository(t)}), http.MethodGet, "/v1/history", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - invalid limit", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{History: historymocks.NewRepository(t)}), http.MethodGet, "/v1/history?config_id=x&limit=-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success - single item", func(t *testing.T) {
		repo := historymocks.NewRepository(t)
		repo.On("Get", mock.Anything, "i1").Return(history.Item{ID: "i1", ConfigID: "hook1", EventKind: event.BuildFinished}, nil)

		w := serve(Handlers(context.Background(), Dependencies{History: repo}), http.MethodGet, "/v1/history/i1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var item history.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		assert.Equal(t, "hook1", item.ConfigID)
	})

	t.Run("error - item not found", func(t *testing.T) {
		repo := historymocks.NewRepository(t)
		repo.On("Get", mock.Anything, "nope").Return(history.Item{}, fmt.Errorf("%w: nope", history.ErrNotFound))

		w := serve(Handlers(context.Background(), Dependencies{History: repo}), http.MethodGet, "/v1/history/nope", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTemplates(t *testing.T) {
	t.Run("success - lists registered templates", func(t *testing.T) {
		w := serve(Handlers(context.Background(), Dependencies{Templates: newRegistry(t)}), http.MethodGet, "/v1/templates", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var templates []templateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &templates))
		require.Len(t, templates, 1)
		assert.Equal(t, "chat", templates[0].ID)
		assert.Equal(t, []event.Kind{event.BuildStarted}, templates[0].States)
	})

	t.Run("success - reload", func(t *testing.T) {
		registry := newRegistry(t)
		reload := func(context.Context) (int, error) { return registry.Len(), nil }

		w := serve(Handlers(context.Background(), Dependencies{Templates: registry, Reload: reload}), http.MethodPost, "/v1/templates/reload", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"templates":1}`, w.Body.String())
	})

	t.Run("error - reload failure", func(t *testing.T) {
		reload := func(context.Context) (int, error) { return 0, errors.New("duplicate template id chat") }

		w := serve(Handlers(context.Background(), Dependencies{Templates: newRegistry(t), Reload: reload}), http.MethodPost, "/v1/templates/reload", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("webhook_deliveries_total 1\n"))
	})

	w := serve(Handlers(context.Background(), Dependencies{Metrics: metrics}), http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "webhook_deliveries_total")
}
