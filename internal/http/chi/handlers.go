package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-notifier/dispatch"
	"github.com/marcelsud/webhook-notifier/history"
	"github.com/marcelsud/webhook-notifier/template"
)

// TemplateCatalog lists the registered templates
type TemplateCatalog interface {
	List() []template.Template
}

// Reloader reloads the template set and returns how many templates are registered
type Reloader func(ctx context.Context) (int, error)

// Dependencies are the services exposed over HTTP
type Dependencies struct {
	Dispatcher dispatch.UseCase
	History    history.Reader
	Templates  TemplateCatalog
	Reload     Reloader
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// Handlers sets up the notifier API routes
func Handlers(ctx context.Context, deps Dependencies) *chi.Mux {
	logger := httplog.NewLogger("webhook-notifier", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/events", postEvent(deps.Dispatcher))

		r.Method(http.MethodGet, "/history", getHistory(deps.History))
		r.Method(http.MethodGet, "/history/{id}", getHistoryItem(deps.History))

		r.Method(http.MethodGet, "/templates", getTemplates(deps.Templates))
		if deps.Reload != nil {
			r.Method(http.MethodPost, "/templates/reload", reloadTemplates(deps.Reload))
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
