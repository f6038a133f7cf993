package chi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-notifier/history"
)

const defaultHistoryLimit = 50

// getHistory handles GET /v1/history?config_id=|project_id=&limit=
func getHistory(reader history.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit := defaultHistoryLimit
		if raw := query.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		var (
			items []history.Item
			err   error
		)
		switch {
		case query.Get("config_id") != "":
			items, err = reader.ListByConfig(r.Context(), query.Get("config_id"), limit)
		case query.Get("project_id") != "":
			items, err = reader.ListByProject(r.Context(), query.Get("project_id"), limit)
		default:
			http.Error(w, "config_id or project_id is required", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []history.Item{}
		}

		writeJSON(w, http.StatusOK, items)
	})
}

// getHistoryItem handles GET /v1/history/{id}
func getHistoryItem(reader history.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		item, err := reader.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, history.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})
}
