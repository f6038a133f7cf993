package chi

import (
	"net/http"

	"github.com/marcelsud/webhook-notifier/event"
)

// templateResponse represents a registered template in the API
type templateResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Description  string       `json:"description,omitempty"`
	Rank         int          `json:"rank"`
	Formats      []string     `json:"formats"`
	States       []event.Kind `json:"states"`
	BranchStates []event.Kind `json:"branch_states,omitempty"`
}

// getTemplates handles GET /v1/templates
func getTemplates(catalog TemplateCatalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all := catalog.List()

		responses := make([]templateResponse, 0, len(all))
		for _, t := range all {
			responses = append(responses, templateResponse{
				ID:           t.ID,
				Name:         t.Name,
				Description:  t.Description,
				Rank:         t.Rank,
				Formats:      t.Formats,
				States:       t.States(),
				BranchStates: t.BranchStates(),
			})
		}

		writeJSON(w, http.StatusOK, responses)
	})
}

// reloadTemplates handles POST /v1/templates/reload
func reloadTemplates(reload Reloader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := reload(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"templates": n})
	})
}
