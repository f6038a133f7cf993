package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/marcelsud/webhook-notifier/dispatch"
	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/marcelsud/webhook-notifier/settings"
)

// deliveryResponse represents the outcome of one config in the API
type deliveryResponse struct {
	ConfigID   string `json:"config_id"`
	ProjectID  string `json:"project_id"`
	Result     string `json:"result"`
	Outcome    string `json:"outcome"`
	HistoryID  string `json:"history_id,omitempty"`
	TrackingID string `json:"tracking_id"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// eventResponse represents the API response when dispatching an event
type eventResponse struct {
	Kind       string             `json:"kind"`
	ProjectID  string             `json:"project_id"`
	Deliveries []deliveryResponse `json:"deliveries"`
}

// postEvent handles POST /v1/events
// ?force=true sends regardless of the configured states and build types
func postEvent(dispatcher dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev event.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid event: "+err.Error(), http.StatusBadRequest)
			return
		}

		override := payload.NoOverride
		if raw := r.URL.Query().Get("force"); raw != "" {
			force, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "force must be a boolean", http.StatusBadRequest)
				return
			}
			if force {
				override = payload.ForceEnable
			}
		}

		results, err := dispatcher.DispatchWithOverride(r.Context(), ev, override)
		switch {
		case errors.Is(err, dispatch.ErrInvalidEvent):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, settings.ErrProjectNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := eventResponse{
			Kind:       ev.Kind.String(),
			ProjectID:  ev.ProjectID,
			Deliveries: make([]deliveryResponse, 0, len(results)),
		}
		for _, res := range results {
			d := deliveryResponse{
				ConfigID:   res.Config.Config.ID,
				ProjectID:  res.Config.ProjectID,
				Result:     res.Kind.String(),
				Outcome:    res.Stats.Outcome.String(),
				HistoryID:  res.Item.ID,
				TrackingID: res.Stats.TrackingID.String(),
				StatusCode: res.Stats.StatusCode,
			}
			if res.Err != nil {
				d.Error = res.Err.Error()
			}
			response.Deliveries = append(response.Deliveries, d)
		}

		writeJSON(w, http.StatusOK, response)
	})
}
