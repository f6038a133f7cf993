package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/rs/zerolog"
)

/* Recorder turns every delivery attempt into an appended history item
 * Uses pointer semantics as it's an API, not data
 */
type Recorder struct {
	Repo Writer
	log  zerolog.Logger
}

// NewRecorder creates a new history recorder with dependency injection
func NewRecorder(repo Writer, log zerolog.Logger) *Recorder {
	return &Recorder{
		Repo: repo,
		log:  log.With().Str("component", "history_recorder").Logger(),
	}
}

// Record appends one item for the attempt described by stats
func (r *Recorder) Record(ctx context.Context, resolved settings.Resolved, stats webhook.ExecutionStats, ev event.Event, errStatus *ErrorStatus) (Item, error) {
	item := Item{
		ID:                uuid.New().String(),
		ConfigID:          resolved.Config.ID,
		ProjectID:         resolved.ProjectID,
		ProjectExternalID: resolved.ProjectExternalID,
		EventProjectID:    ev.ProjectID,
		URL:               resolved.Config.URL,
		Format:            resolved.Config.Format,
		EventKind:         ev.Kind,
		Entity: Entity{
			Type:        ev.Entity.Type,
			ID:          ev.Entity.ID,
			Name:        ev.Entity.Name,
			BuildTypeID: ev.Entity.BuildTypeID,
		},
		Stats:     stats,
		Error:     errStatus,
		CreatedAt: time.Now().UTC(),
	}
	if errStatus != nil {
		item.Stats.Errored = true
		item.Stats.ErrorCode = errStatus.Code
		item.Stats.Message = errStatus.Message
	}

	if err := r.Repo.Append(ctx, item); err != nil {
		return Item{}, fmt.Errorf("appending history item: %w", err)
	}

	r.log.Debug().
		Str("tracking_id", stats.TrackingID.String()).
		Str("config_id", item.ConfigID).
		Str("outcome", item.Stats.Outcome.String()).
		Msg("History item recorded")
	return item, nil
}
