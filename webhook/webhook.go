package webhook

import (
	"time"

	"github.com/google/uuid"
)

/* WebHook is one delivery unit of work for an event and config pair
 * Uses value semantics as it represents data; the executor fills Stats through a pointer
 */
type WebHook struct {
	URL            string
	ContentType    string
	Payload        string
	Enabled        bool
	DisabledReason string
	ProxyHost      string
	ProxyPort      int
	Params         map[string]string
	Stats          ExecutionStats
}

// New creates a not yet sent delivery for url
func New(url string) WebHook {
	return WebHook{
		URL:   url,
		Stats: NewExecutionStats(),
	}
}

// Disable marks the delivery as not to be sent
func (w *WebHook) Disable(reason string) {
	w.Enabled = false
	w.DisabledReason = reason
}

// HasProxy reports whether the delivery goes through an HTTP proxy
func (w WebHook) HasProxy() bool {
	return w.ProxyHost != "" && w.ProxyPort > 0
}

/* ExecutionStats records what happened to one delivery attempt
 * Copied into the history item after the attempt
 */
type ExecutionStats struct {
	TrackingID       uuid.UUID `json:"tracking_id"`
	InitTime         time.Time `json:"init_time"`
	RequestStarted   time.Time `json:"request_started,omitzero"`
	RequestCompleted time.Time `json:"request_completed,omitzero"`
	StatusCode       int       `json:"status_code,omitempty"`
	StatusReason     string    `json:"status_reason,omitempty"`
	Errored          bool      `json:"errored"`
	ErrorCode        int       `json:"error_code,omitempty"`
	Message          string    `json:"message,omitempty"`
	Outcome          Outcome   `json:"outcome"`
}

// NewExecutionStats starts stats for a new attempt
func NewExecutionStats() ExecutionStats {
	return ExecutionStats{
		TrackingID: uuid.New(),
		InitTime:   time.Now().UTC(),
		Outcome:    NotSent,
	}
}

// Fail marks the attempt as errored with the code carried by err
func (s *ExecutionStats) Fail(outcome Outcome, err error) {
	s.Outcome = outcome
	s.Errored = true
	s.ErrorCode = ErrorCode(err)
	s.Message = err.Error()
}

// Elapsed returns the time spent on the HTTP request
func (s ExecutionStats) Elapsed() time.Duration {
	if s.RequestStarted.IsZero() || s.RequestCompleted.IsZero() {
		return 0
	}
	return s.RequestCompleted.Sub(s.RequestStarted)
}
