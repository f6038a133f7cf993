package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const UserAgent = "webhook-notifier"

const defaultTimeout = 30 * time.Second

/* Executor performs one HTTP POST per enabled delivery and classifies the outcome
 * Uses pointer semantics as it's an API, not data; one resty client is kept per proxy
 */
type Executor struct {
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	clients map[string]*resty.Client
}

// NewExecutor creates a new delivery executor, a zero timeout uses the default
func NewExecutor(timeout time.Duration, log zerolog.Logger) *Executor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Executor{
		timeout: timeout,
		log:     log.With().Str("component", "delivery_executor").Logger(),
		clients: make(map[string]*resty.Client),
	}
}

/* Post delivers wh and records timing and status into wh.Stats
 * A disabled delivery makes no call and returns nil. Failures are returned as
 * *ExecutionError or *ResponseError and are already recorded in the stats.
 */
func (e *Executor) Post(ctx context.Context, wh *WebHook) error {
	log := e.log.With().
		Str("tracking_id", wh.Stats.TrackingID.String()).
		Str("url", wh.URL).
		Logger()

	if !wh.Enabled {
		wh.Stats.Outcome = Disabled
		wh.Stats.Message = wh.DisabledReason
		log.Debug().Str("reason", wh.DisabledReason).Msg("Delivery disabled")
		return nil
	}

	wh.Stats.Outcome = Sent
	wh.Stats.RequestStarted = time.Now().UTC()
	res, err := e.client(wh).R().
		SetContext(ctx).
		SetHeader("Content-Type", wh.ContentType).
		SetBody(wh.Payload).
		Post(wh.URL)
	wh.Stats.RequestCompleted = time.Now().UTC()

	if err != nil {
		execErr := NewExecutionError(err)
		wh.Stats.Fail(TransportError, execErr)
		log.Warn().Err(err).Msg("Delivery transport failure")
		return execErr
	}

	if err := wh.Stats.recordStatus(res.StatusCode()); err != nil {
		log.Warn().
			Int("status_code", wh.Stats.StatusCode).
			Dur("elapsed", wh.Stats.Elapsed()).
			Msg("Delivery rejected by endpoint")
		return err
	}

	log.Info().
		Int("status_code", wh.Stats.StatusCode).
		Dur("elapsed", wh.Stats.Elapsed()).
		Msg("Delivery succeeded")
	return nil
}

func (s *ExecutionStats) recordStatus(code int) error {
	if code == 0 {
		err := &ExecutionError{Code: ErrorCodeExecution, Message: noResponseCode}
		s.Fail(TransportError, err)
		return err
	}

	s.StatusCode = code
	s.StatusReason = http.StatusText(code)
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		err := &ResponseError{StatusCode: code, Reason: s.StatusReason}
		s.Fail(HTTPError, err)
		return err
	}

	s.Outcome = Success
	return nil
}

func (e *Executor) client(wh *WebHook) *resty.Client {
	key := ""
	if wh.HasProxy() {
		key = net.JoinHostPort(wh.ProxyHost, strconv.Itoa(wh.ProxyPort))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[key]; ok {
		return c
	}

	c := resty.New().
		SetTimeout(e.timeout).
		SetHeader("User-Agent", UserAgent)
	if key == "" {
		c.RemoveProxy()
	} else {
		c.SetProxy(fmt.Sprintf("http://%s", key))
	}
	e.clients[key] = c
	return c
}
