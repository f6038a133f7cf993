package payload

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/template"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// DefaultDateFormat is used when neither the template content nor the template sets one
const DefaultDateFormat = time.RFC3339

// ErrUnknownFormat is returned when a config names a format that is not registered
var ErrUnknownFormat = errors.New("payload format not registered")

// TemplateFinder selects the template content for an event
type TemplateFinder interface {
	Find(kind event.Kind, scope template.Scope, format string, override string) (template.Content, error)
}

// FormatSource looks up enabled payload formats
type FormatSource interface {
	Get(name string) (Format, bool)
}

// ProxyRule returns the proxy for a target url, empty host for a direct connection
type ProxyRule func(targetURL string) (host string, port int)

/* Builder turns a resolved config and an event into a ready to send WebHook
 * Uses pointer semantics as it's an API, not data
 */
type Builder struct {
	templates  TemplateFinder
	formats    FormatSource
	rootURL    string
	dateFormat string
	proxyRule  ProxyRule
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithRootURL sets the base url used for links to builds
func WithRootURL(rootURL string) Option {
	return func(b *Builder) { b.rootURL = rootURL }
}

// WithDateFormat sets the system default date format, a Go time layout
func WithDateFormat(layout string) Option {
	return func(b *Builder) {
		if layout != "" {
			b.dateFormat = layout
		}
	}
}

// WithProxyRule sets the global proxy rule applied when a config has no proxy hint
func WithProxyRule(rule ProxyRule) Option {
	return func(b *Builder) { b.proxyRule = rule }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a new payload builder
func NewBuilder(templates TemplateFinder, formats FormatSource, log zerolog.Logger, opts ...Option) *Builder {
	b := &Builder{
		templates:  templates,
		formats:    formats,
		dateFormat: DefaultDateFormat,
		now:        time.Now,
		log:        log.With().Str("component", "payload_builder").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

/* Build populates wh for one config and event
 * Parameters merge with later sources winning: config params, contextual params, format fields.
 * A template that cannot render the event yields a disabled WebHook and no error.
 * The returned error is reserved for render failures and unknown formats.
 */
func (b *Builder) Build(wh webhook.WebHook, resolved settings.Resolved, ev event.Event, override Override) (webhook.WebHook, error) {
	cfg := resolved.Config

	format, ok := b.formats.Get(cfg.Format)
	if !ok {
		return wh, fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Format)
	}

	wh.URL = cfg.URL
	wh.ContentType = format.ContentType()
	if err := b.applyProxy(&wh, cfg); err != nil {
		return wh, err
	}

	scope := template.Scope{
		Locator:     cfg.Template,
		BranchBuild: ev.BranchBuild,
		Refined:     ev.Refinements(),
	}
	content, err := b.templates.Find(ev.Kind, scope, cfg.Format, cfg.InlineTemplate)
	if errors.Is(err, template.ErrNotRenderable) {
		wh.Params = lo.Assign(cfg.Params)
		wh.Disable(fmt.Sprintf("no enabled template for %s: %v", ev.Kind, err))
		return wh, nil
	}
	if err != nil {
		return wh, fmt.Errorf("finding template: %w", err)
	}

	layout := content.DateFormat
	if layout == "" {
		layout = b.dateFormat
	}
	wh.Params = lo.Assign(cfg.Params, b.contextParams(resolved, ev, layout), format.Fields(ev))

	if reason, enabled := verdict(cfg, ev, override); !enabled {
		wh.Disable(reason)
		return wh, nil
	}

	body, err := format.Render(content, ev, wh.Params)
	if err != nil {
		return wh, fmt.Errorf("rendering %s payload: %w", format.Name(), err)
	}
	wh.Payload = body
	wh.Enabled = true
	return wh, nil
}

func verdict(cfg settings.WebHookConfig, ev event.Event, override Override) (string, bool) {
	switch override {
	case ForceDisable:
		return "disabled by caller override", false
	case ForceEnable:
		return "", true
	}
	if !cfg.States.Enabled(ev) {
		return fmt.Sprintf("webhook not enabled for %s", ev.Kind), false
	}
	if !cfg.BuildTypes.Admits(ev.Entity.BuildTypeID) {
		return fmt.Sprintf("webhook not enabled for build type %s", ev.Entity.BuildTypeID), false
	}
	return "", true
}

func (b *Builder) applyProxy(wh *webhook.WebHook, cfg settings.WebHookConfig) error {
	if cfg.Proxy != "" {
		host, port, err := settings.SplitProxy(cfg.Proxy)
		if err != nil {
			return fmt.Errorf("parsing proxy for webhook %s: %w", cfg.ID, err)
		}
		wh.ProxyHost, wh.ProxyPort = host, port
		return nil
	}
	if b.proxyRule != nil {
		wh.ProxyHost, wh.ProxyPort = b.proxyRule(cfg.URL)
	}
	return nil
}

func (b *Builder) contextParams(resolved settings.Resolved, ev event.Event, layout string) map[string]string {
	params := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			params[k] = v
		}
	}
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}

	e := ev.Entity
	set("notifyType", ev.Kind.String())
	set("buildStateDescription", ev.Kind.Description())
	set("webhookId", resolved.Config.ID)
	set("projectId", ev.ProjectID)
	set("webhookProjectId", resolved.ProjectID)
	set("projectExternalId", resolved.ProjectExternalID)
	set("entityType", string(e.Type))
	set("buildId", e.ID)
	set("buildName", e.Name)
	set("buildTypeId", e.BuildTypeID)
	set("buildTypeName", e.BuildTypeName)
	set("buildNumber", e.BuildNumber)
	set("buildStatus", e.StatusText)
	set("branchName", e.BranchName)
	set("branchDisplayName", e.BranchName)
	set("branchIsDefault", strconv.FormatBool(!ev.BranchBuild))
	set("isUserAction", strconv.FormatBool(ev.UserAction))
	set("rootUrl", b.rootURL)
	set("buildStatusUrl", b.statusURL(e))
	set("buildStartTime", formatTime(e.StartedAt))
	set("buildFinishTime", formatTime(e.FinishedAt))
	set("currentTime", formatTime(b.now()))

	if ev.Kind == event.BuildFinished {
		set("buildResult", lo.Ternary(e.Successful, "success", "failure"))
		refined := ev.Refinements()
		set("derivedBuildEventType", refined[0].String())
	}
	return params
}

func (b *Builder) statusURL(e event.Entity) string {
	if e.URL != "" {
		return e.URL
	}
	if b.rootURL == "" || e.Type != event.EntityBuild || e.ID == "" {
		return ""
	}
	return fmt.Sprintf("%s/viewLog.html?buildId=%s", b.rootURL, url.QueryEscape(e.ID))
}
