package payload

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/template"
)

// Format names
const (
	FormatJSONTemplate = "jsonTemplate"
	FormatXMLTemplate  = "xmlTemplate"
	FormatNVPairs      = "nvpairs"
	FormatJSON         = "json"
)

var variablePattern = regexp.MustCompile(`\$\{([A-Za-z0-9_.]+)\}`)

// Format is a named rendering strategy producing a body and its content type
type Format interface {
	Name() string
	ContentType() string
	// Fields returns the parameters the format contributes for this event
	Fields(ev event.Event) map[string]string
	Render(content template.Content, ev event.Event, params map[string]string) (string, error)
}

// DefaultFormats returns every built-in format
func DefaultFormats() []Format {
	return []Format{JSONTemplate{}, XMLTemplate{}, NVPairs{}, JSON{}}
}

// JSONTemplate renders template text with JSON-escaped variables
type JSONTemplate struct{}

func (JSONTemplate) Name() string        { return FormatJSONTemplate }
func (JSONTemplate) ContentType() string { return "application/json" }

func (JSONTemplate) Fields(ev event.Event) map[string]string {
	return eventFields(ev)
}

func (JSONTemplate) Render(content template.Content, _ event.Event, params map[string]string) (string, error) {
	body := substitute(content.Text, params, func(v string) string {
		quoted, _ := json.Marshal(v)
		return string(quoted[1 : len(quoted)-1])
	})
	if !json.Valid([]byte(body)) {
		return "", fmt.Errorf("rendered %s body is not valid JSON", FormatJSONTemplate)
	}
	return body, nil
}

// XMLTemplate renders template text with XML-escaped variables
type XMLTemplate struct{}

func (XMLTemplate) Name() string        { return FormatXMLTemplate }
func (XMLTemplate) ContentType() string { return "application/xml" }

func (XMLTemplate) Fields(ev event.Event) map[string]string {
	return eventFields(ev)
}

func (XMLTemplate) Render(content template.Content, _ event.Event, params map[string]string) (string, error) {
	return substitute(content.Text, params, func(v string) string {
		var buf bytes.Buffer
		_ = xml.EscapeText(&buf, []byte(v))
		return buf.String()
	}), nil
}

// NVPairs posts every parameter as a form-encoded name/value pair, template text is ignored
type NVPairs struct{}

func (NVPairs) Name() string        { return FormatNVPairs }
func (NVPairs) ContentType() string { return "application/x-www-form-urlencoded" }

func (NVPairs) Fields(ev event.Event) map[string]string {
	return eventFields(ev)
}

func (NVPairs) Render(_ template.Content, _ event.Event, params map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode(), nil
}

// JSON posts every parameter inside an Envelope, template text is ignored
type JSON struct{}

func (JSON) Name() string        { return FormatJSON }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Fields(ev event.Event) map[string]string {
	return eventFields(ev)
}

func (JSON) Render(_ template.Content, ev event.Event, params map[string]string) (string, error) {
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	envelope, err := NewEnvelope(fmt.Sprintf("%s.%s", entityType(ev), ev.Kind), at, params)
	if err != nil {
		return "", err
	}
	body, err := envelope.Bytes()
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}
	return string(body), nil
}

// eventFields are the kind specific fields every built-in format contributes
func eventFields(ev event.Event) map[string]string {
	fields := map[string]string{}
	if ev.Kind != event.ResponsibilityChanged || ev.Responsibility == nil {
		return fields
	}

	r := ev.Responsibility
	fields["responsibilityUserOld"] = r.OldUser
	fields["responsibilityUserNew"] = r.NewUser
	fields["responsibilityActor"] = r.Actor
	fields["comment"] = r.Comment
	if len(r.TestNames) > 0 {
		fields["testNames"] = strings.Join(r.TestNames, ", ")
	}
	return fields
}

func entityType(ev event.Event) string {
	if ev.Entity.Type == "" {
		return string(event.EntityBuild)
	}
	return string(ev.Entity.Type)
}

// substitute replaces ${name} with the escaped parameter, unknown names are left untouched
func substitute(text string, params map[string]string, escape func(string) string) string {
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]
		v, ok := params[name]
		if !ok {
			return match
		}
		return escape(v)
	})
}
