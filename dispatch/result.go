package dispatch

import (
	"github.com/marcelsud/webhook-notifier/history"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/webhook"
)

// ResultKind tags what happened to one config
type ResultKind int

const (
	// Skipped deliveries were recorded but not sent
	Skipped ResultKind = iota + 1
	Delivered
	Failed
)

func (k ResultKind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one config's pipeline
type Result struct {
	Kind   ResultKind
	Config settings.Resolved
	Item   history.Item
	Stats  webhook.ExecutionStats
	Err    error
}

func newResult(resolved settings.Resolved, item history.Item, err error) Result {
	r := Result{Config: resolved, Item: item, Stats: item.Stats, Err: err}
	switch {
	case err != nil:
		r.Kind = Failed
	case item.Stats.Outcome == webhook.Disabled:
		r.Kind = Skipped
	default:
		r.Kind = Delivered
	}
	return r
}
