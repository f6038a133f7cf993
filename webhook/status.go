package webhook

import "fmt"

/* Outcome represents where a delivery attempt ended
 * Follows the lifecycle: NotSent -> Disabled, or NotSent -> Sent -> Success/HTTPError/TransportError
 * Unexpected covers failures outside the HTTP exchange
 */
type Outcome int

const (
	NotSent Outcome = iota + 1
	Sent
	Success
	HTTPError
	TransportError
	Disabled
	Unexpected
)

// Outcomes returns every valid outcome in lifecycle order
func Outcomes() []Outcome {
	return []Outcome{NotSent, Sent, Success, HTTPError, TransportError, Disabled, Unexpected}
}

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case NotSent:
		return "not_sent"
	case Sent:
		return "sent"
	case Success:
		return "success"
	case HTTPError:
		return "http_error"
	case TransportError:
		return "transport_error"
	case Disabled:
		return "disabled"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// NewOutcome creates an Outcome from a string
func NewOutcome(str string) Outcome {
	switch str {
	case "not_sent":
		return NotSent
	case "sent":
		return Sent
	case "success":
		return Success
	case "http_error":
		return HTTPError
	case "transport_error":
		return TransportError
	case "disabled":
		return Disabled
	case "unexpected":
		return Unexpected
	default:
		return NotSent
	}
}

// Validate checks if the outcome is valid
func (o Outcome) Validate() error {
	if o < NotSent || o > Unexpected {
		return fmt.Errorf("invalid outcome: %d", o)
	}
	return nil
}

// IsFinal returns true if the outcome is a terminal state
func (o Outcome) IsFinal() bool {
	return o != NotSent && o != Sent
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	*o = NewOutcome(string(text))
	return nil
}
