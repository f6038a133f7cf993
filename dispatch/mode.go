package dispatch

import "fmt"

/* Mode is how the configs resolved for one event are delivered
 * Sequential processes them in resolved order with parallelism=1
 * Pooled delivers independent configs concurrently with parallelism>1
 */
type Mode int

const (
	Sequential Mode = iota + 1
	Pooled
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Pooled:
		return "pooled"
	default:
		return "unknown"
	}
}

// NewMode derives the mode from a parallelism setting
func NewMode(parallelism int) Mode {
	if parallelism > 1 {
		return Pooled
	}
	return Sequential // default to ordered delivery
}

// Validate checks if the mode is valid
func (m Mode) Validate() error {
	if m != Sequential && m != Pooled {
		return fmt.Errorf("invalid dispatch mode: %d", m)
	}
	return nil
}
