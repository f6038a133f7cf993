package payload

import "fmt"

/* Override is an explicit caller decision on the enabled verdict
 * ForceEnable is the manual test send: it bypasses state and build type checks
 * but never template renderability
 */
type Override int

const (
	NoOverride Override = iota + 1
	ForceEnable
	ForceDisable
)

// String returns the string representation of the override
func (o Override) String() string {
	switch o {
	case NoOverride:
		return "none"
	case ForceEnable:
		return "force_enable"
	case ForceDisable:
		return "force_disable"
	default:
		return "unknown"
	}
}

// NewOverride creates an Override from a string
func NewOverride(s string) Override {
	switch s {
	case "force_enable":
		return ForceEnable
	case "force_disable":
		return ForceDisable
	default:
		return NoOverride
	}
}

// Validate checks if the override is valid
func (o Override) Validate() error {
	if o < NoOverride || o > ForceDisable {
		return fmt.Errorf("invalid override: %d", o)
	}
	return nil
}
