package event

import "fmt"

/* Kind represents the lifecycle state an event was raised for
 * The host raises BuildStarted..ResponsibilityChanged; BuildSuccessful, BuildFailed,
 * BuildBroken and BuildFixed refine BuildFinished for enablement and template lookup
 */
type Kind int

const (
	BuildStarted Kind = iota + 1
	ChangesLoaded
	BuildInterrupted
	BeforeBuildFinished
	BuildFinished
	ResponsibilityChanged
	BuildSuccessful
	BuildFailed
	BuildBroken
	BuildFixed
)

// Kinds lists every known kind in declaration order
var Kinds = []Kind{
	BuildStarted,
	ChangesLoaded,
	BuildInterrupted,
	BeforeBuildFinished,
	BuildFinished,
	ResponsibilityChanged,
	BuildSuccessful,
	BuildFailed,
	BuildBroken,
	BuildFixed,
}

// String returns the short name of the kind
func (k Kind) String() string {
	switch k {
	case BuildStarted:
		return "buildStarted"
	case ChangesLoaded:
		return "changesLoaded"
	case BuildInterrupted:
		return "buildInterrupted"
	case BeforeBuildFinished:
		return "beforeBuildFinish"
	case BuildFinished:
		return "buildFinished"
	case ResponsibilityChanged:
		return "responsibilityChanged"
	case BuildSuccessful:
		return "buildSuccessful"
	case BuildFailed:
		return "buildFailed"
	case BuildBroken:
		return "buildBroken"
	case BuildFixed:
		return "buildFixed"
	default:
		return "unknown"
	}
}

// Description returns a human readable description used in payloads
func (k Kind) Description() string {
	switch k {
	case BuildStarted:
		return "started"
	case ChangesLoaded:
		return "changes loaded"
	case BuildInterrupted:
		return "been interrupted"
	case BeforeBuildFinished:
		return "nearly finished"
	case BuildFinished:
		return "finished"
	case ResponsibilityChanged:
		return "changed responsibility"
	case BuildSuccessful:
		return "passed"
	case BuildFailed:
		return "failed"
	case BuildBroken:
		return "broken"
	case BuildFixed:
		return "been fixed"
	default:
		return "unknown"
	}
}

// NewKind creates a Kind from its short name, returning zero for unknown names
func NewKind(str string) Kind {
	for _, k := range Kinds {
		if k.String() == str {
			return k
		}
	}
	return 0
}

// Validate checks if the kind is valid
func (k Kind) Validate() error {
	if k < BuildStarted || k > BuildFixed {
		return fmt.Errorf("invalid event kind: %d", k)
	}
	return nil
}

// IsRefinement reports whether the kind only refines BuildFinished
func (k Kind) IsRefinement() bool {
	return k >= BuildSuccessful && k <= BuildFixed
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	kind := NewKind(string(text))
	if err := kind.Validate(); err != nil {
		return fmt.Errorf("unknown event kind %q", string(text))
	}
	*k = kind
	return nil
}
