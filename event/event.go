package event

import (
	"fmt"
	"time"
)

// EntityType identifies what kind of entity triggered an event
type EntityType string

const (
	EntityBuild     EntityType = "build"
	EntityBuildType EntityType = "buildType"
	EntityProject   EntityType = "project"
)

/* Entity is the triggering entity of an event
 * Build fields are empty for project scoped events such as a
 * responsibility change on a project
 */
type Entity struct {
	Type          EntityType `json:"type"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	BuildTypeID   string     `json:"build_type_id,omitempty"`
	BuildTypeName string     `json:"build_type_name,omitempty"`
	BuildNumber   string     `json:"build_number,omitempty"`
	BranchName    string     `json:"branch_name,omitempty"`
	StatusText    string     `json:"status_text,omitempty"`
	URL           string     `json:"url,omitempty"`
	Successful    bool       `json:"successful"`
	// PreviousSuccessful is the outcome of the previous finished build, nil when unknown
	PreviousSuccessful *bool     `json:"previous_successful,omitempty"`
	StartedAt          time.Time `json:"started_at,omitempty"`
	FinishedAt         time.Time `json:"finished_at,omitempty"`
}

// Responsibility describes a responsibility (investigation) change
type Responsibility struct {
	OldUser   string   `json:"old_user,omitempty"`
	NewUser   string   `json:"new_user,omitempty"`
	Actor     string   `json:"actor,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	TestNames []string `json:"test_names,omitempty"`
}

/* Event is the minimal contract the host event source supplies
 * Uses value semantics, each dispatch works on its own copy
 */
type Event struct {
	Kind           Kind            `json:"kind"`
	ProjectID      string          `json:"project_id"`
	Entity         Entity          `json:"entity"`
	BranchBuild    bool            `json:"branch_build"`
	UserAction     bool            `json:"user_action"`
	Responsibility *Responsibility `json:"responsibility,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at,omitempty"`
}

// Validate checks the event carries what the pipeline needs
func (e Event) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if e.Kind.IsRefinement() {
		return fmt.Errorf("event kind %s cannot be raised directly", e.Kind)
	}
	if e.ProjectID == "" {
		return fmt.Errorf("project id is required")
	}
	return nil
}

// EffectiveKind refines BuildFinished into BuildSuccessful or BuildFailed
// See StateChange for the fixed/broken refinement
func (e Event) EffectiveKind() Kind {
	if e.Kind != BuildFinished {
		return e.Kind
	}
	if e.Entity.Successful {
		return BuildSuccessful
	}
	return BuildFailed
}

// StateChange returns BuildFixed or BuildBroken when a finished build flipped outcome
func (e Event) StateChange() (Kind, bool) {
	if e.Kind != BuildFinished || e.Entity.PreviousSuccessful == nil {
		return 0, false
	}
	previous := *e.Entity.PreviousSuccessful
	switch {
	case e.Entity.Successful && !previous:
		return BuildFixed, true
	case !e.Entity.Successful && previous:
		return BuildBroken, true
	}
	return 0, false
}

// Refinements lists the refined kinds of a finished build, most specific first
func (e Event) Refinements() []Kind {
	if e.Kind != BuildFinished {
		return nil
	}
	if change, ok := e.StateChange(); ok {
		return []Kind{change, e.EffectiveKind()}
	}
	return []Kind{e.EffectiveKind()}
}
