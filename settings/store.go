package settings

import (
	"context"
	"errors"
)

// ErrProjectNotFound is returned when a project id cannot be resolved
var ErrProjectNotFound = errors.New("project not found")

/* Small interfaces over the host's configuration storage
 * Interfaces abstract behavior, not things
 */

// ProjectTree resolves the project hierarchy
type ProjectTree interface {
	/* Path returns the ancestor chain from the root down to the project itself (inclusive)
	 * Returns ErrProjectNotFound for an unknown id
	 */
	Path(ctx context.Context, projectID string) ([]Project, error)
}

// Store provides the webhook settings stored on each project
type Store interface {
	ProjectSettings(ctx context.Context, projectID string) (ProjectSettings, error)
}

// FormatRegistry tells whether a payload format id is registered
type FormatRegistry interface {
	IsRegistered(format string) bool
}
