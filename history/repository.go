package history

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a history item does not exist
var ErrNotFound = errors.New("history item not found")

/* Small, focused interfaces
 * Readers serve the audit surface, the recorder only needs a Writer
 */

// Reader provides read operations for history items
type Reader interface {
	Get(ctx context.Context, id string) (Item, error)
	// ListByConfig returns the newest items first; limit <= 0 returns everything
	ListByConfig(ctx context.Context, configID string, limit int) ([]Item, error)
	// ListByProject returns items recorded for configs owned by the project, newest first
	ListByProject(ctx context.Context, projectID string, limit int) ([]Item, error)
}

// Writer provides append-only write operations for history items
type Writer interface {
	Append(ctx context.Context, item Item) error
}

// Repository composes the history store operations
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
