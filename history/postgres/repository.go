package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/webhook-notifier/history"
)

/* PostgreSQL implementation of history.Repository
 * The item document is stored as JSONB next to the indexed columns used for listing
 */

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a PostgreSQL history repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a repository with a custom connection pool
// maxOpenConns: maximum simultaneous connections (0 = unlimited)
// maxIdleConns: maximum idle connections kept in the pool
// maxLifeMinutes: maximum minutes a connection may be reused
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Append inserts an item; an existing id is rejected
func (r *Repository) Append(ctx context.Context, item history.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling history item: %w", err)
	}

	query := `
		INSERT INTO history_items (id, config_id, project_id, outcome, created_at, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.DB.ExecContext(ctx, query,
		item.ID, item.ConfigID, item.ProjectID, item.Stats.Outcome.String(), item.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("inserting history item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history item %s already recorded", item.ID)
	}

	return nil
}

// Get retrieves an item by ID
func (r *Repository) Get(ctx context.Context, id string) (history.Item, error) {
	query := "SELECT data FROM history_items WHERE id = $1"

	var data []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Item{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	}
	if err != nil {
		return history.Item{}, fmt.Errorf("selecting history item: %w", err)
	}

	return decode(data)
}

// ListByConfig returns items for a config, newest first
func (r *Repository) ListByConfig(ctx context.Context, configID string, limit int) ([]history.Item, error) {
	query := `
		SELECT data FROM history_items
		WHERE config_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.list(ctx, query, configID, limit)
}

// ListByProject returns items for configs owned by a project, newest first
func (r *Repository) ListByProject(ctx context.Context, projectID string, limit int) ([]history.Item, error) {
	query := `
		SELECT data FROM history_items
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.list(ctx, query, projectID, limit)
}

func (r *Repository) list(ctx context.Context, query, key string, limit int) ([]history.Item, error) {
	var lim any // NULL means no limit
	if limit > 0 {
		lim = limit
	}

	rows, err := r.DB.QueryContext(ctx, query, key, lim)
	if err != nil {
		return nil, fmt.Errorf("selecting history items: %w", err)
	}
	defer rows.Close()

	var items []history.Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning history item: %w", err)
		}
		item, err := decode(data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history items: %w", err)
	}

	return items, nil
}

// DeleteBefore removes items created before cutoff and returns how many were removed
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM history_items WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting history items: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rows, nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the history table and its indexes
func (r *Repository) CreateTable(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS history_items (
			id TEXT PRIMARY KEY,
			config_id TEXT NOT NULL,
			project_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			data JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS history_items_config_idx ON history_items (config_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS history_items_project_idx ON history_items (project_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	return nil
}

// DropTable removes the history table
func (r *Repository) DropTable(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, "DROP TABLE IF EXISTS history_items CASCADE"); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	return nil
}

func decode(data []byte) (history.Item, error) {
	var item history.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return history.Item{}, fmt.Errorf("unmarshaling history item: %w", err)
	}
	return item, nil
}
