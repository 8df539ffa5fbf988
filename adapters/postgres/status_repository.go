package postgres

import (
	"context"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/ports"

	"github.com/jmoiron/sqlx"
)

// StatusRepositoryImpl implements StatusRepository for PostgreSQL
type StatusRepositoryImpl struct {
	db *sqlx.DB
}

// NewStatusRepository creates a new PostgreSQL status repository
func NewStatusRepository(db *sqlx.DB) ports.StatusRepository {
	return &StatusRepositoryImpl{db: db}
}

// Create records a status check.
func (r *StatusRepositoryImpl) Create(ctx context.Context, check *dataset.StatusCheck) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO status_checks (id, client_name, created_at)
		VALUES ($1, $2, $3)
	`, check.ID.String(), check.ClientName, check.Timestamp.Time())
	return err
}

// List returns the most recent status checks.
func (r *StatusRepositoryImpl) List(ctx context.Context, limit int) ([]dataset.StatusCheck, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_name, created_at
		FROM status_checks
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []dataset.StatusCheck
	for rows.Next() {
		var id, clientName string
		var createdAt time.Time
		if err := rows.Scan(&id, &clientName, &createdAt); err != nil {
			return nil, err
		}
		checks = append(checks, dataset.StatusCheck{
			ID:         core.ID(id),
			ClientName: clientName,
			Timestamp:  core.NewTimestamp(createdAt),
		})
	}
	return checks, rows.Err()
}
