package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/ports"

	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create stores a freshly ingested session. Rows and column types are kept
// as JSONB so the stored payload round-trips the in-memory session exactly.
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *dataset.DataSession) error {
	rowsJSON, err := json.Marshal(session.Rows)
	if err != nil {
		return err
	}
	columnsJSON, err := json.Marshal(session.Columns)
	if err != nil {
		return err
	}
	typesJSON, err := json.Marshal(session.ColumnTypes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO data_sessions (id, url, data, columns, column_types, row_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, session.ID.String(), session.URL, rowsJSON, columnsJSON, typesJSON, session.RowCount, session.CreatedAt.Time())
	return err
}

// GetByID retrieves a session with its stored analytics, if any.
func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id core.SessionID) (*dataset.DataSession, error) {
	var row struct {
		ID              string         `db:"id"`
		URL             string         `db:"url"`
		Data            []byte         `db:"data"`
		Columns         []byte         `db:"columns"`
		ColumnTypes     []byte         `db:"column_types"`
		RowCount        int            `db:"row_count"`
		Analytics       sql.NullString `db:"analytics"`
		AnalyzedColumns sql.NullString `db:"analyzed_columns"`
		CreatedAt       time.Time      `db:"created_at"`
	}

	err := r.db.GetContext(ctx, &row, `
		SELECT id, url, data, columns, column_types, row_count, analytics, analyzed_columns, created_at
		FROM data_sessions
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session := &dataset.DataSession{
		ID:        core.SessionID(row.ID),
		URL:       row.URL,
		RowCount:  row.RowCount,
		CreatedAt: core.NewTimestamp(row.CreatedAt),
	}
	if err := json.Unmarshal(row.Data, &session.Rows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.Columns, &session.Columns); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.ColumnTypes, &session.ColumnTypes); err != nil {
		return nil, err
	}
	if row.Analytics.Valid {
		if err := json.Unmarshal([]byte(row.Analytics.String), &session.Analytics); err != nil {
			return nil, err
		}
	}
	if row.AnalyzedColumns.Valid {
		if err := json.Unmarshal([]byte(row.AnalyzedColumns.String), &session.AnalyzedColumns); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// SaveAnalytics stores the latest analysis results on the session.
func (r *SessionRepositoryImpl) SaveAnalytics(ctx context.Context, id core.SessionID, analytics []dataset.ColumnAnalytics, analyzedColumns []string) error {
	analyticsJSON, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	columnsJSON, err := json.Marshal(analyzedColumns)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE data_sessions
		SET analytics = $2, analyzed_columns = $3
		WHERE id = $1
	`, id.String(), analyticsJSON, columnsJSON)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, id core.SessionID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM data_sessions WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}
