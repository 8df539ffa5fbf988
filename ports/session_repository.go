package ports

import (
	"context"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

// SessionRepository defines the interface for data session storage. The
// engine itself has no session concept; persistence is keyed by an opaque
// identifier owned by this collaborator.
type SessionRepository interface {
	Create(ctx context.Context, session *dataset.DataSession) error
	GetByID(ctx context.Context, id core.SessionID) (*dataset.DataSession, error)
	// SaveAnalytics stores the latest analysis results on the session.
	SaveAnalytics(ctx context.Context, id core.SessionID, analytics []dataset.ColumnAnalytics, analyzedColumns []string) error
	Delete(ctx context.Context, id core.SessionID) error
}

// StatusRepository stores client liveness pings.
type StatusRepository interface {
	Create(ctx context.Context, check *dataset.StatusCheck) error
	List(ctx context.Context, limit int) ([]dataset.StatusCheck, error)
}
