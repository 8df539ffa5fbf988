package memory

import (
	"context"
	"sort"
	"sync"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/ports"
)

// SessionRepository is an in-process implementation of the session store,
// used by tests and DATABASE_URL-less development runs.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*dataset.DataSession
}

// NewSessionRepository creates an empty in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[core.SessionID]*dataset.DataSession),
	}
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, session *dataset.DataSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id core.SessionID) (*dataset.DataSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *SessionRepository) SaveAnalytics(ctx context.Context, id core.SessionID, analytics []dataset.ColumnAnalytics, analyzedColumns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return core.ErrSessionNotFound
	}
	session.Analytics = analytics
	session.AnalyzedColumns = analyzedColumns
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id core.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return core.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// StatusRepository is the in-memory counterpart of the status store.
type StatusRepository struct {
	mu     sync.RWMutex
	checks []dataset.StatusCheck
}

// NewStatusRepository creates an empty in-memory status repository.
func NewStatusRepository() *StatusRepository {
	return &StatusRepository{}
}

var _ ports.StatusRepository = (*StatusRepository)(nil)

func (r *StatusRepository) Create(ctx context.Context, check *dataset.StatusCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, *check)
	return nil
}

func (r *StatusRepository) List(ctx context.Context, limit int) ([]dataset.StatusCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dataset.StatusCheck, len(r.checks))
	copy(out, r.checks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
