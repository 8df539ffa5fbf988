package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

func newTestSession() *dataset.DataSession {
	ds := dataset.Dataset{
		Columns: []string{"x"},
		Rows: []dataset.Record{
			{"x": dataset.NumberValue(1)},
			{"x": dataset.NumberValue(2)},
		},
	}
	return dataset.NewDataSession("https://example.com/data", ds, map[string]dataset.ColumnType{
		"x": dataset.TypeNumeric,
	})
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	session := newTestSession()
	require.NoError(t, repo.Create(ctx, session))

	loaded, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, session.URL, loaded.URL)
	assert.Equal(t, 2, loaded.RowCount)
	assert.Equal(t, session.Columns, loaded.Columns)
}

func TestSessionRepositoryGetMissing(t *testing.T) {
	repo := NewSessionRepository()
	_, err := repo.GetByID(context.Background(), core.SessionID("nope"))
	require.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionRepositorySaveAnalytics(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	session := newTestSession()
	require.NoError(t, repo.Create(ctx, session))

	analytics := []dataset.ColumnAnalytics{{Column: "x", DataType: dataset.TypeNumeric, Count: 2}}
	require.NoError(t, repo.SaveAnalytics(ctx, session.ID, analytics, []string{"x"}))

	loaded, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Analytics, 1)
	assert.Equal(t, "x", loaded.Analytics[0].Column)
	assert.Equal(t, []string{"x"}, loaded.AnalyzedColumns)
}

func TestSessionRepositorySaveAnalyticsMissing(t *testing.T) {
	repo := NewSessionRepository()
	err := repo.SaveAnalytics(context.Background(), core.SessionID("nope"), nil, nil)
	require.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	session := newTestSession()
	require.NoError(t, repo.Create(ctx, session))
	require.NoError(t, repo.Delete(ctx, session.ID))

	_, err := repo.GetByID(ctx, session.ID)
	require.ErrorIs(t, err, core.ErrSessionNotFound)

	require.ErrorIs(t, repo.Delete(ctx, session.ID), core.ErrSessionNotFound)
}

func TestStatusRepositoryListNewestFirst(t *testing.T) {
	repo := NewStatusRepository()
	ctx := context.Background()

	first := dataset.NewStatusCheck("client-a")
	second := dataset.NewStatusCheck("client-b")
	second.Timestamp = core.NewTimestamp(first.Timestamp.Time().Add(1))

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	checks, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "client-b", checks[0].ClientName)
	assert.Equal(t, "client-a", checks[1].ClientName)
}

func TestStatusRepositoryListLimit(t *testing.T) {
	repo := NewStatusRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, dataset.NewStatusCheck("client")))
	}

	checks, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, checks, 3)
}
