package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/profiling"
	"datalens/ports"
)

// AnalyticsService orchestrates dataset ingestion, schema inference and
// per-column statistical analysis.
type AnalyticsService struct {
	fetcher     ports.DataFetcher
	sessions    ports.SessionRepository
	inferencer  *profiling.SchemaInferencer
	analyzer    *profiling.ColumnAnalyzer
	previewRows int
}

// NewAnalyticsService creates an analytics service with its collaborators.
func NewAnalyticsService(fetcher ports.DataFetcher, sessions ports.SessionRepository, inferencer *profiling.SchemaInferencer, analyzer *profiling.ColumnAnalyzer, previewRows int) *AnalyticsService {
	if previewRows <= 0 {
		previewRows = 100
	}
	return &AnalyticsService{
		fetcher:     fetcher,
		sessions:    sessions,
		inferencer:  inferencer,
		analyzer:    analyzer,
		previewRows: previewRows,
	}
}

// IngestResult summarizes a freshly ingested dataset.
type IngestResult struct {
	SessionID   core.SessionID                `json:"session_id"`
	Columns     []string                      `json:"columns"`
	ColumnTypes map[string]dataset.ColumnType `json:"column_types"`
	RowCount    int                           `json:"row_count"`
	Preview     []dataset.Record              `json:"preview"`
}

// AnalyzeResult carries the analytics for the requested columns plus
// per-column failures for columns that could not be analyzed.
type AnalyzeResult struct {
	SessionID core.SessionID            `json:"session_id"`
	Analytics []dataset.ColumnAnalytics `json:"analytics"`
	Errors    []dataset.ColumnError     `json:"errors,omitempty"`
}

// SessionDataPage is one page of a session's stored rows.
type SessionDataPage struct {
	Data       []dataset.Record `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Ingest fetches JSON from the given URL, normalizes it into a tabular
// dataset, infers column types and persists the resulting session.
func (s *AnalyticsService) Ingest(ctx context.Context, url string) (*IngestResult, error) {
	ds, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	profiles, err := s.inferencer.Infer(ds)
	if err != nil {
		return nil, err
	}

	columnTypes := make(map[string]dataset.ColumnType, len(profiles))
	for name, profile := range profiles {
		columnTypes[name] = profile.Type
	}

	session := dataset.NewDataSession(url, ds, columnTypes)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	preview := session.Rows
	if len(preview) > s.previewRows {
		preview = preview[:s.previewRows]
	}

	return &IngestResult{
		SessionID:   session.ID,
		Columns:     session.Columns,
		ColumnTypes: session.ColumnTypes,
		RowCount:    session.RowCount,
		Preview:     preview,
	}, nil
}

// Analyze computes statistics for the requested columns of a stored session.
// Unknown columns are reported in the result rather than failing the batch.
func (s *AnalyticsService) Analyze(ctx context.Context, id core.SessionID, columns []string) (*AnalyzeResult, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ds := session.Dataset()
	if len(columns) == 0 {
		columns = session.Columns
	}

	results := make([]*dataset.ColumnAnalytics, len(columns))
	failures := make([]*dataset.ColumnError, len(columns))

	g, gctx := errgroup.WithContext(ctx)
	for i, column := range columns {
		i, column := i, column
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			profile := dataset.ColumnProfile{Name: column, Type: session.ColumnTypes[column]}
			analytics, err := s.analyzer.Analyze(ds, column, profile)
			if err != nil {
				if errors.Is(err, core.ErrUnknownColumn) {
					failures[i] = &dataset.ColumnError{Column: column, Message: err.Error()}
					return nil
				}
				return err
			}
			results[i] = &analytics
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &AnalyzeResult{SessionID: id}
	analyzed := make([]string, 0, len(columns))
	for i := range columns {
		if results[i] != nil {
			out.Analytics = append(out.Analytics, *results[i])
			analyzed = append(analyzed, columns[i])
		}
		if failures[i] != nil {
			out.Errors = append(out.Errors, *failures[i])
		}
	}

	if err := s.sessions.SaveAnalytics(ctx, id, out.Analytics, analyzed); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSession loads a stored session by ID.
func (s *AnalyticsService) GetSession(ctx context.Context, id core.SessionID) (*dataset.DataSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// SessionData returns one page of a session's rows. Page numbers are
// 1-based; out-of-range pages return an empty data slice.
func (s *AnalyticsService) SessionData(ctx context.Context, id core.SessionID, page, pageSize int) (*SessionDataPage, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	total := len(session.Rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &SessionDataPage{
		Data:       session.Rows[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetAnalytics returns the previously computed analytics for a session.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, id core.SessionID) ([]dataset.ColumnAnalytics, []string, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return session.Analytics, session.AnalyzedColumns, nil
}

// DeleteSession removes a stored session and its analytics.
func (s *AnalyticsService) DeleteSession(ctx context.Context, id core.SessionID) error {
	return s.sessions.Delete(ctx, id)
}
