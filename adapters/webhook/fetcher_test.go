package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

func TestNormalizeArrayOfObjects(t *testing.T) {
	body := []byte(`[
		{"name": "alice", "age": 30, "active": true},
		{"name": "bob", "age": 25, "active": false}
	]`)

	ds, err := Normalize(body)
	require.NoError(t, err)

	// Column order follows the first row's key order.
	assert.Equal(t, []string{"name", "age", "active"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, dataset.StringValue("alice"), ds.Rows[0].Get("name"))
	assert.Equal(t, dataset.NumberValue(30), ds.Rows[0].Get("age"))
	assert.Equal(t, dataset.BoolValue(false), ds.Rows[1].Get("active"))
}

func TestNormalizeWrapperKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"data wrapper", `{"data": [{"x": 1}, {"x": 2}]}`},
		{"rows wrapper", `{"rows": [{"x": 1}, {"x": 2}]}`},
		{"items wrapper", `{"items": [{"x": 1}, {"x": 2}]}`},
		{"records wrapper", `{"records": [{"x": 1}, {"x": 2}]}`},
		{"results wrapper", `{"results": [{"x": 1}, {"x": 2}]}`},
		{"values wrapper", `{"values": [{"x": 1}, {"x": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, []string{"x"}, ds.Columns)
			assert.Len(t, ds.Rows, 2)
		})
	}
}

func TestNormalizeHeadersAndArrayRows(t *testing.T) {
	body := []byte(`{
		"headers": ["city", "population"],
		"rows": [["Oslo", 700000], ["Bergen", 280000]]
	}`)

	ds, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "population"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, dataset.StringValue("Oslo"), ds.Rows[0].Get("city"))
	assert.Equal(t, dataset.NumberValue(280000), ds.Rows[1].Get("population"))
}

func TestNormalizeHeadersAndObjectRows(t *testing.T) {
	body := []byte(`{
		"headers": ["b", "a"],
		"rows": [{"a": 1, "b": 2}]
	}`)

	ds, err := Normalize(body)
	require.NoError(t, err)

	// Headers dictate column order when rows are objects.
	assert.Equal(t, []string{"b", "a"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, dataset.NumberValue(1), ds.Rows[0].Get("a"))
}

func TestNormalizeShortArrayRowsReadAsNull(t *testing.T) {
	body := []byte(`{
		"headers": ["a", "b"],
		"rows": [["only"]]
	}`)

	ds, err := Normalize(body)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.True(t, ds.Rows[0].Get("b").IsMissing())
}

func TestNormalizeSingleObject(t *testing.T) {
	body := []byte(`{"status": "ok", "uptime": 42}`)

	ds, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "uptime"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, dataset.NumberValue(42), ds.Rows[0].Get("uptime"))
}

func TestNormalizeNestedValuesBecomeOpaqueStrings(t *testing.T) {
	body := []byte(`[{"meta": {"k": 1}, "tags": [1, 2]}]`)

	ds, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, dataset.StringValue(`{"k":1}`), ds.Rows[0].Get("meta"))
	assert.Equal(t, dataset.StringValue(`[1,2]`), ds.Rows[0].Get("tags"))
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
	}{
		{"empty body", "", core.ErrInvalidPayload},
		{"scalar payload", "42", core.ErrInvalidPayload},
		{"invalid json", "[{", core.ErrInvalidPayload},
		{"empty array", "[]", core.ErrEmptyDataset},
		{"empty wrapped array", `{"data": []}`, core.ErrEmptyDataset},
		{"empty spreadsheet rows", `{"headers": ["a"], "rows": []}`, core.ErrEmptyDataset},
		{"array of scalars", "[1, 2, 3]", core.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.body))
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"v": 1}, {"v": 2}]`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	ds, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, ds.Columns)
	assert.Len(t, ds.Rows, 2)
}

func TestFetchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, core.ErrUpstreamFetch)
}

func TestFetchUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // deliberately closed before the fetch

	fetcher := NewFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, core.ErrUpstreamFetch)
}
