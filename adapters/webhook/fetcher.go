package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

// wrapperKeys are common envelope keys an API may nest its row array under,
// probed in order.
var wrapperKeys = []string{"data", "rows", "items", "records", "results", "values"}

const maxBodyBytes = 64 << 20 // 64 MiB cap on fetched payloads

// Fetcher retrieves JSON from a user-supplied URL and normalizes it into a
// dataset with an ordered column list.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given request timeout. Redirects are
// followed; some spreadsheet webhook hosts (e.g. Google Apps Script) redirect
// to a content host.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs the HTTP GET and JSON normalization.
func (f *Fetcher) Fetch(ctx context.Context, url string) (dataset.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dataset.Dataset{}, core.NewUpstreamFetchError(url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return dataset.Dataset{}, core.NewUpstreamFetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dataset.Dataset{}, core.NewUpstreamFetchError(url, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return dataset.Dataset{}, core.NewUpstreamFetchError(url, err)
	}

	return Normalize(body)
}

// Normalize decodes a raw JSON payload into a dataset. Accepted shapes:
// a top-level array of objects, a {headers, rows} spreadsheet envelope
// (rows as arrays or objects), an object wrapping the array under a common
// key, or a single object (wrapped into a one-row dataset).
func Normalize(body []byte) (dataset.Dataset, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return dataset.Dataset{}, core.NewInvalidPayloadError("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return dataset.Dataset{}, core.NewInvalidPayloadError("response is not valid JSON")
		}
		return fromObjectRows(rows, nil)
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return dataset.Dataset{}, core.NewInvalidPayloadError("response is not valid JSON")
		}
		return fromEnvelope(trimmed, envelope)
	default:
		return dataset.Dataset{}, core.NewInvalidPayloadError("data must be an array of objects")
	}
}

func fromEnvelope(raw []byte, envelope map[string]json.RawMessage) (dataset.Dataset, error) {
	// Spreadsheet webhook format: {headers: [...], rows: [...]}.
	if headersRaw, ok := envelope["headers"]; ok {
		if rowsRaw, ok := envelope["rows"]; ok {
			return fromHeadersAndRows(headersRaw, rowsRaw)
		}
	}

	// Common wrapper keys around the row array.
	for _, key := range wrapperKeys {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		innerTrimmed := bytes.TrimSpace(inner)
		if len(innerTrimmed) > 0 && innerTrimmed[0] == '[' {
			var rows []json.RawMessage
			if err := json.Unmarshal(innerTrimmed, &rows); err != nil {
				return dataset.Dataset{}, core.NewInvalidPayloadError(fmt.Sprintf("wrapper key %q is not an array of objects", key))
			}
			return fromObjectRows(rows, nil)
		}
	}

	// A single object becomes a one-row dataset.
	return fromObjectRows([]json.RawMessage{raw}, nil)
}

func fromHeadersAndRows(headersRaw, rowsRaw json.RawMessage) (dataset.Dataset, error) {
	var headers []string
	if err := json.Unmarshal(headersRaw, &headers); err != nil {
		return dataset.Dataset{}, core.NewInvalidPayloadError("headers must be an array of strings")
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(rowsRaw, &rows); err != nil {
		return dataset.Dataset{}, core.NewInvalidPayloadError("rows must be an array")
	}
	if len(rows) == 0 {
		return dataset.Dataset{}, core.ErrEmptyDataset
	}

	first := bytes.TrimSpace(rows[0])
	if len(first) > 0 && first[0] == '[' {
		// Rows are positional arrays: zip them against the headers.
		records := make([]dataset.Record, 0, len(rows))
		for _, rowRaw := range rows {
			var cells []dataset.Value
			if err := json.Unmarshal(rowRaw, &cells); err != nil {
				return dataset.Dataset{}, core.NewInvalidPayloadError("each row must be an array of values")
			}
			record := make(dataset.Record, len(headers))
			for i, header := range headers {
				if i < len(cells) {
					record[header] = cells[i]
				}
			}
			records = append(records, record)
		}
		return dataset.Dataset{Columns: headers, Rows: records}, nil
	}

	// Rows are already objects; headers still give the column order.
	return fromObjectRows(rows, headers)
}

// fromObjectRows decodes object rows. When no explicit column list is given,
// the declared column order is taken from the first row's key order, which
// requires a token scan since Go maps do not preserve it.
func fromObjectRows(rows []json.RawMessage, columns []string) (dataset.Dataset, error) {
	if len(rows) == 0 {
		return dataset.Dataset{}, core.ErrEmptyDataset
	}

	if columns == nil {
		keys, err := objectKeys(rows[0])
		if err != nil {
			return dataset.Dataset{}, core.NewInvalidPayloadError("each row must be an object")
		}
		columns = keys
	}

	records := make([]dataset.Record, 0, len(rows))
	for _, rowRaw := range rows {
		var record dataset.Record
		if err := json.Unmarshal(rowRaw, &record); err != nil {
			return dataset.Dataset{}, core.NewInvalidPayloadError("each row must be an object")
		}
		records = append(records, record)
	}

	return dataset.Dataset{Columns: columns, Rows: records}, nil
}

// objectKeys extracts an object's keys in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("value is not a JSON object")
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("malformed object key")
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
