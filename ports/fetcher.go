package ports

import (
	"context"

	"datalens/domain/dataset"
)

// DataFetcher retrieves and decodes an external resource into an in-memory
// dataset with an ordered column list. The engine does not validate the
// dataset's provenance; that responsibility ends here.
type DataFetcher interface {
	Fetch(ctx context.Context, url string) (dataset.Dataset, error)
}
