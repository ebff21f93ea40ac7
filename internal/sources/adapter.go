// Package sources implements one adapter per pharmacy catalog. Each adapter
// knows its site's search URL shape and which extraction strategy decodes its
// responses, and converts extracted products into normalized price records.
package sources

import (
	"context"

	"github.com/pharmalens/pricelens/internal/domain"
)

// MaxRecordsPerSource caps how many records one adapter returns per query.
// Search pages surface the most relevant matches first; anything past the
// first few is a different product.
const MaxRecordsPerSource = 5

// Adapter fetches and normalizes price records from one pharmacy catalog.
// Implementations are safe for concurrent use; per-call state lives on the
// stack.
type Adapter interface {
	// Descriptor returns the adapter's immutable identity.
	Descriptor() domain.SourceDescriptor

	// Fetch issues the query against the source and returns its usable
	// records, capped at MaxRecordsPerSource. An empty slice with a nil
	// error means the source answered but listed no matching products.
	Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error)
}
