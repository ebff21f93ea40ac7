package domain

// SearchQuery is one canonicalized user-facing search request.
// Queries are created per request and never mutated after construction.
type SearchQuery struct {
	// RawName is the product name exactly as the caller supplied it
	RawName string `json:"raw_name"`
	// Dosage is the explicit or extracted dosage (e.g. "650mg"); empty when unknown
	Dosage string `json:"dosage,omitempty"`
	// CanonicalQuery is the normalized search string sent to sources
	CanonicalQuery string `json:"canonical_query"`
	// AlternativeNames lists known brand/generic alternatives, best first
	AlternativeNames []string `json:"alternative_names,omitempty"`
}

// AggregateResult is the engine's output for one query.
type AggregateResult struct {
	// Query is the canonicalized query this result answers
	Query SearchQuery `json:"query"`
	// Records holds all usable records from all sources that responded,
	// sorted by ascending price. Never nil.
	Records []PriceRecord `json:"records"`
	// Cheapest is the minimum-price usable record; nil iff Records is empty
	Cheapest *PriceRecord `json:"cheapest,omitempty"`
	// Savings is max price minus min price across usable records;
	// zero with fewer than two records
	Savings float64 `json:"savings"`
	// Errors maps source IDs to error descriptions for sources that failed
	Errors map[string]string `json:"errors"`
	// SourcesAttempted lists every source the query was issued to
	SourcesAttempted []string `json:"sources_attempted"`
	// SourcesSucceeded lists sources that responded without error
	SourcesSucceeded []string `json:"sources_succeeded"`
}

// BatchResult aggregates independent per-medicine results for a batch query.
type BatchResult struct {
	// Results holds one AggregateResult per successfully canonicalized query
	Results []AggregateResult `json:"results"`
	// TotalSavings sums Savings across all results
	TotalSavings float64 `json:"total_savings"`
}

// ProgressEventType discriminates streaming progress events.
type ProgressEventType string

const (
	// EventStarted is emitted once, before any source completes.
	EventStarted ProgressEventType = "started"
	// EventSourceResult is emitted as each source finishes, in completion order.
	EventSourceResult ProgressEventType = "source_result"
	// EventComplete is the terminal event carrying the full aggregate result.
	EventComplete ProgressEventType = "complete"
)

// ProgressEvent is one element of a streaming search's event sequence.
type ProgressEvent struct {
	// Type discriminates the event payload
	Type ProgressEventType `json:"type"`
	// Sources lists the sources being attempted (started event only)
	Sources []string `json:"sources,omitempty"`
	// SourceID identifies the finished source (source_result event only)
	SourceID string `json:"source_id,omitempty"`
	// Records holds the finished source's usable records (source_result only)
	Records []PriceRecord `json:"records,omitempty"`
	// Error describes the source failure, if any (source_result only)
	Error string `json:"error,omitempty"`
	// Completed counts sources finished so far (source_result only)
	Completed int `json:"completed,omitempty"`
	// Remaining counts sources still running (source_result only)
	Remaining int `json:"remaining,omitempty"`
	// Result is the final aggregate (complete event only)
	Result *AggregateResult `json:"result,omitempty"`
}
