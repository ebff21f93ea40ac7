// Package aggregator fans one canonical query out to every enabled source,
// merges the surviving records, and ranks them by price. Streaming is the
// primary path; blocking search drains its own stream.
package aggregator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/metrics"
	"github.com/pharmalens/pricelens/internal/query"
	"github.com/pharmalens/pricelens/internal/sources"
)

// Executor admits and runs one source fetch. The governor implements this.
type Executor interface {
	Execute(ctx context.Context, adapter sources.Adapter, q domain.SearchQuery) ([]domain.PriceRecord, error)
}

// Config configures aggregate search behavior.
type Config struct {
	// OverallTimeout bounds one aggregate search across all sources.
	// Sources still pending at the deadline are recorded as timed out.
	OverallTimeout time.Duration `yaml:"overall_timeout" mapstructure:"overall_timeout"`
}

// DefaultConfig returns the aggregator settings used when none are configured.
func DefaultConfig() Config {
	return Config{OverallTimeout: 100 * time.Second}
}

// Request is one medicine in a batch search.
type Request struct {
	// Name is the raw product name
	Name string `json:"name"`
	// Dosage is an optional explicit dosage
	Dosage string `json:"dosage,omitempty"`
}

// Aggregator is the engine entry point. Safe for concurrent use.
type Aggregator struct {
	builder  *query.Builder
	adapters []sources.Adapter
	exec     Executor
	metrics  *metrics.Metrics
	log      logger.Interface
	config   Config
	// rank maps source IDs to their configured position for tie-breaking
	rank map[string]int
}

// New builds an Aggregator over the given adapters.
func New(
	builder *query.Builder,
	adapters []sources.Adapter,
	exec Executor,
	m *metrics.Metrics,
	log logger.Interface,
	config Config,
) *Aggregator {
	if config.OverallTimeout <= 0 {
		config.OverallTimeout = 100 * time.Second
	}
	if log == nil {
		log = logger.NewNoop()
	}

	rank := make(map[string]int, len(adapters))
	for i, a := range adapters {
		rank[a.Descriptor().ID] = i
	}
	return &Aggregator{
		builder:  builder,
		adapters: adapters,
		exec:     exec,
		metrics:  m,
		log:      log,
		config:   config,
		rank:     rank,
	}
}

// SearchStream canonicalizes the query and starts a fan-out fetch. The
// returned channel carries one started event, one source_result per finished
// source in completion order, and a terminal complete event, then closes.
// The channel is buffered for the full event sequence, so a consumer that
// walks away never blocks in-flight fetches.
func (a *Aggregator) SearchStream(ctx context.Context, rawName, dosage string) (<-chan domain.ProgressEvent, error) {
	q, err := a.builder.Build(rawName, dosage)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	events := make(chan domain.ProgressEvent, len(a.adapters)+2)
	go a.run(ctx, q, events)
	return events, nil
}

// Search runs a blocking aggregate search by draining its own stream.
func (a *Aggregator) Search(ctx context.Context, rawName, dosage string) (*domain.AggregateResult, error) {
	events, err := a.SearchStream(ctx, rawName, dosage)
	if err != nil {
		return nil, err
	}

	for ev := range events {
		if ev.Type == domain.EventComplete {
			return ev.Result, nil
		}
	}
	// run always terminates the stream with a complete event
	return nil, fmt.Errorf("stream ended without a complete event")
}

// SearchMany searches each requested medicine independently and concurrently.
// Requests whose names canonicalize to nothing are skipped; result order
// follows request order.
func (a *Aggregator) SearchMany(ctx context.Context, requests []Request) (*domain.BatchResult, error) {
	results := make([]*domain.AggregateResult, len(requests))

	done := make(chan struct{})
	running := 0
	for i, req := range requests {
		if _, err := a.builder.Build(req.Name, req.Dosage); err != nil {
			a.log.Warn("skipping batch item", "name", req.Name, "error", err)
			continue
		}
		running++
		go func(i int, req Request) {
			defer func() { done <- struct{}{} }()
			result, err := a.Search(ctx, req.Name, req.Dosage)
			if err == nil {
				results[i] = result
			}
		}(i, req)
	}
	for range running {
		<-done
	}

	batch := &domain.BatchResult{Results: make([]domain.AggregateResult, 0, len(requests))}
	for _, r := range results {
		if r != nil {
			batch.Results = append(batch.Results, *r)
			batch.TotalSavings += r.Savings
		}
	}
	return batch, nil
}

// sourceOutcome is one adapter's finished fetch.
type sourceOutcome struct {
	id      string
	records []domain.PriceRecord
	err     error
}

// run executes the fan-out and emits the event sequence. It always closes
// events after the complete event.
func (a *Aggregator) run(ctx context.Context, q domain.SearchQuery, events chan<- domain.ProgressEvent) {
	defer close(events)

	runCtx, cancel := context.WithTimeout(ctx, a.config.OverallTimeout)
	defer cancel()

	ids := make([]string, len(a.adapters))
	pending := make(map[string]bool, len(a.adapters))
	for i, ad := range a.adapters {
		ids[i] = ad.Descriptor().ID
		pending[ids[i]] = true
	}

	events <- domain.ProgressEvent{Type: domain.EventStarted, Sources: ids}

	outcomes := make(chan sourceOutcome, len(a.adapters))
	for _, ad := range a.adapters {
		go func(ad sources.Adapter) {
			id := ad.Descriptor().ID
			start := time.Now()
			records, err := a.exec.Execute(runCtx, ad, q)
			if a.metrics != nil {
				a.metrics.ObserveFetch(id, time.Since(start), err, len(records))
			}
			outcomes <- sourceOutcome{id: id, records: records, err: err}
		}(ad)
	}

	result := &domain.AggregateResult{
		Query:            q,
		Records:          []domain.PriceRecord{},
		Errors:           make(map[string]string),
		SourcesAttempted: ids,
		SourcesSucceeded: []string{},
	}

	completed := 0
collect:
	for completed < len(a.adapters) {
		select {
		case out := <-outcomes:
			completed++
			delete(pending, out.id)

			ev := domain.ProgressEvent{
				Type:      domain.EventSourceResult,
				SourceID:  out.id,
				Completed: completed,
				Remaining: len(a.adapters) - completed,
			}
			if out.err != nil {
				result.Errors[out.id] = out.err.Error()
				ev.Error = out.err.Error()
			} else {
				result.SourcesSucceeded = append(result.SourcesSucceeded, out.id)
				result.Records = append(result.Records, out.records...)
				ev.Records = out.records
			}
			events <- ev

		case <-runCtx.Done():
			for id := range pending {
				result.Errors[id] = "timed out waiting for source"
			}
			break collect
		}
	}

	a.finalize(result)
	if a.metrics != nil {
		a.metrics.ObserveSearch(len(result.SourcesSucceeded), len(result.SourcesAttempted))
	}
	a.log.Info("search complete",
		"query", q.CanonicalQuery,
		"records", len(result.Records),
		"succeeded", len(result.SourcesSucceeded),
		"attempted", len(result.SourcesAttempted),
		"savings", result.Savings)

	events <- domain.ProgressEvent{Type: domain.EventComplete, Result: result}
}

// finalize drops duplicate offers, sorts records by ascending price with ties
// broken by configured source order, and derives the cheapest record and the
// savings spread.
func (a *Aggregator) finalize(result *domain.AggregateResult) {
	result.Records = dedupe(result.Records)

	sort.SliceStable(result.Records, func(i, j int) bool {
		ri, rj := result.Records[i], result.Records[j]
		if ri.Price != rj.Price {
			return ri.Price < rj.Price
		}
		return a.rank[ri.SourceID] < a.rank[rj.SourceID]
	})

	if len(result.Records) == 0 {
		return
	}
	cheapest := result.Records[0]
	result.Cheapest = &cheapest
	if len(result.Records) > 1 {
		result.Savings = result.Records[len(result.Records)-1].Price - cheapest.Price
	}
}

// dedupe removes repeated offers. Search pages sometimes list the same pack
// twice; two records are duplicates when source, product, pack, and price
// all match.
func dedupe(records []domain.PriceRecord) []domain.PriceRecord {
	seen := make(map[string]bool, len(records))
	kept := records[:0]
	for _, r := range records {
		key := fmt.Sprintf("%s|%s|%s|%.2f", r.SourceID, r.ProductName, r.PackSize, r.Price)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept
}
