package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalens/pricelens/internal/aggregator"
	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/query"
	"github.com/pharmalens/pricelens/internal/sources"
)

// stubAdapter returns scripted records after an optional delay.
type stubAdapter struct {
	id      string
	records []domain.PriceRecord
	err     error
	delay   time.Duration
}

func (s *stubAdapter) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{ID: s.id, DisplayName: s.id}
}

func (s *stubAdapter) Fetch(ctx context.Context, _ domain.SearchQuery) ([]domain.PriceRecord, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.records, s.err
}

// passExecutor runs fetches directly, without pooling or retries.
type passExecutor struct{}

func (passExecutor) Execute(ctx context.Context, a sources.Adapter, q domain.SearchQuery) ([]domain.PriceRecord, error) {
	return a.Fetch(ctx, q)
}

func record(sourceID string, price float64) domain.PriceRecord {
	return domain.PriceRecord{SourceID: sourceID, ProductName: "Dolo 650", Price: price, InStock: true}
}

func newAggregator(t *testing.T, cfg aggregator.Config, adapters ...sources.Adapter) *aggregator.Aggregator {
	t.Helper()
	return aggregator.New(query.NewBuilder(), adapters, passExecutor{}, nil, nil, cfg)
}

func TestSearch_MergesAndRanks(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50)}},
		&stubAdapter{id: "b", err: errors.New("blocked")},
		&stubAdapter{id: "c", records: []domain.PriceRecord{record("c", 80), record("c", 40)}},
	)

	result, err := agg.Search(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, []float64{40, 50, 80}, []float64{
		result.Records[0].Price, result.Records[1].Price, result.Records[2].Price,
	})

	require.NotNil(t, result.Cheapest)
	assert.Equal(t, 40.0, result.Cheapest.Price)
	assert.Equal(t, "c", result.Cheapest.SourceID)
	assert.Equal(t, 40.0, result.Savings)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, result.SourcesAttempted)
	assert.ElementsMatch(t, []string{"a", "c"}, result.SourcesSucceeded)
	assert.Contains(t, result.Errors, "b")
	assert.Len(t, result.Errors, 1)
}

func TestSearch_AllSourcesEmpty(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a"},
		&stubAdapter{id: "b"},
	)

	result, err := agg.Search(context.Background(), "Obscuromycin 10mg", "")
	require.NoError(t, err)

	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
	assert.Nil(t, result.Cheapest)
	assert.Zero(t, result.Savings)
	assert.Len(t, result.SourcesSucceeded, 2)
	assert.Empty(t, result.Errors)
}

func TestSearch_SingleRecordHasNoSavings(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50)}},
	)

	result, err := agg.Search(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)
	require.NotNil(t, result.Cheapest)
	assert.Zero(t, result.Savings)
}

func TestSearch_EqualPricesTieBreakBySourceOrder(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "first", records: []domain.PriceRecord{record("first", 50)}},
		&stubAdapter{id: "second", records: []domain.PriceRecord{record("second", 50)}},
	)

	result, err := agg.Search(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "first", result.Records[0].SourceID)
	assert.Equal(t, "first", result.Cheapest.SourceID)
}

func TestSearch_DropsDuplicateOffers(t *testing.T) {
	t.Parallel()

	dup := record("a", 50)
	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{dup, dup, record("a", 60)}},
	)

	result, err := agg.Search(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 10.0, result.Savings)
}

func TestSearch_EmptyNameFails(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{}, &stubAdapter{id: "a"})

	_, err := agg.Search(context.Background(), "()!!", "")
	require.ErrorIs(t, err, query.ErrEmptyQuery)
}

func TestSearch_OverallTimeoutMarksPendingSources(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{OverallTimeout: 50 * time.Millisecond},
		&stubAdapter{id: "fast", records: []domain.PriceRecord{record("fast", 30)}},
		&stubAdapter{id: "slow", delay: time.Second, records: []domain.PriceRecord{record("slow", 10)}},
	)

	result, err := agg.Search(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"fast"}, result.SourcesSucceeded)
	assert.Contains(t, result.Errors, "slow")
	require.Len(t, result.Records, 1)
	assert.Equal(t, 30.0, result.Records[0].Price)
}

func TestSearchStream_EventSequence(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50)}},
		&stubAdapter{id: "b", err: errors.New("blocked")},
	)

	events, err := agg.SearchStream(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)

	var sequence []domain.ProgressEvent
	for ev := range events {
		sequence = append(sequence, ev)
	}

	require.Len(t, sequence, 4)

	assert.Equal(t, domain.EventStarted, sequence[0].Type)
	assert.ElementsMatch(t, []string{"a", "b"}, sequence[0].Sources)

	for i, ev := range sequence[1:3] {
		assert.Equal(t, domain.EventSourceResult, ev.Type)
		assert.Equal(t, i+1, ev.Completed)
		assert.Equal(t, 2-(i+1), ev.Remaining)
	}

	final := sequence[3]
	assert.Equal(t, domain.EventComplete, final.Type)
	require.NotNil(t, final.Result)
	assert.Len(t, final.Result.Records, 1)
}

func TestSearchStream_AbandonedConsumerDoesNotBlock(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50)}},
		&stubAdapter{id: "b", records: []domain.PriceRecord{record("b", 60)}},
	)

	events, err := agg.SearchStream(context.Background(), "Dolo 650mg", "")
	require.NoError(t, err)

	// Consume nothing while the fetches finish. The buffered channel must
	// hold the full sequence without a reader.
	time.Sleep(50 * time.Millisecond)

	var sequence []domain.ProgressEvent
	for ev := range events {
		sequence = append(sequence, ev)
	}
	assert.Len(t, sequence, 4)
}

func TestSearchMany_SumsSavings(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50), record("a", 80)}},
	)

	batch, err := agg.SearchMany(context.Background(), []aggregator.Request{
		{Name: "Dolo 650mg"},
		{Name: "Crocin 500mg"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Results, 2)
	assert.Equal(t, 60.0, batch.TotalSavings)
}

func TestSearchMany_SkipsUncanonicalizableNames(t *testing.T) {
	t.Parallel()

	agg := newAggregator(t, aggregator.Config{},
		&stubAdapter{id: "a", records: []domain.PriceRecord{record("a", 50)}},
	)

	batch, err := agg.SearchMany(context.Background(), []aggregator.Request{
		{Name: "Dolo 650mg"},
		{Name: "()!!"},
	})
	require.NoError(t, err)
	assert.Len(t, batch.Results, 1)
}
