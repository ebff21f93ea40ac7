package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// Apollo renders its search results client-side; product cards appear as
// anchor elements once the catalog script runs.
type Apollo struct {
	baseURL string
	strat   *extract.RenderedDOM
}

// NewApollo builds the Apollo Pharmacy adapter.
func NewApollo() *Apollo {
	return &Apollo{
		baseURL: "https://www.apollopharmacy.in",
		strat: &extract.RenderedDOM{
			WaitSelector: "a.cardAnchorStyle",
			WaitTimeout:  10 * time.Second,
			MaxProducts:  MaxRecordsPerSource,
		},
	}
}

func (a *Apollo) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "apollo",
		DisplayName: "Apollo Pharmacy",
		Strategy:    domain.StrategyRenderedDOM,
		Heavy:       true,
	}
}

func (a *Apollo) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/search-medicines/%s",
		a.baseURL, url.PathEscape(query.CanonicalQuery))

	products, err := a.strat.Products(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("apollo: %w", err)
	}
	return renderedRecords("apollo", pageURL, products), nil
}
