package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// Truemeds renders results client-side behind bot detection, so the adapter
// pre-visits the home page and relies on the stealth-patched browser session.
type Truemeds struct {
	baseURL string
	strat   *extract.RenderedDOM
}

// NewTruemeds builds the Truemeds adapter.
func NewTruemeds() *Truemeds {
	base := "https://www.truemeds.in"
	return &Truemeds{
		baseURL: base,
		strat: &extract.RenderedDOM{
			WaitSelector: "[class*='product'], [class*='card'], [class*='medicine']",
			PreVisitURL:  base,
			WaitTimeout:  12 * time.Second,
			MaxProducts:  MaxRecordsPerSource,
		},
	}
}

func (t *Truemeds) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "truemeds",
		DisplayName: "Truemeds",
		Strategy:    domain.StrategyRenderedDOM,
		Heavy:       true,
	}
}

func (t *Truemeds) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/search/%s", t.baseURL, url.PathEscape(query.CanonicalQuery))

	products, err := t.strat.Products(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("truemeds: %w", err)
	}
	return renderedRecords("truemeds", pageURL, products), nil
}
