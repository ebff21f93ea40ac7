package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// MedPlus gates its search behind session cookies issued on the home page, so
// the adapter pre-visits the home page before navigating to the search URL.
type MedPlus struct {
	baseURL string
	strat   *extract.RenderedDOM
}

// NewMedPlus builds the MedPlus adapter.
func NewMedPlus() *MedPlus {
	base := "https://www.medplusmart.com"
	return &MedPlus{
		baseURL: base,
		strat: &extract.RenderedDOM{
			WaitSelector: ".product-card, a[href*='/product/'], [class*='product']",
			PreVisitURL:  base,
			WaitTimeout:  12 * time.Second,
			MaxProducts:  MaxRecordsPerSource,
		},
	}
}

func (m *MedPlus) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "medplus",
		DisplayName: "MedPlus Mart",
		Strategy:    domain.StrategyRenderedDOM,
		Heavy:       true,
	}
}

func (m *MedPlus) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/searchProduct.mart?searchKey=%s",
		m.baseURL, url.QueryEscape(query.CanonicalQuery))

	products, err := m.strat.Products(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("medplus: %w", err)
	}
	return renderedRecords("medplus", pageURL, products), nil
}
