package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// PharmEasy embeds its search results in a Next.js __NEXT_DATA__ document.
type PharmEasy struct {
	baseURL string
	client  *http.Client
	strat   *extract.EmbeddedJSON
}

// NewPharmEasy builds the PharmEasy adapter.
func NewPharmEasy() *PharmEasy {
	return &PharmEasy{
		baseURL: "https://pharmeasy.in",
		client:  newHTTPClient(),
		strat: &extract.EmbeddedJSON{
			Selector: "script#__NEXT_DATA__",
			Paths: [][]string{
				{"props", "pageProps", "searchResults"},
				{"props", "pageProps", "data", "products"},
			},
		},
	}
}

func (p *PharmEasy) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "pharmeasy",
		DisplayName: "PharmEasy",
		Strategy:    domain.StrategyEmbeddedJSON,
		Heavy:       false,
	}
}

func (p *PharmEasy) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/search/all?name=%s", p.baseURL, url.QueryEscape(query.CanonicalQuery))
	body, err := fetchPage(ctx, p.client, pageURL)
	if err != nil {
		return nil, err
	}

	products, err := p.strat.Products(body)
	if err != nil {
		return nil, fmt.Errorf("pharmeasy: %w", err)
	}

	records := make([]domain.PriceRecord, 0, MaxRecordsPerSource)
	for _, obj := range products {
		if len(records) == MaxRecordsPerSource {
			break
		}

		rec := domain.PriceRecord{
			SourceID:      "pharmeasy",
			ProductName:   extract.String(obj, "name", "productName"),
			Price:         extract.Number(obj, "salePriceDecimal", "salePrice", "price"),
			OriginalPrice: extract.Number(obj, "mrpDecimal", "mrp"),
			DiscountPct:   extract.Number(obj, "discountPercent"),
			PackSize:      extract.String(obj, "measurementUnit", "packSize"),
			InStock:       extract.Bool(obj, "productAvailabilityFlags", true),
			ImageURL:      extract.String(obj, "image"),
			Manufacturer:  extract.String(obj, "manufacturer"),
			FetchedAt:     time.Now().UTC(),
		}
		if slug := extract.String(obj, "slug"); slug != "" {
			rec.SourceURL = fmt.Sprintf("%s/online-medicine-order/%s", p.baseURL, slug)
		} else {
			rec.SourceURL = pageURL
		}
		if rec.DiscountPct == 0 {
			rec.DiscountPct = extract.DerivedDiscount(rec.OriginalPrice, rec.Price)
		}
		rec.NormalizePricing()

		if rec.Usable() {
			records = append(records, rec)
		}
	}
	return records, nil
}
