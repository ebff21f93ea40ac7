package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// Netmeds assigns its catalog state to window.__INITIAL_STATE__. The product
// list moves between keys depending on whether the query resolved to a
// category listing or a free search.
type Netmeds struct {
	baseURL string
	client  *http.Client
	strat   *extract.GlobalState
}

// NewNetmeds builds the Netmeds adapter.
func NewNetmeds() *Netmeds {
	return &Netmeds{
		baseURL: "https://www.netmeds.com",
		client:  newHTTPClient(),
		strat: &extract.GlobalState{
			VarName: "__INITIAL_STATE__",
			Paths: [][]string{
				{"productListingPage", "productlists", "items"},
				{"catalogListingPage", "productlists", "items"},
				{"searchPage", "products"},
			},
		},
	}
}

func (n *Netmeds) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "netmeds",
		DisplayName: "Netmeds",
		Strategy:    domain.StrategyGlobalState,
		Heavy:       false,
	}
}

func (n *Netmeds) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/catalogsearch/result/%s/all",
		n.baseURL, url.PathEscape(query.CanonicalQuery))
	body, err := fetchPage(ctx, n.client, pageURL)
	if err != nil {
		return nil, err
	}

	products, err := n.strat.Products(body)
	if err != nil {
		return nil, fmt.Errorf("netmeds: %w", err)
	}

	records := make([]domain.PriceRecord, 0, MaxRecordsPerSource)
	for _, obj := range products {
		if len(records) == MaxRecordsPerSource {
			break
		}

		selling, mrp := netmedsPrices(obj)

		rec := domain.PriceRecord{
			SourceID:      "netmeds",
			ProductName:   extract.String(obj, "name", "title"),
			Price:         selling,
			OriginalPrice: mrp,
			PackSize:      extract.String(obj, "pack_size", "packSize"),
			InStock:       extract.Bool(obj, "is_in_stock", true),
			ImageURL:      extract.String(obj, "image_url", "thumbnail"),
			Manufacturer:  extract.String(obj, "manufacturer"),
			FetchedAt:     time.Now().UTC(),
		}
		if slug := extract.String(obj, "url_key", "slug"); slug != "" {
			rec.SourceURL = n.baseURL + "/" + strings.TrimPrefix(slug, "/")
		} else {
			rec.SourceURL = pageURL
		}
		rec.DiscountPct = extract.DerivedDiscount(rec.OriginalPrice, rec.Price)
		rec.NormalizePricing()

		if rec.Usable() {
			records = append(records, rec)
		}
	}
	return records, nil
}

// netmedsPrices reads either the nested price dict {marked:{min}, effective:{min}}
// or the flat final_price/mrp fields, whichever the entry carries.
func netmedsPrices(obj map[string]any) (selling, mrp float64) {
	if price, ok := obj["price"].(map[string]any); ok {
		if marked, ok := price["marked"].(map[string]any); ok {
			mrp = extract.Number(marked, "min")
		}
		if effective, ok := price["effective"].(map[string]any); ok {
			selling = extract.Number(effective, "min")
		}
	}
	if selling == 0 {
		selling = extract.Number(obj, "final_price", "finalPrice", "selling_price")
	}
	if mrp == 0 {
		mrp = extract.Number(obj, "mrp", "strike_price")
	}
	if selling == 0 {
		selling = mrp
	}
	return selling, mrp
}
