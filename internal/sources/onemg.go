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

// OneMG assigns its search state to window.PRELOADED_STATE. The assignment is
// double-encoded: a JSON array whose single element is a JSON string.
type OneMG struct {
	baseURL string
	client  *http.Client
	strat   *extract.GlobalState
}

// NewOneMG builds the 1mg adapter.
func NewOneMG() *OneMG {
	return &OneMG{
		baseURL: "https://www.1mg.com",
		client:  newHTTPClient(),
		strat: &extract.GlobalState{
			VarName: "PRELOADED_STATE",
			Paths: [][]string{
				{"searchPage", "productList", "0", "data"},
				{"searchPage", "products"},
			},
		},
	}
}

func (o *OneMG) Descriptor() domain.SourceDescriptor {
	return domain.SourceDescriptor{
		ID:          "1mg",
		DisplayName: "Tata 1mg",
		Strategy:    domain.StrategyGlobalState,
		Heavy:       false,
	}
}

func (o *OneMG) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.PriceRecord, error) {
	pageURL := fmt.Sprintf("%s/search/all?name=%s", o.baseURL, url.QueryEscape(query.CanonicalQuery))
	body, err := fetchPage(ctx, o.client, pageURL)
	if err != nil {
		return nil, err
	}

	products, err := o.strat.Products(body)
	if err != nil {
		return nil, fmt.Errorf("1mg: %w", err)
	}

	records := make([]domain.PriceRecord, 0, MaxRecordsPerSource)
	for _, obj := range products {
		if len(records) == MaxRecordsPerSource {
			break
		}

		// 1mg's "price" field carries the MRP; the selling price is
		// "discountedPrice" and falls back to MRP when no discount runs.
		mrp := extract.Number(obj, "price", "mrp")
		selling := extract.Number(obj, "discountedPrice")
		if selling == 0 {
			selling = mrp
		}

		rec := domain.PriceRecord{
			SourceID:      "1mg",
			ProductName:   extract.String(obj, "name", "brand_name"),
			Price:         selling,
			OriginalPrice: mrp,
			PackSize:      extract.String(obj, "packSizeLabel", "pack_size_label"),
			InStock:       extract.Bool(obj, "available", true),
			ImageURL:      extract.String(obj, "image_url", "cropped_image"),
			Manufacturer:  extract.String(obj, "manufacturer_name"),
			FetchedAt:     time.Now().UTC(),
		}
		if slug := extract.String(obj, "slug", "url"); slug != "" {
			rec.SourceURL = o.baseURL + "/" + strings.TrimPrefix(slug, "/")
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
