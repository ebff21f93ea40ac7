package sources

import (
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/extract"
)

// renderedRecords converts scraped product cards into price records. Cards
// never expose an MRP reliably, so only the selling price is set; cards
// without their own link fall back to the search page URL.
func renderedRecords(sourceID, pageURL string, products []extract.RenderedProduct) []domain.PriceRecord {
	records := make([]domain.PriceRecord, 0, len(products))
	for _, p := range products {
		if len(records) == MaxRecordsPerSource {
			break
		}

		rec := domain.PriceRecord{
			SourceID:    sourceID,
			ProductName: p.Name,
			Price:       extract.ParsePrice(p.PriceText),
			PackSize:    p.Pack,
			InStock:     true,
			SourceURL:   p.URL,
			FetchedAt:   time.Now().UTC(),
		}
		if rec.SourceURL == "" {
			rec.SourceURL = pageURL
		}
		if rec.Usable() {
			records = append(records, rec)
		}
	}
	return records
}
