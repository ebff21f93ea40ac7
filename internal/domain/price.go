// Package domain provides domain models used across the application.
package domain

import "time"

// PriceRecord represents one offer for a medicine from one pharmacy source.
type PriceRecord struct {
	// SourceID identifies the pharmacy the offer came from
	SourceID string `json:"source_id"`
	// ProductName is the source's own product label, not canonicalized
	ProductName string `json:"product_name"`
	// Price is the current selling price
	Price float64 `json:"price"`
	// OriginalPrice is the pre-discount MRP; zero when the source shows no strike-through price
	OriginalPrice float64 `json:"original_price,omitempty"`
	// DiscountPct is the discount percentage in [0,100]; zero when unknown
	DiscountPct float64 `json:"discount_pct,omitempty"`
	// PackSize describes the pack (e.g. "strip of 15 tablets")
	PackSize string `json:"pack_size"`
	// InStock reports source-side availability
	InStock bool `json:"in_stock"`
	// DeliveryDays is the source's estimated delivery time; zero when unknown
	DeliveryDays int `json:"delivery_days,omitempty"`
	// SourceURL resolves to the offer on the source site
	SourceURL string `json:"source_url"`
	// ImageURL is the product image, if any
	ImageURL string `json:"image_url,omitempty"`
	// Manufacturer is the product manufacturer, if the source exposes it
	Manufacturer string `json:"manufacturer,omitempty"`
	// FetchedAt is when the offer was scraped
	FetchedAt time.Time `json:"fetched_at"`
}

// Usable reports whether the record carries a real price. Sources mark
// unavailable products with a zero price; those records never rank.
func (r *PriceRecord) Usable() bool {
	return r.Price > 0
}

// NormalizePricing drops an original price that is lower than the selling
// price. The record itself stays valid; only the strike-through price is
// untrustworthy.
func (r *PriceRecord) NormalizePricing() {
	if r.OriginalPrice > 0 && r.OriginalPrice < r.Price {
		r.OriginalPrice = 0
		r.DiscountPct = 0
	}
	if r.DiscountPct < 0 {
		r.DiscountPct = 0
	}
	if r.DiscountPct > 100 {
		r.DiscountPct = 100
	}
}
