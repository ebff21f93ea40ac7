package extract

import (
	"strconv"
	"strings"
)

// nameKeys and priceKeys are the fields that mark a decoded JSON object as
// a plausible product entry.
var (
	nameKeys  = []string{"name", "productName", "title"}
	priceKeys = []string{
		"price", "salePrice", "sellingPrice", "salePriceDecimal",
		"discountedPrice", "finalPrice", "final_price", "mrp", "mrpDecimal",
	}
)

// ProductList walks the candidate key paths through decoded JSON in priority
// order and returns the first non-empty list of product-like objects. A path
// segment that parses as an integer indexes into a JSON array. Returns nil
// when no path yields products; the caller decides whether that is an empty
// success or a structural failure.
func ProductList(data any, paths [][]string) []map[string]any {
	for _, path := range paths {
		node := walkPath(data, path)
		list, ok := node.([]any)
		if !ok || len(list) == 0 {
			continue
		}

		products := make([]map[string]any, 0, len(list))
		for _, item := range list {
			obj, isObj := item.(map[string]any)
			if isObj && looksLikeProduct(obj) {
				products = append(products, obj)
			}
		}
		if len(products) > 0 {
			return products
		}
	}
	return nil
}

// walkPath descends through nested maps and arrays following path segments.
func walkPath(data any, path []string) any {
	node := data
	for _, seg := range path {
		switch v := node.(type) {
		case map[string]any:
			node = v[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			node = v[idx]
		default:
			return nil
		}
	}
	return node
}

// looksLikeProduct reports whether an object carries recognizable name and
// price keys.
func looksLikeProduct(obj map[string]any) bool {
	hasName := false
	for _, k := range nameKeys {
		if s, ok := obj[k].(string); ok && s != "" {
			hasName = true
			break
		}
	}
	if !hasName {
		return false
	}
	for _, k := range priceKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// String returns the first non-empty string value among the given keys.
func String(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Number returns the first parseable numeric value among the given keys.
// JSON numbers arrive as float64; sites sometimes encode prices as strings.
func Number(obj map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case float64:
			if v > 0 {
				return v
			}
		case string:
			if n := ParsePrice(v); n > 0 {
				return n
			}
		}
	}
	return 0
}

// Bool returns the boolean value for key, or def when absent or non-boolean.
func Bool(obj map[string]any, key string, def bool) bool {
	if b, ok := obj[key].(bool); ok {
		return b
	}
	return def
}
