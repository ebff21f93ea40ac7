package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EmbeddedJSON extracts products from a JSON document embedded inside a
// known markup tag, such as Next.js's `<script id="__NEXT_DATA__">`.
type EmbeddedJSON struct {
	// Selector locates the tag carrying the JSON document.
	Selector string
	// Paths are candidate key paths to the product list, in priority order.
	Paths [][]string
}

// Products locates the embedded document and returns the product objects it
// contains. A missing or undecodable container is ErrContainerNotFound; a
// located container with no products is a success with a nil slice.
func (e *EmbeddedJSON) Products(body []byte) ([]map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	raw := strings.TrimSpace(doc.Find(e.Selector).First().Text())
	if raw == "" {
		return nil, fmt.Errorf("%w: selector %q", ErrContainerNotFound, e.Selector)
	}

	var data any
	if unmarshalErr := json.Unmarshal([]byte(raw), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: selector %q holds invalid JSON: %v",
			ErrContainerNotFound, e.Selector, unmarshalErr)
	}

	return ProductList(data, e.Paths), nil
}
