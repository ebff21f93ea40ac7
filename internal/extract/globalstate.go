package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// GlobalState extracts products from a JSON-like object assigned to a named
// global variable inside an inline script block, such as Netmeds's
// `window.__INITIAL_STATE__` or 1mg's `window.PRELOADED_STATE`. The latter
// is double-encoded: a JSON array whose sole element is itself a JSON string.
type GlobalState struct {
	// VarName is the global variable the site assigns its state to.
	VarName string
	// Paths are candidate key paths to the product list, in priority order.
	Paths [][]string
}

// patterns builds the tolerant assignment matchers for VarName, most
// specific first. Built per call so the strategy value stays safe to share
// across concurrent fetches.
func (g *GlobalState) patterns() []*regexp.Regexp {
	name := regexp.QuoteMeta(g.VarName)
	return []*regexp.Regexp{
		// window.VAR = {...}; terminated by </script> or the next assignment
		regexp.MustCompile(`(?s)window\.` + name + `\s*=\s*(\{.*?\});?\s*(?:</script>|window\.)`),
		// window.VAR = [...]; — the stringified-array convention
		regexp.MustCompile(`(?s)window\.` + name + `\s*=\s*(\[.*?\]);`),
		// bare VAR = {...} with no window prefix
		regexp.MustCompile(`(?s)\b` + name + `\s*=\s*(\{[^<]+\})`),
	}
}

// Products locates the state assignment and returns the product objects it
// contains. A missing or undecodable assignment is ErrContainerNotFound.
func (g *GlobalState) Products(body []byte) ([]map[string]any, error) {
	html := string(body)

	var raw string
	for _, pattern := range g.patterns() {
		if m := pattern.FindStringSubmatch(html); m != nil {
			raw = strings.TrimSuffix(strings.TrimSpace(m[1]), ";")
			break
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: variable %q", ErrContainerNotFound, g.VarName)
	}

	data, err := decodeState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: variable %q holds invalid JSON: %v",
			ErrContainerNotFound, g.VarName, err)
	}

	return ProductList(data, g.Paths), nil
}

// decodeState unwraps up to two levels of string-encoding. 1mg assigns a
// JSON array whose single element is a JSON string holding the real state.
func decodeState(raw string) (any, error) {
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}

	for range 2 {
		switch v := data.(type) {
		case string:
			var inner any
			if err := json.Unmarshal([]byte(v), &inner); err != nil {
				return data, nil
			}
			data = inner
		case []any:
			if len(v) == 1 {
				if s, ok := v[0].(string); ok {
					var inner any
					if err := json.Unmarshal([]byte(s), &inner); err == nil {
						data = inner
						continue
					}
				}
			}
			return data, nil
		default:
			return data, nil
		}
	}
	return data, nil
}
