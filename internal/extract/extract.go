// Package extract implements the parsing strategies shared across pharmacy
// source adapters: embedded-JSON-in-markup, global-state-variable, and
// rendered-DOM scraping.
package extract

import "errors"

// ErrContainerNotFound is returned when the expected data structure cannot
// be located in a response body that did arrive. This is a structural parse
// failure: retrying will not change a site's markup, so callers must not
// retry it. A container that is present but empty is a success with zero
// products, not an error.
var ErrContainerNotFound = errors.New("expected data container not found in response")
