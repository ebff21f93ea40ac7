package metrics

import (
	"context"
	"errors"

	"github.com/pharmalens/pricelens/internal/extract"
	"github.com/pharmalens/pricelens/internal/sources"
)

// FailureKind buckets a fetch error into a low-cardinality label value.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, extract.ErrContainerNotFound):
		return "structure"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}

	var transport *sources.TransportError
	if errors.As(err, &transport) {
		return "transport"
	}
	return "other"
}
