package governor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/pharmalens/pricelens/internal/extract"
	"github.com/pharmalens/pricelens/internal/sources"
)

var (
	// ErrMaxAttemptsExceeded is returned when every retry attempt failed
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context ends during a retry wait
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// RetryConfig configures per-source retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration `yaml:"initial_delay" mapstructure:"initial_delay"`
	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	// Multiplier is the exponential backoff multiplier
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// DefaultRetryConfig returns the retry settings used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// IsRetryable classifies a source failure. Transport failures and timeouts
// are transient; a page that arrived but lacked its product container will
// lack it on the next attempt too.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, extract.ErrContainerNotFound) {
		return false
	}

	var transport *sources.TransportError
	if errors.As(err, &transport) {
		// 4xx means the request itself is wrong; retrying won't fix it.
		if transport.Status >= 400 && transport.Status < 500 {
			return false
		}
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// retry executes fn with exponential backoff until it succeeds, returns a
// non-retryable error, or exhausts attempts.
func retry(ctx context.Context, config RetryConfig, fn func() error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 2
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 500 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}

		if attempt < config.MaxAttempts {
			backoff := time.Duration(float64(config.InitialDelay) *
				math.Pow(config.Multiplier, float64(attempt-1)))
			if backoff > config.MaxDelay {
				backoff = config.MaxDelay
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, config.MaxAttempts, lastErr)
}
