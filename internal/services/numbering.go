package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cvmfinance/orcr-api/internal/metrics"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

const maxNumberAttempts = 5

// withUniqueRetry re-runs fn while it fails on a unique-number collision.
// fn must open its own transaction so each attempt starts clean.
func withUniqueRetry(ctx context.Context, what string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		if attempt >= maxNumberAttempts {
			return fmt.Errorf("%w: %s after %d attempts", ErrConflict, what, attempt)
		}
		metrics.RecordNumberCollision(what)
		logger.FromContext(ctx).Warn("number collision, retrying", "what", what, "attempt", attempt)
	}
}
