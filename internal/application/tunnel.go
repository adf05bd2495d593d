package application

import (
	"context"
	"fmt"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

const defaultTunnelAttempts = 5

// negotiateTunnel makes at most attempts calls to opener and returns the
// first tunnel obtained. Exhaustion wraps the last failure.
func negotiateTunnel(ctx context.Context, opener ports.TunnelOpener, req ports.TunnelRequest, attempts int, logger logrus.FieldLogger) (ports.Tunnel, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("open tunnel: %w", err)
		}

		tunnel, err := opener.Open(ctx, req)
		if err == nil {
			logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"url":     tunnel.URL(),
			}).Debug("tunnel opened")
			return tunnel, nil
		}

		lastErr = err
		logger.WithFields(logrus.Fields{
			"attempt":   attempt,
			"attempts":  attempts,
			"subdomain": req.Subdomain,
		}).WithError(err).Warn("tunnel attempt failed")
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrTunnelExhausted, attempts, lastErr)
}
