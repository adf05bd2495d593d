package application

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/bnema/share-cli/internal/ports/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNegotiateTunnelSucceedsWithinBudget(t *testing.T) {
	opener := mocks.NewMockTunnelOpener(t)
	tunnel := mocks.NewMockTunnel(t)
	tunnel.EXPECT().URL().Return("https://quietharbor.loca.lt")

	req := ports.TunnelRequest{Port: 1337, Subdomain: "quietharbor"}
	opener.EXPECT().Open(mock.Anything, req).Return(nil, errors.New("relay busy")).Twice()
	opener.EXPECT().Open(mock.Anything, req).Return(tunnel, nil).Once()

	got, err := negotiateTunnel(context.Background(), opener, req, 5, quietLogger())
	require.NoError(t, err)
	assert.Same(t, tunnel, got)
}

func TestNegotiateTunnelStopsAfterBudget(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		want     int
	}{
		{name: "default budget", attempts: 5, want: 5},
		{name: "single attempt", attempts: 1, want: 1},
		{name: "non positive budget still tries once", attempts: 0, want: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			opener := mocks.NewMockTunnelOpener(t)
			last := errors.New("dial tcp: connection refused")
			opener.EXPECT().Open(mock.Anything, mock.Anything).Return(nil, last).Times(tc.want)

			_, err := negotiateTunnel(context.Background(), opener, ports.TunnelRequest{Port: 1337}, tc.attempts, quietLogger())

			assert.ErrorIs(t, err, domain.ErrTunnelExhausted)
			assert.ErrorIs(t, err, last)
		})
	}
}

func TestNegotiateTunnelHonoursCancelledContext(t *testing.T) {
	opener := mocks.NewMockTunnelOpener(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := negotiateTunnel(ctx, opener, ports.TunnelRequest{Port: 1337}, 5, quietLogger())

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTunnelExhausted)
}
