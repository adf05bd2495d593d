package ports

import (
	"context"

	"github.com/bnema/share-cli/internal/domain"
)

type PortAllocator interface {
	Allocate(ctx context.Context) (domain.Endpoint, error)
}

type ServeOptions struct {
	Port     int
	Token    domain.AccessToken
	Tunneled bool
	Artifact domain.Artifact
}

type TransferBinder interface {
	Bind(ctx context.Context, opts ServeOptions) (TransferListener, error)
}

// TransferListener is a bound transfer server. Events is its only outbound
// channel; Close is idempotent.
type TransferListener interface {
	Port() int
	Events() <-chan domain.TransferEvent
	Close() error
}
