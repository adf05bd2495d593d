package ports

import "context"

type TunnelRequest struct {
	Port      int
	Subdomain string
}

// TunnelOpener makes a single attempt at obtaining a public relay URL.
type TunnelOpener interface {
	Open(ctx context.Context, req TunnelRequest) (Tunnel, error)
}

type Tunnel interface {
	URL() string
	Close() error
}
