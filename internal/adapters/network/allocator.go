package network

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPortStart = 1337
	DefaultPortMax   = 65535
	fallbackAddress  = "localhost"
)

type addrsFunc func() ([]net.Addr, error)

type listenFunc func(network, address string) (net.Listener, error)

type Options struct {
	PortStart int
	PortMax   int
	Logger    logrus.FieldLogger
}

// Allocator finds a free TCP port and the address peers can reach it on.
type Allocator struct {
	start  int
	max    int
	logger logrus.FieldLogger
	addrs  addrsFunc
	listen listenFunc
}

var _ ports.PortAllocator = (*Allocator)(nil)

func NewAllocator(opts Options) *Allocator {
	if opts.PortStart <= 0 {
		opts.PortStart = DefaultPortStart
	}
	if opts.PortMax <= 0 || opts.PortMax > DefaultPortMax {
		opts.PortMax = DefaultPortMax
	}
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		opts.Logger = logger
	}

	return &Allocator{
		start:  opts.PortStart,
		max:    opts.PortMax,
		logger: opts.Logger,
		addrs:  net.InterfaceAddrs,
		listen: net.Listen,
	}
}

// Allocate returns the first port in range that can be listened on. The
// port is released before returning, so a later bind may still lose a race.
func (a *Allocator) Allocate(ctx context.Context) (domain.Endpoint, error) {
	port, err := a.freePort(ctx)
	if err != nil {
		return domain.Endpoint{}, err
	}

	address := a.externalAddress()
	a.logger.WithFields(logrus.Fields{
		"address": address,
		"port":    port,
	}).Debug("endpoint allocated")

	return domain.Endpoint{Address: address, Port: port}, nil
}

func (a *Allocator) freePort(ctx context.Context) (int, error) {
	for port := a.start; port <= a.max; port++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		listener, err := a.listen("tcp", net.JoinHostPort("", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		if err := listener.Close(); err != nil {
			return 0, fmt.Errorf("release probe port %d: %w", port, err)
		}
		return port, nil
	}

	return 0, fmt.Errorf("%w in range %d-%d", domain.ErrNoFreePort, a.start, a.max)
}

// externalAddress picks the first non-loopback IPv4 address, falling back
// to localhost.
func (a *Allocator) externalAddress() string {
	addrs, err := a.addrs()
	if err != nil {
		a.logger.WithError(err).Debug("list interface addresses")
		return fallbackAddress
	}

	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}

	return fallbackAddress
}
