package localtunnel

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHost        = "https://localtunnel.me"
	maxResponseBytes   = 1 << 20
	maxConnections     = 8
	redialDelay        = time.Second
	defaultLocalHost   = "127.0.0.1"
	defaultDialTimeout = 10 * time.Second
)

var ErrRelayRejected = errors.New("relay rejected tunnel request")

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client requests tunnels from a localtunnel compatible relay. Each Open
// is a single attempt; retrying is up to the caller.
type Client struct {
	Host           string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// LocalHost is where relayed connections are forwarded to.
	LocalHost string
	Logger    logrus.FieldLogger

	dial dialFunc
}

var _ ports.TunnelOpener = (*Client)(nil)

type assignment struct {
	ID           string `json:"id"`
	IP           string `json:"ip"`
	Port         int    `json:"port"`
	MaxConnCount int    `json:"max_conn_count"`
	URL          string `json:"url"`
	Message      string `json:"message"`
}

func (c *Client) Open(ctx context.Context, req ports.TunnelRequest) (ports.Tunnel, error) {
	if req.Port <= 0 {
		return nil, errors.New("local port is required")
	}

	host, err := c.hostURL()
	if err != nil {
		return nil, err
	}

	assigned, err := c.requestAssignment(ctx, host, req.Subdomain)
	if err != nil {
		return nil, err
	}

	remoteHost := assigned.IP
	if remoteHost == "" {
		remoteHost = host.Hostname()
	}
	remote := net.JoinHostPort(remoteHost, strconv.Itoa(assigned.Port))
	local := net.JoinHostPort(c.localHost(), strconv.Itoa(req.Port))

	dialCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	first, err := c.dialer()(dialCtx, "tcp", remote)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", remote, err)
	}

	workerCtx, stop := context.WithCancel(context.Background())
	group, workerCtx := errgroup.WithContext(workerCtx)
	t := &Tunnel{
		url:    assigned.URL,
		stop:   stop,
		group:  group,
		logger: c.logger().WithFields(logrus.Fields{"tunnel": assigned.ID, "remote": remote}),
	}

	workers := assigned.MaxConnCount
	if workers <= 0 {
		workers = 1
	}
	if workers > maxConnections {
		workers = maxConnections
	}

	p := &proxy{remote: remote, local: local, dial: c.dialer(), logger: t.logger}
	for i := 0; i < workers; i++ {
		var conn net.Conn
		if i == 0 {
			conn = first
		}
		group.Go(func() error {
			p.run(workerCtx, conn)
			return nil
		})
	}

	t.logger.WithField("url", assigned.URL).Info("tunnel established")
	return t, nil
}

// requestAssignment asks for the preferred subdomain and falls back to a
// random one when the relay refuses it.
func (c *Client) requestAssignment(ctx context.Context, host *url.URL, subdomain string) (assignment, error) {
	if subdomain != "" {
		assigned, err := c.fetchAssignment(ctx, host.JoinPath(subdomain).String())
		if err == nil {
			return assigned, nil
		}
		if !errors.Is(err, ErrRelayRejected) {
			return assignment{}, err
		}
		c.logger().WithField("subdomain", subdomain).WithError(err).Debug("preferred subdomain refused")
	}

	endpoint := *host
	endpoint.Path = "/"
	endpoint.RawQuery = "new"
	return c.fetchAssignment(ctx, endpoint.String())
}

func (c *Client) fetchAssignment(ctx context.Context, endpoint string) (assignment, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return assignment{}, fmt.Errorf("create tunnel request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return assignment{}, fmt.Errorf("request tunnel: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload assignment
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := payload.Message
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
			return assignment{}, fmt.Errorf("%w: %s", ErrRelayRejected, message)
		}
		return assignment{}, fmt.Errorf("request tunnel: %s", message)
	}
	if decodeErr != nil {
		return assignment{}, fmt.Errorf("decode tunnel response: %w", decodeErr)
	}
	if payload.URL == "" || payload.Port <= 0 {
		if payload.Message != "" {
			return assignment{}, fmt.Errorf("%w: %s", ErrRelayRejected, payload.Message)
		}
		return assignment{}, errors.New("tunnel response missing required fields")
	}

	return payload, nil
}

func (c *Client) hostURL() (*url.URL, error) {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse tunnel host: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("tunnel host must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("tunnel host is required")
	}
	return parsed, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (c *Client) localHost() string {
	if c.LocalHost != "" {
		return c.LocalHost
	}
	return defaultLocalHost
}

func (c *Client) dialer() dialFunc {
	if c.dial != nil {
		return c.dial
	}
	var d net.Dialer
	return d.DialContext
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Tunnel is an open relay assignment with its proxy workers.
type Tunnel struct {
	url    string
	stop   context.CancelFunc
	group  *errgroup.Group
	logger logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

var _ ports.Tunnel = (*Tunnel)(nil)

func (t *Tunnel) URL() string {
	return t.url
}

// Close stops every worker and waits for them to exit.
func (t *Tunnel) Close() error {
	t.closeOnce.Do(func() {
		t.stop()
		t.closeErr = t.group.Wait()
		t.logger.Debug("tunnel closed")
	})
	return t.closeErr
}

type proxy struct {
	remote string
	local  string
	dial   dialFunc
	logger logrus.FieldLogger
}

// run keeps one relay connection alive until ctx is done.
func (p *proxy) run(ctx context.Context, conn net.Conn) {
	for {
		if conn == nil {
			var err error
			conn, err = p.dial(ctx, "tcp", p.remote)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.WithError(err).Debug("redial relay")
				select {
				case <-ctx.Done():
					return
				case <-time.After(redialDelay):
				}
				continue
			}
		}

		p.serve(ctx, conn)
		conn = nil
		if ctx.Err() != nil {
			return
		}
	}
}

// serve waits for the relay to send a request before dialing the local
// server, then pipes bytes both ways until either side closes.
func (p *proxy) serve(ctx context.Context, remote net.Conn) {
	var (
		mu    sync.Mutex
		local net.Conn
	)
	release := context.AfterFunc(ctx, func() {
		_ = remote.Close()
		mu.Lock()
		if local != nil {
			_ = local.Close()
		}
		mu.Unlock()
	})
	defer release()
	defer func() { _ = remote.Close() }()

	reader := bufio.NewReader(remote)
	if _, err := reader.Peek(1); err != nil {
		return
	}

	conn, err := p.dial(ctx, "tcp", p.local)
	if err != nil {
		p.logger.WithError(err).Warn("dial local server")
		return
	}
	mu.Lock()
	local = conn
	mu.Unlock()
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(conn, reader)
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.CloseWrite()
		}
	}()

	_, _ = io.Copy(remote, conn)
	_ = remote.Close()
	<-done
}
