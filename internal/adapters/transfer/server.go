package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	DefaultProgressInterval = 100 * time.Millisecond
	eventBuffer             = 64
	readHeaderTimeout       = 10 * time.Second
	contentTypeZip          = "application/zip"
)

type listenFunc func(network, address string) (net.Listener, error)

type Options struct {
	ProgressInterval time.Duration
	Logger           logrus.FieldLogger
}

// Binder starts transfer servers on demand.
type Binder struct {
	interval time.Duration
	logger   logrus.FieldLogger
	listen   listenFunc
}

var _ ports.TransferBinder = (*Binder)(nil)

func NewBinder(opts Options) *Binder {
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		opts.Logger = logger
	}

	return &Binder{
		interval: opts.ProgressInterval,
		logger:   opts.Logger,
		listen:   net.Listen,
	}
}

// Bind listens on the given port on all interfaces and serves the artifact
// until the returned listener is closed.
func (b *Binder) Bind(ctx context.Context, opts ports.ServeOptions) (ports.TransferListener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Token == "" {
		return nil, errors.New("access token is required")
	}

	listener, err := b.listen("tcp", net.JoinHostPort("", strconv.Itoa(opts.Port)))
	if err != nil {
		return nil, fmt.Errorf("listen transfer server on port %d: %w", opts.Port, err)
	}

	s := newServer(opts, b.interval, b.logger)
	s.listener = listener
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if serveErr := s.http.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.WithError(serveErr).Error("transfer server stopped")
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"port":     s.Port(),
		"tunneled": opts.Tunneled,
	}).Info("transfer server listening")

	return s, nil
}

// Server serves exactly one artifact under one access token.
type Server struct {
	opts     ports.ServeOptions
	interval time.Duration
	logger   logrus.FieldLogger
	router   chi.Router

	listener net.Listener
	http     *http.Server

	events    chan domain.TransferEvent
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ ports.TransferListener = (*Server)(nil)

func newServer(opts ports.ServeOptions, interval time.Duration, logger logrus.FieldLogger) *Server {
	s := &Server{
		opts:     opts,
		interval: interval,
		logger:   logger,
		events:   make(chan domain.TransferEvent, eventBuffer),
		done:     make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(rejectCrawlers)
	r.Use(readOnlyMethods)
	// Tunneled downloads are requested at the relay root.
	r.HandleFunc("/", s.handleDownload)
	r.HandleFunc("/{token}", s.handleDownload)
	r.HandleFunc("/{token}/*", s.handleDownload)
	r.NotFound(notFound)
	s.router = r

	return s
}

func (s *Server) Port() int {
	if s.listener == nil {
		return s.opts.Port
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.opts.Port
}

func (s *Server) Events() <-chan domain.TransferEvent {
	return s.events
}

// Close stops accepting requests and drops active transfers.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		var errs []error
		if s.http != nil {
			if err := s.http.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if !s.opts.Tunneled && domain.AccessToken(token) != s.opts.Token {
		notFound(w, r)
		return
	}

	artifact := s.opts.Artifact
	file, err := os.Open(artifact.Path)
	if err != nil {
		s.logger.WithField("request_id", RequestIDFrom(r.Context())).WithError(err).Error("open archive")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = file.Close() }()

	header := w.Header()
	header.Set("Content-Disposition", contentDisposition(artifact.Name))
	header.Set("Content-Length", strconv.FormatInt(artifact.SizeBytes, 10))
	header.Set("Content-Type", contentTypeZip)

	if r.Method == http.MethodHead {
		header.Set("Connection", "close")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)

	id := RequestIDFrom(r.Context())
	total := artifact.SizeBytes
	s.emit(domain.TransferEvent{Kind: domain.TransferStarted, RequestID: id, Total: total})

	pw := newProgressWriter(w, s.interval, func(sent int64) {
		s.emitProgress(domain.TransferEvent{Kind: domain.TransferProgress, RequestID: id, Sent: sent, Total: total})
	})
	sent, copyErr := io.Copy(pw, file)

	switch {
	case copyErr != nil:
	case sent != total:
		copyErr = fmt.Errorf("sent %d of %d bytes: %w", sent, total, io.ErrShortWrite)
	case r.Context().Err() != nil:
		copyErr = r.Context().Err()
	}

	if copyErr != nil {
		s.emit(domain.TransferEvent{Kind: domain.TransferAborted, RequestID: id, Sent: sent, Total: total, Err: copyErr})
		return
	}
	s.emit(domain.TransferEvent{Kind: domain.TransferCompleted, RequestID: id, Sent: sent, Total: total})
}

// emit delivers a lifecycle event unless the server is closed.
func (s *Server) emit(event domain.TransferEvent) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}

// emitProgress drops the event when the consumer lags behind.
func (s *Server) emitProgress(event domain.TransferEvent) {
	select {
	case s.events <- event:
	default:
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"remote":     r.RemoteAddr,
			"user_agent": r.UserAgent(),
		}).Debug("transfer request")
		next.ServeHTTP(w, r)
	})
}

func contentDisposition(name string) string {
	if value := mime.FormatMediaType("attachment", map[string]string{"filename": name}); value != "" {
		return value
	}
	return "attachment"
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}
