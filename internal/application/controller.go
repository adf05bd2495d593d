package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

var ErrAlreadyRunning = errors.New("session controller already running")

const (
	defaultHoldDuration = 60 * time.Second
	bindAttempts        = 2
	clipboardTimeout    = 5 * time.Second
	signalBuffer        = 8
)

const (
	labelPreparing        = "Preparing file"
	labelNoInput          = "No input given"
	labelPackagingFailed  = "Preparing file failed"
	labelFileReady        = "File ready"
	labelStartingServer   = "Starting server"
	labelNoFreePort       = "Starting server failed, failed allocating free port"
	labelBindFailed       = "Starting server failed"
	labelServerStarted    = "Server started"
	labelOpeningTunnel    = "Opening tunnel"
	labelTunnelOpened     = "Tunnel opened"
	labelTunnelFailed     = "Opening tunnel failed"
	labelTunnelDisabled   = "Tunnel disabled"
	labelCopying          = "Copying to clipboard"
	labelCopied           = "Copied to clipboard"
	labelCopyFailed       = "Copying to clipboard failed"
	labelClipboardOff     = "Clipboard disabled"
	labelAwaitingDownload = "Awaiting download"
	labelDownloading      = "Downloading"
	labelDownloaded       = "Downloaded"
	labelInterrupted      = "Download interrupted"
)

type controlSignal int

const (
	signalShutdown controlSignal = iota + 1
	signalKeepServing
)

type ControllerConfig struct {
	Tunnel        bool
	TunnelRetries int
	Clipboard     bool
	HoldDuration  time.Duration
	// Password forces the archive password; empty means generate one.
	Password string
}

type ControllerDeps struct {
	Packager    ports.Packager
	Allocator   ports.PortAllocator
	Binder      ports.TransferBinder
	Tunnels     ports.TunnelOpener
	Clipboard   ports.Clipboard
	Observer    ports.SessionObserver
	Clock       ports.Clock
	Logger      logrus.FieldLogger
	NewToken    TokenGenerator
	NewPassword PasswordGenerator
}

// Controller owns one Session and drives it from packaging to teardown.
// Run is the only writer of the Session; every other method is safe to
// call from any goroutine.
type Controller struct {
	cfg  ControllerConfig
	deps ControllerDeps

	session  *domain.Session
	hold     scheduledTask
	listener ports.TransferListener
	tunnel   ports.Tunnel
	tornDown bool

	signals chan controlSignal
	running atomic.Bool

	mu       sync.RWMutex
	snapshot domain.Snapshot
}

func NewController(cfg ControllerConfig, deps ControllerDeps) *Controller {
	if cfg.HoldDuration <= 0 {
		cfg.HoldDuration = defaultHoldDuration
	}
	if cfg.TunnelRetries < 1 {
		cfg.TunnelRetries = defaultTunnelAttempts
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		deps.Logger = logger
	}
	if deps.NewToken == nil {
		deps.NewToken = NewAccessToken
	}
	if deps.NewPassword == nil {
		deps.NewPassword = NewPassword
	}

	session := domain.NewSession()
	return &Controller{
		cfg:      cfg,
		deps:     deps,
		session:  session,
		signals:  make(chan controlSignal, signalBuffer),
		snapshot: session.Snapshot(),
	}
}

// Snapshot returns the most recently published session state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Shutdown asks Run to release the connection and return.
func (c *Controller) Shutdown() {
	c.signal(signalShutdown)
}

// KeepServing cancels a pending auto-shutdown and reopens the download cycle.
func (c *Controller) KeepServing() {
	c.signal(signalKeepServing)
}

func (c *Controller) signal(sig controlSignal) {
	select {
	case c.signals <- sig:
	default:
		c.deps.Logger.WithField("signal", sig).Debug("control signal dropped, queue full")
	}
}

// Run executes the session. It returns nil when the session ends through
// hold expiry, Shutdown or context cancellation, and a *domain.SessionError
// when startup fails.
func (c *Controller) Run(ctx context.Context, source domain.Source) (err error) {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	defer func() {
		if teardownErr := c.teardown(); teardownErr != nil {
			c.deps.Logger.WithError(teardownErr).Warn("teardown incomplete")
		}
		c.publish()
	}()

	c.publish()

	if err := c.prepareFile(ctx, source); err != nil {
		return err
	}
	if err := c.startServer(ctx); err != nil {
		return err
	}
	if err := c.openTunnel(ctx); err != nil {
		return err
	}
	c.copyToClipboard(ctx)
	c.publishDetails()

	return c.serve(ctx)
}

func (c *Controller) prepareFile(ctx context.Context, source domain.Source) error {
	if !source.Valid() {
		c.mutate(c.session.Advance(domain.StepFile, domain.PhaseErrored, labelNoInput))
		return domain.NewSessionError(domain.FatalMissingInput, domain.StepFile, nil)
	}

	c.mutate(c.session.Advance(domain.StepFile, domain.PhaseStarted, labelPreparing))

	token, err := c.deps.NewToken()
	if err == nil {
		err = c.session.SetToken(token)
	}
	password := c.cfg.Password
	if err == nil && password == "" {
		password, err = c.deps.NewPassword()
	}

	var artifact domain.Artifact
	if err == nil {
		artifact, err = c.deps.Packager.Package(ctx, ports.PackageRequest{
			Source:       source,
			Password:     password,
			FallbackName: string(token),
		})
	}
	if err == nil {
		err = c.session.SetArtifact(artifact)
	}
	if err != nil {
		c.mutate(c.session.Advance(domain.StepFile, domain.PhaseErrored, labelPackagingFailed))
		return domain.NewSessionError(domain.FatalPackagingFailed, domain.StepFile, err)
	}

	c.deps.Logger.WithFields(logrus.Fields{
		"archive": artifact.Path,
		"name":    artifact.Name,
		"size":    artifact.SizeBytes,
	}).Info("archive ready")

	c.mutate(c.session.Advance(domain.StepFile, domain.PhaseDone, labelFileReady))
	return nil
}

// startServer runs the allocate and bind cycle, retrying it once when the
// allocated port is taken before the bind.
func (c *Controller) startServer(ctx context.Context) error {
	c.mutate(c.session.Advance(domain.StepServer, domain.PhaseStarted, labelStartingServer))

	artifact, _ := c.session.Artifact()
	token := c.session.Token()

	var (
		endpoint domain.Endpoint
		bindErr  error
	)
	for attempt := 1; attempt <= bindAttempts; attempt++ {
		var err error
		endpoint, err = c.deps.Allocator.Allocate(ctx)
		if err != nil {
			c.mutate(c.session.Advance(domain.StepServer, domain.PhaseErrored, labelNoFreePort))
			return domain.NewSessionError(domain.FatalNoFreePort, domain.StepServer, err)
		}

		listener, err := c.deps.Binder.Bind(ctx, ports.ServeOptions{
			Port:     endpoint.Port,
			Token:    token,
			Tunneled: c.cfg.Tunnel,
			Artifact: artifact,
		})
		if err == nil {
			c.listener = listener
			endpoint.Port = listener.Port()
			break
		}

		bindErr = err
		c.deps.Logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"port":    endpoint.Port,
		}).WithError(err).Warn("bind failed")
	}

	if c.listener == nil {
		c.mutate(c.session.Advance(domain.StepServer, domain.PhaseErrored, labelBindFailed))
		return domain.NewSessionError(domain.FatalBindFailed, domain.StepServer, bindErr)
	}

	return c.mutate(c.session.MarkServerReady(endpoint, endpoint.URL(token), labelServerStarted))
}

func (c *Controller) openTunnel(ctx context.Context) error {
	if !c.cfg.Tunnel || c.deps.Tunnels == nil {
		c.mutate(c.session.Advance(domain.StepTunnel, domain.PhaseStarted, labelTunnelDisabled))
		return c.mutate(c.session.Advance(domain.StepTunnel, domain.PhaseDone, labelTunnelDisabled))
	}

	c.mutate(c.session.Advance(domain.StepTunnel, domain.PhaseStarted, labelOpeningTunnel))

	endpoint, _ := c.session.Endpoint()
	tunnel, err := negotiateTunnel(ctx, c.deps.Tunnels, ports.TunnelRequest{
		Port:      endpoint.Port,
		Subdomain: c.session.Token().Subdomain(),
	}, c.cfg.TunnelRetries, c.deps.Logger)
	if err != nil {
		c.mutate(c.session.Advance(domain.StepTunnel, domain.PhaseErrored, labelTunnelFailed))
		return domain.NewSessionError(domain.FatalTunnelExhausted, domain.StepTunnel, err)
	}
	c.tunnel = tunnel

	if err := c.session.SetConnectionURL(tunnel.URL()); err != nil {
		return c.mutate(err)
	}
	return c.mutate(c.session.Advance(domain.StepTunnel, domain.PhaseDone, labelTunnelOpened))
}

// copyToClipboard never fails the session; a failed copy only marks the
// clipboard step errored.
func (c *Controller) copyToClipboard(ctx context.Context) {
	if !c.cfg.Clipboard || c.deps.Clipboard == nil {
		c.mutate(c.session.Advance(domain.StepClipboard, domain.PhaseStarted, labelClipboardOff))
		c.mutate(c.session.Advance(domain.StepClipboard, domain.PhaseDone, labelClipboardOff))
		return
	}

	c.mutate(c.session.Advance(domain.StepClipboard, domain.PhaseStarted, labelCopying))

	copyCtx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()
	if err := c.deps.Clipboard.Copy(copyCtx, c.session.ConnectionURL()); err != nil {
		c.deps.Logger.WithError(err).Warn("clipboard copy failed")
		c.mutate(c.session.Advance(domain.StepClipboard, domain.PhaseErrored, labelCopyFailed))
		return
	}
	c.mutate(c.session.Advance(domain.StepClipboard, domain.PhaseDone, labelCopied))
}

func (c *Controller) publishDetails() {
	artifact, _ := c.session.Artifact()
	c.session.SetDetails(domain.Details{
		URL:               c.session.ConnectionURL(),
		Checksum:          artifact.Checksum,
		ChecksumAlgorithm: artifact.ChecksumAlgorithm,
		Password:          artifact.Password,
	})
	c.session.Relabel(domain.StepDownload, labelAwaitingDownload)
	c.publish()
}

func (c *Controller) serve(ctx context.Context) error {
	events := c.listener.Events()
	for {
		select {
		case <-ctx.Done():
			c.deps.Logger.Info("context cancelled, shutting down")
			c.stop()
			return nil
		case sig := <-c.signals:
			switch sig {
			case signalShutdown:
				c.deps.Logger.Info("shutdown requested")
				c.stop()
				return nil
			case signalKeepServing:
				c.hold.Cancel()
				held := c.session.KeepServing(labelAwaitingDownload)
				c.deps.Logger.WithField("held", held).Info("keep serving")
				c.publish()
			}
		case <-c.hold.C():
			c.hold.Cancel()
			c.deps.Logger.WithField("downloads", c.session.Downloads()).Info("hold window elapsed")
			return nil
		case event := <-events:
			c.handleTransfer(event)
		}
	}
}

func (c *Controller) handleTransfer(event domain.TransferEvent) {
	logger := c.deps.Logger.WithFields(logrus.Fields{
		"request_id": event.RequestID,
		"event":      event.Kind,
	})

	switch event.Kind {
	case domain.TransferStarted:
		c.mutate(c.session.StartDownload(labelDownloading))
	case domain.TransferProgress:
		c.session.SetProgress(event.Fraction())
	case domain.TransferCompleted:
		c.mutate(c.session.CompleteDownload(c.deps.Clock.Now(), c.cfg.HoldDuration, labelDownloaded))
		c.hold.Arm(c.cfg.HoldDuration)
		logger.WithField("downloads", c.session.Downloads()).Info("download completed")
	case domain.TransferAborted:
		c.mutate(c.session.AbortDownload(labelInterrupted))
		logger.WithError(event.Err).Warn("download interrupted")
	default:
		logger.Debug("unknown transfer event")
		return
	}
	c.publish()
}

func (c *Controller) stop() {
	c.hold.Cancel()
	c.session.RequestShutdown()
	c.publish()
}

// teardown closes the tunnel before the listener, then removes the
// archive. Calling it again is a no-op.
func (c *Controller) teardown() error {
	if c.tornDown {
		return nil
	}
	c.tornDown = true
	c.hold.Cancel()

	var errs []error
	if c.tunnel != nil {
		if err := c.tunnel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tunnel: %w", err))
		}
	}
	if c.listener != nil {
		if err := c.listener.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close listener: %w", err))
		}
	}
	if c.deps.Packager != nil {
		if err := c.deps.Packager.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("cleanup archive: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) publish() {
	snapshot := c.session.Snapshot()

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	if c.deps.Observer != nil {
		c.deps.Observer.Observe(snapshot)
	}
}

// mutate publishes after a successful session mutation and logs a
// rejected one.
func (c *Controller) mutate(err error) error {
	if err != nil {
		c.deps.Logger.WithError(err).Error("session transition rejected")
		return err
	}
	c.publish()
	return nil
}
