package cmd

import (
	"github.com/bnema/share-cli/internal/adapters/archive/zipcmd"
	"github.com/bnema/share-cli/internal/adapters/clipboard"
	"github.com/bnema/share-cli/internal/adapters/network"
	"github.com/bnema/share-cli/internal/adapters/transfer"
	"github.com/bnema/share-cli/internal/adapters/tunnel/localtunnel"
	"github.com/bnema/share-cli/internal/application"
	"github.com/bnema/share-cli/internal/config"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

// wireController builds the controller and its adapters from cfg.
func wireController(cfg config.Config, password string, logger logrus.FieldLogger, observer ports.SessionObserver) *application.Controller {
	deps := application.ControllerDeps{
		Packager: zipcmd.NewPackager(zipcmd.Options{
			Command:  cfg.Archive.ZipCommand,
			Checksum: cfg.Archive.Checksum,
			Logger:   logger.WithField("component", "packager"),
		}),
		Allocator: network.NewAllocator(network.Options{
			PortStart: cfg.Server.PortStart,
			PortMax:   cfg.Server.PortMax,
			Logger:    logger.WithField("component", "allocator"),
		}),
		Binder: transfer.NewBinder(transfer.Options{
			ProgressInterval: cfg.Server.ProgressInterval,
			Logger:           logger.WithField("component", "transfer"),
		}),
		Observer: observer,
		Clock:    ports.SystemClock{},
		Logger:   logger.WithField("component", "controller"),
	}
	if cfg.Tunnel.Enabled {
		deps.Tunnels = &localtunnel.Client{
			Host:   cfg.Tunnel.Host,
			Logger: logger.WithField("component", "tunnel"),
		}
	}
	if cfg.Session.Clipboard {
		deps.Clipboard = clipboard.NewSystem()
	}

	return application.NewController(application.ControllerConfig{
		Tunnel:        cfg.Tunnel.Enabled,
		TunnelRetries: cfg.Tunnel.Retries,
		Clipboard:     cfg.Session.Clipboard,
		HoldDuration:  cfg.Session.Hold,
		Password:      password,
	}, deps)
}
