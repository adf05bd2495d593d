package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	currentSchemaVersion = 1
	configFileMode       = 0o600
	configDirMode        = 0o700
	tempFilePattern      = ".config-*.toml.tmp"
)

var ErrConfigExists = errors.New("config file already exists")

type fileSchema struct {
	Version int           `toml:"version"`
	Server  serverSchema  `toml:"server"`
	Tunnel  tunnelSchema  `toml:"tunnel"`
	Session sessionSchema `toml:"session"`
	Archive archiveSchema `toml:"archive"`
	Log     logSchema     `toml:"log"`
}

type serverSchema struct {
	PortStart        int    `toml:"port_start"`
	PortMax          int    `toml:"port_max"`
	ProgressInterval string `toml:"progress_interval"`
}

type tunnelSchema struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Retries int    `toml:"retries"`
}

type sessionSchema struct {
	Hold      string `toml:"hold"`
	Clipboard bool   `toml:"clipboard"`
}

type archiveSchema struct {
	ZipCommand string `toml:"zip_command"`
	Checksum   string `toml:"checksum"`
}

type logSchema struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func toSchema(cfg Config) fileSchema {
	return fileSchema{
		Version: currentSchemaVersion,
		Server: serverSchema{
			PortStart:        cfg.Server.PortStart,
			PortMax:          cfg.Server.PortMax,
			ProgressInterval: formatDuration(cfg.Server.ProgressInterval),
		},
		Tunnel: tunnelSchema{
			Enabled: cfg.Tunnel.Enabled,
			Host:    cfg.Tunnel.Host,
			Retries: cfg.Tunnel.Retries,
		},
		Session: sessionSchema{
			Hold:      formatDuration(cfg.Session.Hold),
			Clipboard: cfg.Session.Clipboard,
		},
		Archive: archiveSchema{
			ZipCommand: cfg.Archive.ZipCommand,
			Checksum:   cfg.Archive.Checksum,
		},
		Log: logSchema{
			Level: cfg.Log.Level,
			File:  cfg.Log.File,
		},
	}
}

func formatDuration(d time.Duration) string {
	return d.String()
}

// Encode renders cfg in the config file format.
func Encode(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(toSchema(cfg))
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// WriteFile replaces the file at path with cfg. Without force an existing
// file is left alone and ErrConfigExists is returned.
func WriteFile(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	cleanup = false

	return nil
}
