package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "share"
	envPrefix  = "SHARE"
)

const (
	KeyPortStart        = "server.port_start"
	KeyPortMax          = "server.port_max"
	KeyProgressInterval = "server.progress_interval"
	KeyTunnelEnabled    = "tunnel.enabled"
	KeyTunnelHost       = "tunnel.host"
	KeyTunnelRetries    = "tunnel.retries"
	KeyHold             = "session.hold"
	KeyClipboard        = "session.clipboard"
	KeyZipCommand       = "archive.zip_command"
	KeyChecksum         = "archive.checksum"
	KeyLogLevel         = "log.level"
	KeyLogFile          = "log.file"
	keyVersion          = "version"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Tunnel  TunnelConfig  `mapstructure:"tunnel"`
	Session SessionConfig `mapstructure:"session"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	PortStart        int           `mapstructure:"port_start"`
	PortMax          int           `mapstructure:"port_max"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

type TunnelConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Retries int    `mapstructure:"retries"`
}

type SessionConfig struct {
	Hold      time.Duration `mapstructure:"hold"`
	Clipboard bool          `mapstructure:"clipboard"`
}

type ArchiveConfig struct {
	ZipCommand string `mapstructure:"zip_command"`
	Checksum   string `mapstructure:"checksum"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			PortStart:        1337,
			PortMax:          65535,
			ProgressInterval: 100 * time.Millisecond,
		},
		Tunnel: TunnelConfig{
			Enabled: true,
			Host:    "https://localtunnel.me",
			Retries: 5,
		},
		Session: SessionConfig{
			Hold:      60 * time.Second,
			Clipboard: true,
		},
		Archive: ArchiveConfig{
			ZipCommand: "zip",
			Checksum:   "sha1",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultPath is $HOME/.config/share/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDir, configName+"."+configType), nil
}

// NewViper returns a viper instance with defaults, the config file at path
// (or the default location when path is empty) and SHARE_ env overrides.
// A missing config file is not an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.AddConfigPath(filepath.Dir(defaultPath))
	}

	err := v.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault(KeyPortStart, def.Server.PortStart)
	v.SetDefault(KeyPortMax, def.Server.PortMax)
	v.SetDefault(KeyProgressInterval, def.Server.ProgressInterval)
	v.SetDefault(KeyTunnelEnabled, def.Tunnel.Enabled)
	v.SetDefault(KeyTunnelHost, def.Tunnel.Host)
	v.SetDefault(KeyTunnelRetries, def.Tunnel.Retries)
	v.SetDefault(KeyHold, def.Session.Hold)
	v.SetDefault(KeyClipboard, def.Session.Clipboard)
	v.SetDefault(KeyZipCommand, def.Archive.ZipCommand)
	v.SetDefault(KeyChecksum, def.Archive.Checksum)
	v.SetDefault(KeyLogLevel, def.Log.Level)
	v.SetDefault(KeyLogFile, def.Log.File)
}

// Load decodes and validates the effective settings held by v.
func Load(v *viper.Viper) (Config, error) {
	if version := v.GetInt(keyVersion); version > currentSchemaVersion {
		return Config{}, fmt.Errorf("%w: unsupported config schema version %d (current %d)", ErrInvalidConfig, version, currentSchemaVersion)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Archive.Checksum = strings.ToLower(strings.TrimSpace(cfg.Archive.Checksum))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.PortStart < 1 || c.Server.PortStart > 65535 {
		errs = append(errs, fmt.Errorf("%s must be within 1-65535, got %d", KeyPortStart, c.Server.PortStart))
	}
	if c.Server.PortMax < c.Server.PortStart || c.Server.PortMax > 65535 {
		errs = append(errs, fmt.Errorf("%s must be within %d-65535, got %d", KeyPortMax, c.Server.PortStart, c.Server.PortMax))
	}
	if c.Server.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyProgressInterval))
	}
	if c.Tunnel.Retries < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyTunnelRetries, c.Tunnel.Retries))
	}
	if c.Tunnel.Enabled {
		host, err := url.Parse(c.Tunnel.Host)
		if err != nil || host.Scheme == "" || host.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", KeyTunnelHost, c.Tunnel.Host))
		}
	}
	if c.Session.Hold <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyHold))
	}
	if strings.TrimSpace(c.Archive.ZipCommand) == "" {
		errs = append(errs, fmt.Errorf("%s is empty", KeyZipCommand))
	}
	switch c.Archive.Checksum {
	case "sha1", "sha256":
	default:
		errs = append(errs, fmt.Errorf("%s must be sha1 or sha256, got %q", KeyChecksum, c.Archive.Checksum))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
