// Package config provides configuration for the reelbeat engine.
// Configuration is loaded from environment variables with sensible
// defaults and validated before the engine starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// Default values
	DefaultPort       = 8790
	DefaultLogLevel   = "info"
	DefaultDataDir    = ".reelbeat"
	DefaultResolution = "1080p"

	// Environment variable names
	EnvPort          = "REELBEAT_PORT"
	EnvLogLevel      = "REELBEAT_LOG_LEVEL"
	EnvDataDir       = "REELBEAT_DATA_DIR"
	EnvRenderURL     = "REELBEAT_RENDER_URL"
	EnvRenderToken   = "REELBEAT_RENDER_TOKEN"
	EnvPreviewRes    = "REELBEAT_PREVIEW_RESOLUTION"
	EnvExportTimeout = "REELBEAT_EXPORT_TIMEOUT"

	// Database filename
	DBFilename = "reelbeat.db"

	// Export defaults
	DefaultExportTimeout = 300 // seconds
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	RenderURL() string
	RenderToken() string
	PreviewResolution() string
	ExportTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	dataDir       string
	renderURL     string
	renderToken   string
	previewRes    string
	exportTimeout int
}

// New creates a new EnvConfig with defaults and environment variable
// overrides, validated before use.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		dataDir:       defaultDataDir(),
		previewRes:    DefaultResolution,
		exportTimeout: DefaultExportTimeout,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.renderURL = os.Getenv(EnvRenderURL)
	cfg.renderToken = os.Getenv(EnvRenderToken)

	if res := os.Getenv(EnvPreviewRes); res != "" {
		cfg.previewRes = res
	}

	if to := os.Getenv(EnvExportTimeout); to != "" {
		timeout, err := strconv.Atoi(to)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvExportTimeout, err)
		}
		cfg.exportTimeout = timeout
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) validate() error {
	return validation.Errors{
		"port": validation.Validate(c.port,
			validation.Required, validation.Min(1), validation.Max(65535)),
		"log_level": validation.Validate(c.logLevel,
			validation.Required, validation.In("debug", "info", "warn", "error")),
		"preview_resolution": validation.Validate(c.previewRes,
			validation.Required, validation.In("720p", "1080p", "4k")),
		"export_timeout": validation.Validate(c.exportTimeout,
			validation.Required, validation.Min(30), validation.Max(3600)),
	}.Filter()
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// RenderURL returns the remote render service base URL. Empty means the
// stub client is used.
func (c *EnvConfig) RenderURL() string {
	return c.renderURL
}

// RenderToken returns the bearer token for the render service
func (c *EnvConfig) RenderToken() string {
	return c.renderToken
}

// PreviewResolution returns the preview frame resolution name
func (c *EnvConfig) PreviewResolution() string {
	return c.previewRes
}

// ExportTimeout returns the maximum wait for a remote render
func (c *EnvConfig) ExportTimeout() time.Duration {
	return time.Duration(c.exportTimeout) * time.Second
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
