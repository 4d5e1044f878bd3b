// Package config loads the stblocks workspace configuration from
// stblocks.toml.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the workspace configuration.
type Config struct {
	// Site locates the SparkType site on disk.
	Site SiteConfig `toml:"site"`

	// Bridge configures the editor websocket server.
	Bridge BridgeConfig `toml:"bridge"`

	// Logging configures diagnostic output.
	Logging LoggingConfig `toml:"logging"`
}

// SiteConfig locates site content and manifests.
type SiteConfig struct {
	// ContentDir holds the markdown page files.
	ContentDir string `toml:"content_dir"`

	// ManifestDir holds site-local block manifests, loaded on top of the
	// built-in core set.
	ManifestDir string `toml:"manifest_dir"`
}

// BridgeConfig configures the editor bridge server.
type BridgeConfig struct {
	// Listen is the host:port the bridge binds.
	Listen string `toml:"listen"`
}

// LoggingConfig configures diagnostic output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ContentDir:  "content",
			ManifestDir: "manifests",
		},
		Bridge:  BridgeConfig{Listen: "127.0.0.1:8787"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path and overlays it on the defaults, so a partial file only
// overrides what it names. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidationError is one problem with a configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every value the tools cannot run with.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Site.ContentDir == "" {
		errs = append(errs, ValidationError{Field: "site.content_dir", Message: "must not be empty"})
	}
	if c.Site.ManifestDir == "" {
		errs = append(errs, ValidationError{Field: "site.manifest_dir", Message: "must not be empty"})
	}
	if _, _, err := net.SplitHostPort(c.Bridge.Listen); err != nil {
		errs = append(errs, ValidationError{
			Field:   "bridge.listen",
			Message: fmt.Sprintf("%q is not a host:port address", c.Bridge.Listen),
		})
	}
	if !logLevels[c.Logging.Level] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("%q is not one of debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
