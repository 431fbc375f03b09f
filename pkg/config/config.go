// Package config provides configuration management for deadlock with embedded defaults.
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

//go:embed defaults/config
var defaultsFS embed.FS

const (
	configFileName = "config"
	localDirName   = ".deadlock"
)

// Config holds all configuration settings for deadlock.
type Config struct {
	Values

	configDir string // global config directory
	localDir  string // project-local config directory
}

// ColorConfig holds RGB values for output colors.
// each field stores comma-separated RGB values (e.g., "255,0,0" for red).
type ColorConfig struct {
	Info      string // informational messages
	Warn      string // warning messages
	Error     string // error messages
	Timestamp string // timestamp prefix
	Locker    string // locking process lines
}

// Load installs the default config into configDir on first run and loads the merged configuration:
// embedded defaults, then configDir/config, then .deadlock/config in the working directory.
// If configDir is empty, uses the default location (~/.config/deadlock/).
func Load(configDir string) (*Config, error) {
	c := newConfig(configDir)
	if err := newDefaultsInstaller(defaultsFS).Install(c.configDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadReadOnly loads the merged configuration without installing anything.
func LoadReadOnly(configDir string) (*Config, error) {
	c := newConfig(configDir)
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func newConfig(configDir string) *Config {
	c := &Config{configDir: configDir, localDir: localDirName}
	if configDir == "" {
		c.configDir = defaultConfigDir()
	}
	return c
}

func (c *Config) load() error {
	vals, err := newValuesLoader(defaultsFS).Load(c.LocalConfigPath(), c.GlobalConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Values = vals
	return nil
}

// ConfigDir returns the global configuration directory.
func (c *Config) ConfigDir() string { return c.configDir }

// GlobalConfigPath returns the path of the global config file.
func (c *Config) GlobalConfigPath() string { return filepath.Join(c.configDir, configFileName) }

// LocalConfigPath returns the path of the project-local config file.
func (c *Config) LocalConfigPath() string { return filepath.Join(c.localDir, configFileName) }

// KillGrace is the delay between graceful and forced termination.
func (c *Config) KillGrace() time.Duration { return msDuration(c.KillGraceMs) }

// WaitTimeout bounds the wait for a terminated process to exit.
func (c *Config) WaitTimeout() time.Duration { return msDuration(c.WaitTimeoutMs) }

// WaitPoll is the interval between exit checks.
func (c *Config) WaitPoll() time.Duration { return msDuration(c.WaitPollMs) }

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// defaultConfigDir returns ~/.config/deadlock/ on all platforms.
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "deadlock")
	}
	return filepath.Join(home, ".config", "deadlock")
}

// stripComments removes lines starting with # (comment lines) from content.
func stripComments(content string) string {
	var lines []string
	for line := range strings.SplitSeq(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// parseHexColor parses a hex color string (e.g., "#ff0000") into RGB components.
func parseHexColor(hex string) (r, g, b int, err error) {
	if hex == "" || hex[0] != '#' {
		return 0, 0, 0, errors.New("hex color must start with #")
	}
	if len(hex) != 7 {
		return 0, 0, 0, errors.New("hex color must be 7 characters (e.g., #ff0000)")
	}
	val, err := strconv.ParseInt(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return int((val >> 16) & 0xFF), int((val >> 8) & 0xFF), int(val & 0xFF), nil
}
