package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// commentOutContent prefixes all non-comment, non-empty lines with "# ".
// handles both Unix (LF) and Windows (CRLF) line endings.
func commentOutContent(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}

// shouldOverwrite checks if a file is safe to overwrite with new defaults.
// returns true if file doesn't exist, is empty, or contains only comments/whitespace.
// returns false if file exists but can't be read (preserve unknown content).
func shouldOverwrite(filePath string) bool {
	data, err := os.ReadFile(filePath) //nolint:gosec // user's config file
	if err != nil {
		return os.IsNotExist(err)
	}
	return strings.TrimSpace(stripComments(string(data))) == ""
}

// defaultsInstaller writes the embedded config template into the user's config directory.
type defaultsInstaller struct {
	embedFS embed.FS
}

func newDefaultsInstaller(embedFS embed.FS) *defaultsInstaller {
	return &defaultsInstaller{embedFS: embedFS}
}

// Install creates the config directory and a fully commented config file if it is missing.
// an existing file with any active setting is never touched.
func (d *defaultsInstaller) Install(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, configFileName)
	if !shouldOverwrite(configPath) {
		return nil
	}
	data, err := d.embedFS.ReadFile("defaults/config")
	if err != nil {
		return fmt.Errorf("read embedded config: %w", err)
	}
	// written commented out, users uncomment what they customize
	if err := os.WriteFile(configPath, []byte(commentOutContent(string(data))), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// DumpDefaults writes the embedded config, uncommented, to dir/config.
func DumpDefaults(dir string) error {
	data, err := defaultsFS.ReadFile("defaults/config")
	if err != nil {
		return fmt.Errorf("read embedded config: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
