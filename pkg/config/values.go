package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Values holds scalar configuration values.
// Fields ending in *Set track whether that field was explicitly set in config, so a local
// config can override a global one with a zero value.
type Values struct {
	Prober         string // auto, procfs, lsof or none
	LsofCommand    string
	KillGraceMs    int
	KillGraceMsSet bool // tracks if kill_grace_ms was explicitly set
	WaitTimeoutMs  int
	WaitPollMs     int
	ElevateCommand string

	ConfirmDelete    bool
	ConfirmDeleteSet bool // tracks if confirm_delete was explicitly set

	Colors ColorConfig
}

// valuesLoader loads Values with embedded filesystem fallback.
type valuesLoader struct {
	embedFS embed.FS
}

func newValuesLoader(embedFS embed.FS) *valuesLoader {
	return &valuesLoader{embedFS: embedFS}
}

// Load loads values from config files with fallback chain: local → global → embedded.
// localConfigPath and globalConfigPath are full paths to config files (not directories).
func (vl *valuesLoader) Load(localConfigPath, globalConfigPath string) (Values, error) {
	embedded, err := vl.parseValuesFromEmbedded()
	if err != nil {
		return Values{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	global, err := vl.parseValuesFromFile(globalConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse global config: %w", err)
	}

	local, err := vl.parseValuesFromFile(localConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse local config: %w", err)
	}

	// merge: embedded → global → local (local wins)
	result := embedded
	result.mergeFrom(&global)
	result.mergeFrom(&local)
	return result, nil
}

// parseValuesFromFile reads a config file and parses it into Values.
// returns empty Values (not error) if file doesn't exist or contains only comments/whitespace.
func (vl *valuesLoader) parseValuesFromFile(path string) (Values, error) {
	if path == "" {
		return Values{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if strings.TrimSpace(stripComments(string(data))) == "" {
		return Values{}, nil
	}
	return vl.parseValuesFromBytes(data)
}

func (vl *valuesLoader) parseValuesFromEmbedded() (Values, error) {
	data, err := vl.embedFS.ReadFile("defaults/config")
	if err != nil {
		return Values{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	return vl.parseValuesFromBytes(data)
}

// parseValuesFromBytes parses configuration from a byte slice into Values.
func (vl *valuesLoader) parseValuesFromBytes(data []byte) (Values, error) {
	// ignoreInlineComment: true prevents # in color values from being treated as a comment
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("parse config: %w", err)
	}

	var values Values
	section := cfg.Section("") // default section (no section header)

	if key, err := section.GetKey("prober"); err == nil {
		values.Prober = strings.ToLower(strings.TrimSpace(key.String()))
	}
	if key, err := section.GetKey("lsof_command"); err == nil {
		values.LsofCommand = strings.TrimSpace(key.String())
	}
	if key, err := section.GetKey("elevate_command"); err == nil {
		values.ElevateCommand = strings.TrimSpace(key.String())
	}

	if key, err := section.GetKey("kill_grace_ms"); err == nil {
		val, intErr := nonNegativeInt(key, "kill_grace_ms")
		if intErr != nil {
			return Values{}, intErr
		}
		values.KillGraceMs = val
		values.KillGraceMsSet = true
	}
	if key, err := section.GetKey("wait_timeout_ms"); err == nil {
		val, intErr := nonNegativeInt(key, "wait_timeout_ms")
		if intErr != nil {
			return Values{}, intErr
		}
		values.WaitTimeoutMs = val
	}
	if key, err := section.GetKey("wait_poll_ms"); err == nil {
		val, intErr := nonNegativeInt(key, "wait_poll_ms")
		if intErr != nil {
			return Values{}, intErr
		}
		values.WaitPollMs = val
	}

	if key, err := section.GetKey("confirm_delete"); err == nil {
		val, boolErr := key.Bool()
		if boolErr != nil {
			return Values{}, fmt.Errorf("invalid confirm_delete: %w", boolErr)
		}
		values.ConfirmDelete = val
		values.ConfirmDeleteSet = true
	}

	if err := parseColors(section, &values.Colors); err != nil {
		return Values{}, err
	}
	return values, nil
}

func nonNegativeInt(key *ini.Key, name string) (int, error) {
	val, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s: must be non-negative, got %d", name, val)
	}
	return val, nil
}

// parseColors reads color_* hex values and stores them as comma-separated RGB.
func parseColors(section *ini.Section, colors *ColorConfig) error {
	colorKeys := []struct {
		key   string
		field *string
	}{
		{"color_info", &colors.Info},
		{"color_warn", &colors.Warn},
		{"color_error", &colors.Error},
		{"color_timestamp", &colors.Timestamp},
		{"color_locker", &colors.Locker},
	}

	for _, ck := range colorKeys {
		key, err := section.GetKey(ck.key)
		if err != nil {
			continue
		}
		hex := strings.TrimSpace(key.String())
		if hex == "" {
			return fmt.Errorf("invalid %s: empty value", ck.key)
		}
		r, g, b, err := parseHexColor(hex)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", ck.key, err)
		}
		*ck.field = fmt.Sprintf("%d,%d,%d", r, g, b)
	}
	return nil
}

// mergeFrom merges non-empty values from src into dst.
func (dst *Values) mergeFrom(src *Values) {
	if src.Prober != "" {
		dst.Prober = src.Prober
	}
	if src.LsofCommand != "" {
		dst.LsofCommand = src.LsofCommand
	}
	if src.ElevateCommand != "" {
		dst.ElevateCommand = src.ElevateCommand
	}
	if src.KillGraceMsSet {
		dst.KillGraceMs = src.KillGraceMs
		dst.KillGraceMsSet = true
	}
	if src.WaitTimeoutMs != 0 {
		dst.WaitTimeoutMs = src.WaitTimeoutMs
	}
	if src.WaitPollMs != 0 {
		dst.WaitPollMs = src.WaitPollMs
	}
	if src.ConfirmDeleteSet {
		dst.ConfirmDelete = src.ConfirmDelete
		dst.ConfirmDeleteSet = true
	}

	dst.Colors.mergeFrom(&src.Colors)
}

func (dst *ColorConfig) mergeFrom(src *ColorConfig) {
	if src.Info != "" {
		dst.Info = src.Info
	}
	if src.Warn != "" {
		dst.Warn = src.Warn
	}
	if src.Error != "" {
		dst.Error = src.Error
	}
	if src.Timestamp != "" {
		dst.Timestamp = src.Timestamp
	}
	if src.Locker != "" {
		dst.Locker = src.Locker
	}
}
