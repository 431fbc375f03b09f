// Package progress provides timestamped logging to stdout and an optional log file with color support.
package progress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/umputun/deadlock/pkg/lock"
)

// ErrLogInUse is returned when another running instance holds the log file.
var ErrLogInUse = errors.New("log file is in use by another process")

// ColorConfig holds RGB values for output colors.
// each field stores comma-separated RGB values (e.g., "255,0,0" for red).
type ColorConfig struct {
	Info      string // informational messages
	Warn      string // warning messages
	Error     string // error messages
	Timestamp string // timestamp prefix
	Locker    string // locking process lines
}

// Colors holds all color configuration for output formatting.
// use NewColors to create from ColorConfig.
type Colors struct {
	info      *color.Color
	warn      *color.Color
	err       *color.Color
	timestamp *color.Color
	locker    *color.Color
}

// NewColors creates Colors from ColorConfig.
// all colors must be provided, use config with embedded defaults fallback.
// panics if any color value is invalid (configuration error).
func NewColors(cfg ColorConfig) *Colors {
	return &Colors{
		info:      parseColorOrPanic(cfg.Info, "info"),
		warn:      parseColorOrPanic(cfg.Warn, "warn"),
		err:       parseColorOrPanic(cfg.Error, "error"),
		timestamp: parseColorOrPanic(cfg.Timestamp, "timestamp"),
		locker:    parseColorOrPanic(cfg.Locker, "locker"),
	}
}

// parseColorOrPanic parses RGB string and returns color, panics on invalid input.
func parseColorOrPanic(s, name string) *color.Color {
	rgb := parseRGB(s)
	if rgb == nil {
		panic(fmt.Sprintf("invalid color_%s value: %q", name, s))
	}
	return color.RGB(rgb[0], rgb[1], rgb[2])
}

func parseRGB(s string) []int {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil
	}
	res := make([]int, 0, 3)
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return nil
		}
		res = append(res, v)
	}
	return res
}

// Info returns the info color for informational messages.
func (c *Colors) Info() *color.Color { return c.info }

// Timestamp returns the timestamp color.
func (c *Colors) Timestamp() *color.Color { return c.timestamp }

// Warn returns the warning color.
func (c *Colors) Warn() *color.Color { return c.warn }

// Error returns the error color.
func (c *Colors) Error() *color.Color { return c.err }

// Locker returns the color for locking processes.
func (c *Colors) Locker() *color.Color { return c.locker }

// Config holds logger configuration.
type Config struct {
	LogFile string // optional file mirroring stdout without colors
	Target  string // target path, written to the log header
	Action  string // requested action, written to the log header
	Debug   bool   // print Debug messages
	NoColor bool   // disable color output (sets color.NoColor globally)
}

// Logger writes timestamped output to stdout and, optionally, to a log file.
type Logger struct {
	file      *os.File
	stdout    io.Writer
	startTime time.Time
	colors    *Colors
	debug     bool
}

// NewLogger creates a logger writing to stdout and to cfg.LogFile if set.
// the log file is held under an exclusive lock until Close, a second instance logging
// to the same file gets ErrLogInUse.
func NewLogger(cfg Config, colors *Colors) (*Logger, error) {
	if cfg.NoColor {
		color.NoColor = true
	}

	l := &Logger{stdout: os.Stdout, startTime: time.Now(), colors: colors, debug: cfg.Debug}
	if cfg.LogFile == "" {
		return l, nil
	}

	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // user supplied log path
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock log file %s: %w", cfg.LogFile, err)
	}
	l.file = f

	l.writeFile("# deadlock log\n")
	l.writeFile("Target: %s\n", cfg.Target)
	l.writeFile("Action: %s\n", cfg.Action)
	l.writeFile("Started: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	l.writeFile("%s\n\n", strings.Repeat("-", 60))
	return l, nil
}

// Path returns the log file path, empty if logging to stdout only.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// timestampFormat is the format for timestamps: YY-MM-DD HH:MM:SS
const timestampFormat = "06-01-02 15:04:05"

// Print writes a timestamped message to both file and stdout.
func (l *Logger) Print(format string, args ...any) {
	l.printWith(l.colors.Info(), "", format, args...)
}

// Error writes an error message in red.
func (l *Logger) Error(format string, args ...any) {
	l.printWith(l.colors.Error(), "ERROR: ", format, args...)
}

// Warn writes a warning message in yellow.
func (l *Logger) Warn(format string, args ...any) {
	l.printWith(l.colors.Warn(), "WARN: ", format, args...)
}

// Debug writes a message only if debug output is enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.printWith(l.colors.Timestamp(), "DEBUG: ", format, args...)
}

// PrintLocker writes a locking process line.
func (l *Logger) PrintLocker(p lock.Process) {
	l.printWith(l.colors.Locker(), "", "  %s", p)
}

func (l *Logger) printWith(c *color.Color, prefix, format string, args ...any) {
	msg := prefix + fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)
	l.writeFile("[%s] %s\n", timestamp, msg)
	l.writeStdout("%s %s\n", l.colors.Timestamp().Sprintf("[%s]", timestamp), c.Sprint(msg))
}

// PrintSection writes a section header without timestamp.
// format: "\n--- {name} ---\n"
func (l *Logger) PrintSection(name string) {
	header := fmt.Sprintf("\n--- %s ---\n", name)
	l.writeFile("%s", header)
	l.writeStdout("%s", l.colors.Warn().Sprint(header))
}

// PrintAligned writes text with timestamp on each line, wrapping long lines and suppressing empty ones.
func (l *Logger) PrintAligned(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	width := getTerminalWidth()
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if len(line) <= width {
			lines = append(lines, line)
			continue
		}
		for wrapped := range strings.SplitSeq(wrapText(line, width), "\n") {
			lines = append(lines, wrapped)
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		displayLine := formatListItem(line)
		timestamp := time.Now().Format(timestampFormat)
		l.writeFile("[%s] %s\n", timestamp, displayLine)
		l.writeStdout("%s %s\n", l.colors.Timestamp().Sprintf("[%s]", timestamp), l.colors.Info().Sprint(displayLine))
	}
}

// getTerminalWidth returns terminal width, using COLUMNS env var or syscall.
// Defaults to 80 if detection fails. Returns content width (total - 20 for timestamp).
func getTerminalWidth() int {
	const minWidth = 40

	contentWidth := func(w int) int {
		return max(w-20, minWidth) // leave room for timestamp prefix
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return contentWidth(w)
		}
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 { //nolint:gosec // fd fits int
		return contentWidth(w)
	}
	return 80 - 20
}

// wrapText wraps text to specified width, breaking on word boundaries.
func wrapText(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) <= width:
			result.WriteString(" ")
			lineLen += 1 + len(word)
		default:
			result.WriteString("\n")
			lineLen = len(word)
		}
		result.WriteString(word)
	}
	return result.String()
}

// formatListItem adds 2-space indent for list items (numbered or bulleted).
func formatListItem(line string) string {
	if strings.TrimLeft(line, " \t") == line && isListItem(line) {
		return "  " + line
	}
	return line
}

// isListItem returns true if line starts with a list marker like "- ", "* " or "12. ".
func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return true
	}
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' && i > 0 && i < len(line)-1 && line[i+1] == ' ' {
			return true
		}
		break
	}
	return false
}

// Elapsed returns formatted elapsed time since start.
func (l *Logger) Elapsed() string {
	return humanize.RelTime(l.startTime, time.Now(), "", "")
}

// Close writes footer, releases the lock and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	l.writeFile("\n%s\n", strings.Repeat("-", 60))
	l.writeFile("Completed: %s (%s)\n", time.Now().Format("2006-01-02 15:04:05"), l.Elapsed())

	unlockErr := unlockFile(l.file)
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	l.file = nil
	if unlockErr != nil {
		return fmt.Errorf("unlock log file: %w", unlockErr)
	}
	return nil
}

func (l *Logger) writeFile(format string, args ...any) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

func (l *Logger) writeStdout(format string, args ...any) {
	fmt.Fprintf(l.stdout, format, args...)
}
