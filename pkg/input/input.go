// Package input provides terminal interaction: the locker report, action selection,
// destination prompts and confirmations.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/umputun/deadlock/pkg/lock"
	"github.com/umputun/deadlock/pkg/transfer"
	"github.com/umputun/deadlock/pkg/unlock"
)

// ErrSelectionCanceled is returned when the user backs out of a selection.
var ErrSelectionCanceled = errors.New("selection canceled")

// readLineResult holds the result of reading a line
type readLineResult struct {
	line string
	err  error
}

// ReadLineWithContext reads a line from reader with context cancellation support.
// returns the line (including newline), error, or context error if canceled.
// this allows Ctrl+C (SIGINT) to interrupt blocking stdin reads.
func ReadLineWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	resultCh := make(chan readLineResult, 1)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}

	go func() {
		line, err := reader.ReadString('\n')
		resultCh <- readLineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("read line: %w", ctx.Err())
	case result := <-resultCh:
		return result.line, result.err
	}
}

//go:generate moq -out mocks/collector.go -pkg mocks -skip-ensure -fmt goimports . Collector

// Collector provides interactive input for the cli.
type Collector interface {
	// ShowReport prints the lockers found for the target.
	ShowReport(t unlock.Target, lockers lock.Set) error
	// AskQuestion presents a question with options and returns the selected option.
	AskQuestion(ctx context.Context, question string, options []string) (string, error)
	// PickDestination asks where to move or copy the target, ok is false if the user declined.
	PickDestination(ctx context.Context, t unlock.Target, op transfer.Op) (dest string, ok bool, err error)
	// Confirm asks a yes/no question, defaulting to no.
	Confirm(ctx context.Context, prompt string) bool
}

// TerminalCollector implements Collector using fzf (if available) or numbered selection fallback.
type TerminalCollector struct {
	stdin   io.Reader // for testing, nil uses os.Stdin
	stdout  io.Writer // for testing, nil uses os.Stdout
	noColor bool      // if true, skip glamour rendering
	noFzf   bool      // if true, skip fzf even if available (for testing)

	reader *bufio.Reader // shared by all prompts so buffered input isn't lost between them
}

// NewTerminalCollector creates a new TerminalCollector with specified options.
func NewTerminalCollector(noColor bool) *TerminalCollector {
	return &TerminalCollector{noColor: noColor}
}

func (c *TerminalCollector) getReader() *bufio.Reader {
	if c.reader == nil {
		var in io.Reader = os.Stdin
		if c.stdin != nil {
			in = c.stdin
		}
		c.reader = bufio.NewReader(in)
	}
	return c.reader
}

func (c *TerminalCollector) getStdout() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

// AskQuestion presents options using fzf if available, otherwise falls back to numbered selection.
func (c *TerminalCollector) AskQuestion(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options provided")
	}
	if c.hasFzf() {
		return c.selectWithFzf(ctx, question, options)
	}
	return c.selectWithNumbers(ctx, question, options)
}

// hasFzf checks if fzf is available in PATH.
func (c *TerminalCollector) hasFzf() bool {
	if c.noFzf {
		return false
	}
	_, err := exec.LookPath("fzf")
	return err == nil
}

// selectWithFzf uses fzf for interactive selection.
func (c *TerminalCollector) selectWithFzf(ctx context.Context, question string, options []string) (string, error) {
	cmd := exec.CommandContext(ctx, "fzf", "--prompt", question+": ", "--height", "10", "--layout=reverse") //nolint:gosec // fzf is a trusted external tool
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n"))
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return "", ErrSelectionCanceled // escape or no match
		}
		return "", fmt.Errorf("fzf selection failed: %w", err)
	}

	selected := strings.TrimSpace(string(output))
	if selected == "" {
		return "", ErrSelectionCanceled
	}
	return selected, nil
}

// selectWithNumbers presents numbered options for selection via stdin.
func (c *TerminalCollector) selectWithNumbers(ctx context.Context, question string, options []string) (string, error) {
	stdout := c.getStdout()

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, question)
	for i, opt := range options {
		_, _ = fmt.Fprintf(stdout, "  %d) %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintf(stdout, "Enter number (1-%d): ", len(options))

	line, err := ReadLineWithContext(ctx, c.getReader())
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	num, err := strconv.Atoi(line)
	if err != nil {
		return "", fmt.Errorf("invalid number: %s", line)
	}
	if num < 1 || num > len(options) {
		return "", fmt.Errorf("selection out of range: %d (must be 1-%d)", num, len(options))
	}
	return options[num-1], nil
}

// PickDestination prompts for a destination path. An empty answer, EOF or cancellation declines.
// a leading ~/ is expanded to the home directory.
func (c *TerminalCollector) PickDestination(ctx context.Context, t unlock.Target, op transfer.Op) (string, bool, error) {
	stdout := c.getStdout()
	hint := "new file path or existing directory"
	if t.Kind == unlock.KindDirectory {
		hint = "directory receiving the content"
	}
	_, _ = fmt.Fprintf(stdout, "%s %s %s to (%s, empty to cancel): ", op, t.Kind, t.Path, hint)

	line, err := ReadLineWithContext(ctx, c.getReader())
	if err != nil {
		_, _ = fmt.Fprintln(stdout)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if dest := strings.TrimSpace(line); dest != "" && errors.Is(err, io.EOF) {
				return expandTilde(dest), true, nil // last line without newline
			}
			return "", false, nil
		}
		return "", false, fmt.Errorf("read destination: %w", err)
	}

	dest := strings.TrimSpace(line)
	if dest == "" {
		return "", false, nil
	}
	return expandTilde(dest), true, nil
}

// Confirm prompts with [y/N] and returns true for yes.
func (c *TerminalCollector) Confirm(ctx context.Context, prompt string) bool {
	return askYesNo(ctx, prompt, c.getReader(), c.getStdout())
}

// askYesNo defaults to no on EOF, empty input, context cancellation, or any read error.
func askYesNo(ctx context.Context, prompt string, reader *bufio.Reader, stdout io.Writer) bool {
	fmt.Fprintf(stdout, "%s [y/N]: ", prompt)
	line, err := ReadLineWithContext(ctx, reader)
	if err != nil {
		fmt.Fprintln(stdout) // newline so subsequent output doesn't appear on the same line
		if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[WARN] input read error, defaulting to 'no': %v", err)
		}
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes"
}

// ShowReport renders the locker report and prints it.
func (c *TerminalCollector) ShowReport(t unlock.Target, lockers lock.Set) error {
	rendered, err := c.renderMarkdown(ReportMarkdown(t, lockers))
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, _ = fmt.Fprintln(c.getStdout(), rendered)
	return nil
}

// ReportMarkdown formats lockers of the target as a markdown table.
func ReportMarkdown(t unlock.Target, lockers lock.Set) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Lockers of %s `%s`\n\n", t.Kind, t.Path)
	if len(lockers) == 0 {
		sb.WriteString("_no process is locking it_\n")
		return sb.String()
	}

	sb.WriteString("| # | PID | Name | Executable |\n|---|-----|------|------------|\n")
	for i, p := range lockers {
		name, path := p.Name, p.ExecPath
		if name == "" {
			name = "?"
		}
		if !p.Resolved {
			path = "_unknown_"
		}
		fmt.Fprintf(&sb, "| %d | %d | %s | %s |\n", i+1, p.PID, escapeCell(name), escapeCell(path))
	}
	fmt.Fprintf(&sb, "\n%d process(es) will be terminated to release it.\n", len(lockers))
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderMarkdown renders markdown content for terminal display.
// if noColor is true, returns the content unchanged.
func (c *TerminalCollector) renderMarkdown(content string) (string, error) {
	if c.noColor {
		return content, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return result, nil
}

// expandTilde expands a leading ~/ to the user's home directory.
func expandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
