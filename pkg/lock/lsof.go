package lock

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const defaultLsof = "lsof"

//go:generate moq -out mocks/command_runner.go -pkg mocks -skip-ensure -fmt goimports . CommandRunner

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the default command runner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

// Lsof finds holders by asking lsof(8), used on unix systems without procfs.
type Lsof struct {
	Command string
	runner  CommandRunner
}

// NewLsof makes an lsof prober. nil runner executes the command with os/exec.
func NewLsof(command string, runner CommandRunner) *Lsof {
	if command == "" {
		command = defaultLsof
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &Lsof{Command: command, runner: runner}
}

// Probe runs lsof in field output mode for path.
// lsof exits with status 1 when no process has the file open, reported as no holders.
func (l *Lsof) Probe(ctx context.Context, path string) ([]Holder, error) {
	out, err := l.runner.Run(ctx, l.Command, "-w", "-F", "pc", "--", canonicalPath(path))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(bytes.TrimSpace(out)) == 0 {
			return nil, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("probe %s: %w", path, ctxErr)
		}
		if len(bytes.TrimSpace(out)) == 0 {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		// lsof reports partial failures with non-zero status but still prints what it found
	}
	return parseLsof(out), nil
}

// parseLsof parses "-F pc" output: a "p<pid>" line starts a process set, "c<command>" names it.
// other field lines (file descriptors etc.) are ignored.
func parseLsof(out []byte) []Holder {
	var res []Holder
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line[0] {
		case 'p':
			pid, err := strconv.Atoi(line[1:])
			if err != nil || pid <= 0 {
				continue
			}
			res = append(res, Holder{PID: pid})
		case 'c':
			if len(res) > 0 && res[len(res)-1].Name == "" {
				res[len(res)-1].Name = line[1:]
			}
		}
	}
	return res
}
