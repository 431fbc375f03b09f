// Package main provides deadlock - find the processes locking a file or directory, stop them,
// then delete, move or copy the target.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/umputun/deadlock/pkg/config"
	"github.com/umputun/deadlock/pkg/input"
	"github.com/umputun/deadlock/pkg/lock"
	"github.com/umputun/deadlock/pkg/process"
	"github.com/umputun/deadlock/pkg/progress"
	"github.com/umputun/deadlock/pkg/transfer"
	"github.com/umputun/deadlock/pkg/unlock"
	"github.com/umputun/deadlock/pkg/walker"
	"github.com/umputun/deadlock/pkg/watch"
)

// opts holds all command-line options.
type opts struct {
	List         bool   `short:"l" long:"list" description:"list processes locking the target and exit"`
	Unlock       bool   `short:"u" long:"unlock" description:"terminate every process locking the target"`
	Delete       bool   `long:"delete" description:"unlock and delete the target"`
	Move         bool   `long:"move" description:"unlock and move the target"`
	Copy         bool   `long:"copy" description:"unlock and copy the target"`
	Dest         string `long:"dest" description:"destination for --move and --copy (prompted if omitted)"`
	Elevate      bool   `short:"e" long:"elevate" description:"relaunch with elevated privileges if termination is denied"`
	Yes          bool   `short:"y" long:"yes" description:"don't ask for delete confirmation"`
	Watch        bool   `short:"w" long:"watch" description:"keep reporting lockers while the target changes"`
	LogFile      string `long:"log" description:"mirror output to a log file"`
	ConfigDir    string `long:"config-dir" description:"global config directory (default ~/.config/deadlock)"`
	DumpDefaults string `long:"dump-defaults" description:"write the default config to a directory and exit"`
	Debug        bool   `short:"d" long:"debug" description:"enable debug logging"`
	NoColor      bool   `long:"no-color" description:"disable color output"`
	Version      bool   `short:"v" long:"version" description:"print version and exit"`

	Path string `positional-arg-name:"path" description:"file or directory to release"`
}

var revision = "unknown"

// exit codes
const (
	exitError      = 1
	exitIncomplete = 2 // declined or canceled
)

// actions besides transfer operations
const (
	actionList  = "list"
	actionWatch = "watch"
	actionAsk   = "ask"
)

// request holds everything an action needs.
type request struct {
	Target      unlock.Target
	Action      string
	Config      *config.Config
	Log         *progress.Logger
	Scanner     watch.Scanner
	Collector   input.Collector
	Engine      *transfer.Engine
	Interactive bool
	Yes         bool
	Elevate     bool
	Args        []string                  // original arguments, passed to the elevated instance
	Relaunch    func(args []string) error // starts the elevated instance
}

func main() {
	var o opts
	parser := flags.NewParser(&o, flags.Default)
	parser.Usage = "[OPTIONS] path"

	args, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(exitError)
	}

	if o.Version {
		fmt.Printf("deadlock %s\n", revision)
		os.Exit(0)
	}

	if len(args) > 0 {
		o.Path = args[0]
	}

	// setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	completed, err := run(ctx, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(exitError) //nolint:gocritic // cancel called explicitly above
	}
	if !completed {
		cancel()
		os.Exit(exitIncomplete)
	}
}

func run(ctx context.Context, o opts) (bool, error) {
	if err := validateFlags(o); err != nil {
		return false, err
	}

	if o.DumpDefaults != "" {
		if err := config.DumpDefaults(o.DumpDefaults); err != nil {
			return false, fmt.Errorf("dump defaults: %w", err)
		}
		fmt.Printf("default config written to %s\n", o.DumpDefaults)
		return true, nil
	}

	cfg, err := config.Load(o.ConfigDir)
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}

	target, err := unlock.NewTarget(o.Path)
	if err != nil {
		return false, err //nolint:wrapcheck // already carries the path
	}

	interactive := isTerminal()
	action := determineAction(o, interactive)

	log, err := progress.NewLogger(progress.Config{
		LogFile: o.LogFile,
		Target:  target.Path,
		Action:  action,
		Debug:   o.Debug,
		NoColor: o.NoColor,
	}, newColors(cfg))
	if err != nil {
		return false, fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		if closeErr := log.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: close log: %v\n", closeErr)
		}
	}()

	prober, err := lock.NewProber(cfg.Prober, cfg.LsofCommand)
	if err != nil {
		return false, fmt.Errorf("create prober: %w", err)
	}
	log.Debug("prober %q, kill grace %v, wait timeout %v", cfg.Prober, cfg.KillGrace(), cfg.WaitTimeout())

	ctrl := process.New(cfg.KillGrace(), cfg.WaitTimeout(), cfg.WaitPoll())
	executor := unlock.New(prober, ctrl, log)
	collector := input.NewTerminalCollector(o.NoColor)

	return execute(ctx, request{
		Target:      target,
		Action:      action,
		Config:      cfg,
		Log:         log,
		Scanner:     executor,
		Collector:   collector,
		Engine:      transfer.New(executor, pickerFor(o, collector), log),
		Interactive: interactive,
		Yes:         o.Yes,
		Elevate:     o.Elevate,
		Args:        os.Args[1:],
		Relaunch: func(args []string) error {
			return process.RelaunchElevated(cfg.ElevateCommand, args)
		},
	})
}

// execute dispatches the requested action. Returns false with nil error if declined or canceled.
func execute(ctx context.Context, req request) (bool, error) {
	switch req.Action {
	case actionList:
		return listLockers(ctx, req)
	case actionWatch:
		return watchLockers(ctx, req)
	case actionAsk:
		op, ok, err := askAction(ctx, req)
		if err != nil || !ok {
			return false, err
		}
		return runOp(ctx, req, op)
	default:
		return runOp(ctx, req, transfer.Op(req.Action))
	}
}

func listLockers(ctx context.Context, req request) (bool, error) {
	lockers, ok, err := scan(ctx, req)
	if err != nil || !ok {
		return false, err
	}
	if err := printLockers(ctx, req, lockers); err != nil {
		return false, err
	}
	return true, nil
}

// scan returns the lockers of the target, ok is false if canceled.
func scan(ctx context.Context, req request) (lock.Set, bool, error) {
	lockers, err := req.Scanner.Scan(ctx, req.Target)
	if err != nil {
		if ctx.Err() != nil {
			req.Log.Warn("scan of %s canceled", req.Target.Path)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scan %s: %w", req.Target.Path, err)
	}
	return lockers, true, nil
}

// printLockers shows the rendered report on a terminal and plain locker lines otherwise.
func printLockers(ctx context.Context, req request, lockers lock.Set) error {
	if req.Interactive {
		if err := req.Collector.ShowReport(req.Target, lockers); err != nil {
			return fmt.Errorf("show report: %w", err)
		}
		return nil
	}
	if req.Target.Kind == unlock.KindDirectory {
		req.Log.Print("%d files under %s", walker.Count(ctx, req.Target.Path), req.Target.Path)
	}
	if len(lockers) == 0 {
		req.Log.Print("no process is locking %s", req.Target.Path)
		return nil
	}
	req.Log.PrintSection(fmt.Sprintf("%d process(es) locking %s", len(lockers), req.Target.Path))
	for _, p := range lockers {
		req.Log.PrintLocker(p)
	}
	return nil
}

func watchLockers(ctx context.Context, req request) (bool, error) {
	report := func(lockers lock.Set) {
		if err := printLockers(ctx, req, lockers); err != nil {
			req.Log.Error("%v", err)
		}
	}
	w, err := watch.New(req.Target, req.Scanner, report, watch.Options{})
	if err != nil {
		return false, fmt.Errorf("create watcher: %w", err)
	}
	req.Log.Print("watching %s, press Ctrl+C to stop", req.Target.Path)
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, watch.ErrTargetGone) {
			req.Log.Warn("%s is gone, watch stopped", req.Target.Path)
			return true, nil
		}
		return false, fmt.Errorf("watch %s: %w", req.Target.Path, err)
	}
	return true, nil
}

// askAction shows the lockers and lets the user pick what to do with the target.
func askAction(ctx context.Context, req request) (transfer.Op, bool, error) {
	lockers, ok, err := scan(ctx, req)
	if err != nil || !ok {
		return "", false, err
	}
	if err := printLockers(ctx, req, lockers); err != nil {
		return "", false, err
	}

	options := []string{string(transfer.OpUnlock), string(transfer.OpDelete), string(transfer.OpMove), string(transfer.OpCopy), "quit"}
	choice, err := req.Collector.AskQuestion(ctx, "action", options)
	if err != nil {
		if errors.Is(err, input.ErrSelectionCanceled) || ctx.Err() != nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select action: %w", err)
	}
	if choice == "quit" {
		return "", false, nil
	}
	return transfer.Op(choice), true, nil
}

func runOp(ctx context.Context, req request, op transfer.Op) (bool, error) {
	if op == transfer.OpDelete && req.Config.ConfirmDelete && !req.Yes {
		if !req.Collector.Confirm(ctx, fmt.Sprintf("delete %s %s?", req.Target.Kind, req.Target.Path)) {
			req.Log.Warn("delete of %s declined", req.Target.Path)
			return false, nil
		}
	}

	completed, err := req.Engine.Run(ctx, op, req.Target)
	if err != nil {
		if errors.Is(err, unlock.ErrNeedsElevation) {
			return elevate(ctx, req, err)
		}
		return false, fmt.Errorf("%s %s: %w", op, req.Target.Path, err)
	}
	if completed {
		req.Log.Print("%s of %s completed in %s", op, req.Target.Path, req.Log.Elapsed())
	}
	return completed, nil
}

// elevate relaunches the program with elevated privileges if --elevate is set or the user agrees.
// on unix the relaunch replaces the current process, on windows the elevated instance continues on its own.
func elevate(ctx context.Context, req request, cause error) (bool, error) {
	req.Log.PrintAligned(deniedText(cause))
	if !req.Elevate && (!req.Interactive || !req.Collector.Confirm(ctx, "relaunch with elevated privileges?")) {
		return false, cause
	}

	req.Log.Print("relaunching with elevated privileges")
	// release the log file before the elevated instance opens it
	if err := req.Log.Close(); err != nil {
		req.Log.Warn("close log: %v", err)
	}
	if err := req.Relaunch(req.Args); err != nil {
		return false, fmt.Errorf("relaunch elevated: %w", err)
	}
	return true, nil
}

// deniedText lists the processes the platform refused to terminate.
func deniedText(err error) string {
	var elevErr *unlock.ElevationError
	if !errors.As(err, &elevErr) || len(elevErr.PIDs) == 0 {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString("these processes can't be terminated without elevated privileges:\n")
	for _, pid := range elevErr.PIDs {
		fmt.Fprintf(&sb, "- pid %d\n", pid)
	}
	return sb.String()
}

func validateFlags(o opts) error {
	if o.DumpDefaults != "" {
		return nil
	}
	if o.Path == "" {
		return errors.New("path is required")
	}
	actions := 0
	for _, set := range []bool{o.List, o.Unlock, o.Delete, o.Move, o.Copy, o.Watch} {
		if set {
			actions++
		}
	}
	if actions > 1 {
		return errors.New("only one of --list, --unlock, --delete, --move, --copy and --watch can be used")
	}
	if o.Dest != "" && (o.List || o.Unlock || o.Delete || o.Watch) {
		return errors.New("--dest is only used with --move or --copy")
	}
	return nil
}

// determineAction maps flags to an action. Without an action flag a terminal gets the interactive
// prompt and anything else gets the locker list.
func determineAction(o opts, interactive bool) string {
	switch {
	case o.List:
		return actionList
	case o.Watch:
		return actionWatch
	case o.Unlock:
		return string(transfer.OpUnlock)
	case o.Delete:
		return string(transfer.OpDelete)
	case o.Move:
		return string(transfer.OpMove)
	case o.Copy:
		return string(transfer.OpCopy)
	case interactive:
		return actionAsk
	default:
		return actionList
	}
}

// fixedDestination answers every destination prompt with the --dest value.
type fixedDestination string

func (d fixedDestination) PickDestination(context.Context, unlock.Target, transfer.Op) (string, bool, error) {
	return string(d), true, nil
}

func pickerFor(o opts, collector input.Collector) transfer.DestinationPicker {
	if o.Dest != "" {
		return fixedDestination(o.Dest)
	}
	return collector
}

func newColors(cfg *config.Config) *progress.Colors {
	return progress.NewColors(progress.ColorConfig{
		Info:      cfg.Colors.Info,
		Warn:      cfg.Colors.Warn,
		Error:     cfg.Colors.Error,
		Timestamp: cfg.Colors.Timestamp,
		Locker:    cfg.Colors.Locker,
	})
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits int
}
