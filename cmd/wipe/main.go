package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/wipe/internal/config"
	"github.com/bamsammich/wipe/internal/engine"
	"github.com/bamsammich/wipe/internal/event"
	"github.com/bamsammich/wipe/internal/platform"
	"github.com/bamsammich/wipe/internal/report"
	"github.com/bamsammich/wipe/internal/safety"
	"github.com/bamsammich/wipe/internal/stats"
	"github.com/bamsammich/wipe/internal/ui"
)

var version = "dev"

// newOps is replaced in tests to fake snapshot and attribute handling.
var newOps = platform.New

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// flags holds the parsed command line.
type flags struct {
	method      methodFlag
	bwLimitStr  string
	reportFile  string
	logFile     string
	verify      bool
	noSnapshots bool
	dryRun      bool
	yes         bool
	verbose     bool
	quiet       bool
	noProgress  bool
	showVersion bool
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing and mode selection
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "wipe [flags] <path>...",
		Short: "Irreversibly destroy files and directory trees",
		Long: "wipe crypto-erases, overwrites, renames and unlinks files so their content\n" +
			"and names cannot be recovered from the filesystem.",
		Args: func(cmd *cobra.Command, args []string) error {
			if f.showVersion {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.showVersion {
				fmt.Fprintf(stdout, "wipe %s\n", version)
				return nil
			}

			// Safety gate: nothing is touched if any target is critical.
			var rejected []string
			for _, p := range args {
				if err := safety.Check(p); err != nil {
					rejected = append(rejected, p)
					fmt.Fprintf(stderr, "error: %v\n", err)
				}
			}
			if len(rejected) > 0 {
				return &exitError{code: 3}
			}

			// Load config file (optional).
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(stderr, "warning: config %s: %v\n", config.Path(), err)
			}
			if err := applyConfigDefaults(cmd, cfg.Defaults, &f); err != nil {
				return fmt.Errorf("config %s: %w", config.Path(), err)
			}
			ui.ApplyTheme(cfg.Theme)

			method := f.method.m
			policy, err := buildPolicy(cfg.Methods)
			if err != nil {
				return err
			}

			var bwLimit int64
			if f.bwLimitStr != "" {
				bwLimit, err = config.ParseSize(f.bwLimitStr)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
			}

			// Set up logging.
			logLevel := slog.LevelWarn
			if f.verbose {
				logLevel = slog.LevelDebug
			} else if !f.quiet {
				logLevel = slog.LevelInfo
			}
			textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			var eventLogger *slog.Logger
			if f.logFile != "" {
				lf, lfErr := os.Create(f.logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
				eventLogger = slog.New(jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			if !f.quiet {
				printLimitations(stderr)
			}

			if f.dryRun {
				slog.Info("dry run mode")
			} else if !f.yes {
				if !confirm(stdin, stderr, method, policy.Patterns(method), len(args)) {
					fmt.Fprintln(stderr, "aborted")
					return &exitError{code: 2}
				}
			}

			if !f.dryRun {
				if err := platform.RaisePriority(); err != nil {
					slog.Debug("could not raise priority", "error", err)
				}
			}

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events into the JSON log only; the
			// presenter owns what reaches the terminal.
			presenterEvents := (<-chan event.Event)(events)
			if eventLogger != nil {
				presenterEvents = ui.TeeEvents(events, eventLogger)
			}

			root, _ := os.Getwd() //nolint:errcheck // display only
			width, tty := ui.Terminal(stderr)
			presenter := ui.NewPresenter(ui.Config{
				Writer:     stdout,
				ErrWriter:  stderr,
				IsTTY:      tty,
				Width:      width,
				Quiet:      f.quiet,
				Verbose:    f.verbose,
				NoProgress: f.noProgress,
				Stats:      collector,
				Root:       root,
			})

			sessionCfg := engine.Config{
				Ops:            newOps(),
				Events:         events,
				Stats:          collector,
				Policy:         policy,
				Method:         method,
				Verify:         f.verify,
				PurgeSnapshots: !f.noSnapshots,
				DryRun:         f.dryRun,
			}
			if bwLimit > 0 {
				sessionCfg.Limiter = engine.NewBWLimiter(bwLimit)
			}

			slog.Debug("starting wipe",
				"targets", len(args),
				"method", method,
				"passes", len(policy.Patterns(method)),
				"verify", f.verify,
				"bwlimit", bwLimit,
			)

			// Presenter in background, session in foreground.
			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			started := time.Now()
			result := engine.NewSession(sessionCfg).Run(ctx, args)
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
			}

			if !f.quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(stderr, summary)
				}
			}
			if f.reportFile != "" {
				rep := report.New(report.Meta{
					Started: started,
					Method:  method,
					Passes:  policy.Patterns(method),
					Verify:  f.verify,
					DryRun:  f.dryRun,
				}, result)
				if err := rep.WriteFile(f.reportFile); err != nil {
					slog.Error("write report", "error", err)
				}
			}

			return exitFor(result, len(args))
		},
	}

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Version flag handled in RunE, but also register the flag.
	rootCmd.Flags().BoolVar(&f.showVersion, "version", false, "print version and exit")

	rootCmd.Flags().
		VarP(&f.method, "method", "m", "wipe method: random, paranoid or gutmann")
	rootCmd.Flags().BoolVar(&f.verify, "verify", false, "re-read and verify the final pass (BLAKE3)")
	rootCmd.Flags().
		StringVar(&f.bwLimitStr, "bwlimit", "", "write bandwidth limit (e.g. 100M, 1G)")
	rootCmd.Flags().
		BoolVar(&f.noSnapshots, "no-snapshots", false, "skip purging local snapshots / shadow copies")
	rootCmd.Flags().
		BoolVar(&f.dryRun, "dry-run", false, "classify and check targets without touching them")
	rootCmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.Flags().StringVar(&f.reportFile, "report", "", "write a YAML session report to FILE")
	rootCmd.Flags().StringVar(&f.logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable progress display")

	return rootCmd
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, f *flags) error {
	if !cmd.Flags().Changed("method") && defaults.Method != nil {
		if err := f.method.Set(*defaults.Method); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		f.verify = *defaults.Verify
	}
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		f.bwLimitStr = *defaults.BWLimit
	}
	if !cmd.Flags().Changed("no-snapshots") && defaults.PurgeSnapshots != nil {
		f.noSnapshots = !*defaults.PurgeSnapshots
	}
	return nil
}

// methodFlag is a pflag.Value that rejects unknown method names while the
// command line is parsed.
type methodFlag struct {
	m engine.Method
}

var _ pflag.Value = (*methodFlag)(nil)

func (f *methodFlag) String() string { return f.m.String() }
func (*methodFlag) Type() string     { return "method" }

func (f *methodFlag) Set(val string) error {
	m, err := engine.ParseMethod(val)
	if err != nil {
		return err
	}
	f.m = m
	return nil
}

// buildPolicy merges the config file's [methods] overrides into the
// built-in pass tables.
func buildPolicy(methods map[string][]string) (engine.PolicyTable, error) {
	table := engine.DefaultPolicy()
	seen := make(map[engine.Method]string, len(methods))
	for _, name := range slices.Sorted(maps.Keys(methods)) {
		specs := methods[name]
		m, err := engine.ParseMethod(name)
		if err != nil {
			return nil, fmt.Errorf("config [methods]: %w", err)
		}
		if prev, dup := seen[m]; dup {
			return nil, fmt.Errorf("config [methods]: %q and %q both configure %s", prev, name, m)
		}
		seen[m] = name
		patterns, err := engine.ParsePatterns(specs)
		if err != nil {
			return nil, fmt.Errorf("config [methods] %s: %w", name, err)
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("config [methods] %s: at least one pass is required", name)
		}
		table[m] = patterns
	}
	return table, nil
}

func printLimitations(w io.Writer) {
	fmt.Fprintln(w, "note: a file wipe cannot guarantee destruction on every medium:")
	for _, l := range report.Limitations {
		fmt.Fprintf(w, "  - %s\n", l)
	}
}

// confirm asks for explicit agreement before anything is destroyed.
func confirm(in io.Reader, out io.Writer, m engine.Method, passes []engine.Pattern, n int) bool {
	fmt.Fprintf(out, "DATA WILL BE UNRECOVERABLE. Wipe %d target(s) with %s (%d passes)? [y/N] ",
		n, m, len(passes))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// exitFor maps a session result to the process exit code: 0 when every
// target was wiped, 1 on partial failure, 2 when nothing succeeded.
func exitFor(res engine.Result, targets int) error {
	succeeded := res.Succeeded()
	switch {
	case succeeded == targets && !res.Cancelled:
		return nil
	case succeeded == 0:
		slog.Error("wipe failed", "error", res.Err)
		return &exitError{code: 2} // total failure
	default:
		slog.Error("wipe incomplete", "error", res.Err, "succeeded", succeeded, "targets", targets)
		return &exitError{code: 1} // partial failure
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
