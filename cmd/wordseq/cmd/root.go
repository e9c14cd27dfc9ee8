// Package cmd provides the CLI commands for wordseq.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordseq/internal/config"
	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/logging"
	"github.com/Aman-CERP/wordseq/internal/output"
	"github.com/Aman-CERP/wordseq/internal/pipeline"
	"github.com/Aman-CERP/wordseq/internal/profiling"
	"github.com/Aman-CERP/wordseq/internal/watcher"
	"github.com/Aman-CERP/wordseq/internal/wordsource"
	"github.com/Aman-CERP/wordseq/pkg/version"
)

// Profiling flags
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profile      *profiling.Session
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the wordseq CLI.
func NewRootCmd() *cobra.Command {
	var (
		jsonOutput bool
		watchMode  bool
	)

	cmd := &cobra.Command{
		Use:   "wordseq",
		Short: "Find four-letter sequences that occur in exactly one word",
		Long: `wordseq reads a word list (one word per line), extracts every
four-letter alphabetic run from each word, and reports the sequences that
appear in exactly one distinct word.

Run 'wordseq' next to a dictionary.txt to write sequences.txt and words.txt:
line N of sequences.txt is a unique sequence, line N of words.txt is the
word it came from.`,
		Example: `  # Defaults: dictionary.txt -> sequences.txt + words.txt
  wordseq

  # Another word list, four workers, also export to SQLite
  wordseq -i /usr/share/dict/words --workers 4 --db report.db

  # Rebuild whenever the word list changes
  wordseq --watch`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDefault(cmd, jsonOutput, watchMode)
		},
	}

	cmd.SetVersionTemplate("wordseq version {{.Version}}\n")

	// Shared by every command that reads the word list
	cmd.PersistentFlags().StringP("input", "i", config.DefaultInput, "Word list, one word per line (- for stdin)")
	cmd.PersistentFlags().Int("workers", 1, "Goroutines indexing batches (1 = sequential)")
	cmd.PersistentFlags().Int("batch-size", 0, "Words per batch when --workers > 1")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Flags().String("sequences", config.DefaultSequences, "Output file for unique sequences")
	cmd.Flags().String("words", config.DefaultWords, "Output file for the matching words")
	cmd.Flags().String("db", "", "Also export the report to this SQLite database")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON instead of writing files")
	cmd.Flags().BoolVar(&watchMode, "watch", false, "Rebuild the outputs whenever the input changes")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.wordseq/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts profiling and debug logging if flags are set.
func startProfilingAndLogging(cmd *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug_logging_enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Short()),
			slog.String("command", cmd.CommandPath()))
	}

	opts := profiling.Options{CPU: profileCPU, Heap: profileMem, Trace: profileTrace}
	if opts.Enabled() {
		s, err := profiling.Start(opts)
		if err != nil {
			return err
		}
		profile = s
	}

	return nil
}

// stopProfilingAndLogging flushes profiles and stops debug logging.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profile != nil {
		err = profile.Stop()
		profile = nil
	}

	if loggingCleanup != nil {
		slog.Info("debug_logging_stopped")
		loggingCleanup()
		loggingCleanup = nil
	}

	return err
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	c, err := root.ExecuteContextC(ctx)
	if err != nil {
		// PersistentPostRunE is skipped when RunE fails.
		_ = stopProfilingAndLogging(c, nil)
		printError(root.ErrOrStderr(), c, err)
	}
	return err
}

// printError writes err for humans, or as JSON when the failing command ran
// with --json.
func printError(w io.Writer, c *cobra.Command, err error) {
	if c != nil {
		if f := c.Flags().Lookup("json"); f != nil && f.Changed {
			if data, jerr := wserrors.FormatJSON(err); jerr == nil {
				_, _ = fmt.Fprintln(w, string(data))
				return
			}
		}
	}

	if _, ok := wserrors.As(err); !ok {
		// cobra usage errors (unknown flag, bad args)
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprint(w, wserrors.FormatForCLI(err))
}

// loadConfig layers flags the user set on top of config.Load.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, wserrors.InternalError("failed to get current directory", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, wserrors.ConfigError(err.Error(), err).
			WithSuggestion("Check .wordseq.yaml, the user config ('wordseq config path') and WORDSEQ_* variables")
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Path, _ = flags.GetString("input")
	}
	if flags.Changed("sequences") {
		cfg.Output.Sequences, _ = flags.GetString("sequences")
	}
	if flags.Changed("words") {
		cfg.Output.Words, _ = flags.GetString("words")
	}
	if flags.Changed("db") {
		cfg.Output.Database, _ = flags.GetString("db")
	}
	if flags.Changed("workers") {
		cfg.Performance.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("batch-size") {
		cfg.Performance.BatchSize, _ = flags.GetInt("batch-size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, wserrors.ConfigError(err.Error(), err)
	}

	if !debugMode {
		slog.SetDefault(logging.NewConsoleLogger(cmd.ErrOrStderr(), cfg.Logging.Level))
	}
	return cfg, nil
}

func noColor(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-color")
	return v
}

// runDefault implements `wordseq` with no subcommand.
func runDefault(cmd *cobra.Command, jsonOutput, watchMode bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Input:     cfg.Input.Path,
		Sequences: cfg.Output.Sequences,
		Words:     cfg.Output.Words,
		Database:  cfg.Output.Database,
		Workers:   cfg.Performance.Workers,
		BatchSize: cfg.Performance.BatchSize,
	}
	if jsonOutput {
		opts.JSON = cmd.OutOrStdout()
	}

	out := output.NewStyled(cmd.OutOrStdout(), noColor(cmd))

	if watchMode {
		return runWatch(cmd, cfg, opts, out)
	}

	res, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if !jsonOutput {
		printResult(out, res)
	}
	return nil
}

func printResult(out *output.Writer, res *pipeline.Result) {
	out.Successf("Wrote %d unique sequences to %s and their words to %s",
		res.Unique, res.SequencesPath, res.WordsPath)
	if res.Database != "" {
		out.Statusf("🗄️ ", "Exported to %s", res.Database)
	}
	slog.Debug("run_summary",
		slog.Int("words", res.Words),
		slog.Int("sequences", res.Sequences),
		slog.Duration("elapsed", res.Elapsed))
}

// runWatch builds once, then rebuilds on every change to the input file.
func runWatch(cmd *cobra.Command, cfg *config.Config, opts pipeline.Options, out *output.Writer) error {
	if opts.Input == wordsource.StdinPath {
		return wserrors.ValidationError("--watch needs an input file, not stdin", nil)
	}
	if opts.JSON != nil {
		return wserrors.ValidationError("--watch cannot be combined with --json", nil)
	}

	debounce, err := cfg.WatchDebounce()
	if err != nil {
		return wserrors.ConfigError(err.Error(), err)
	}

	build := func(ctx context.Context) {
		res, err := pipeline.Run(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("watch_rebuild_failed", wserrors.LogAttrs(err)...)
			printError(cmd.ErrOrStderr(), nil, err)
			return
		}
		printResult(out, res)
	}

	build(cmd.Context())
	out.Statusf("👀", "Watching %s (Ctrl+C to stop)", opts.Input)

	return watcher.Run(cmd.Context(), opts.Input, watcher.Options{DebounceWindow: debounce},
		func(ctx context.Context, ev watcher.FileEvent) {
			if ev.Operation == watcher.OpDelete {
				out.Warningf("%s was removed; waiting for it to come back", opts.Input)
				return
			}
			out.Statusf("🔄", "%s changed, rebuilding", opts.Input)
			build(ctx)
		})
}
