package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tailored-agentic-units/interpreter/engine"
	"github.com/tailored-agentic-units/interpreter/observability"
)

type options struct {
	configFile string
	storePath  string
	verbose    bool
	lookup     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "interpreter",
		Short: "Answer math, data and knowledge questions in plain language",
		Long: "Reads one utterance per line and replies with an answer. " +
			"Type 'why' to see how the last answer was reached, 'undo' or 'redo' " +
			"to step through stored changes, and 'exit' to quit.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), e, cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a JSON or YAML config file")
	flags.StringVar(&opts.storePath, "store", "", "path to the state file (overrides config)")
	flags.BoolVar(&opts.verbose, "verbose", false, "log engine events to stderr")
	flags.BoolVar(&opts.lookup, "lookup", false, "allow external lookups for unknown concepts (overrides config)")

	root.AddCommand(newAskCmd(opts))
	return root
}

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <utterance...>",
		Short: "Answer a single utterance and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Handle(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func newEngine(ctx context.Context, opts *options) (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := engine.LoadConfig(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}
	if opts.lookup {
		cfg.Lookup.Enabled = true
	}

	threshold := observability.LevelWarning
	if opts.verbose {
		threshold = observability.LevelVerbose
	}
	observability.RegisterObserver("slog", observability.NewTextObserver(os.Stderr, threshold))

	e, err := engine.New(ctx, &cfg)
	if errors.Is(err, observability.ErrUnknownObserver) {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(observability.Names(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return e, nil
}
