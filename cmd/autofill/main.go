// Package main provides the autofill command: detect and fill job-application
// forms from the command line, or serve the fill engine over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/logging"
	"github.com/jonathan/form-autofill/internal/storage"
	"github.com/jonathan/form-autofill/internal/writer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions is the state shared by every subcommand. cfg and logger are
// filled in by the root command's PersistentPreRunE.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "autofill",
		Short:         "Job application form auto-fill",
		Long:          "autofill detects job-application forms in a page, classifies each field and fills it from the stored profile and résumé.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newDetectCmd(opts),
		newFillCmd(opts),
		newServeCmd(opts),
		newStoreCmd(opts),
		newTokenCmd(opts),
		newStatusCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) init() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.verbose {
		cfg.Verbose = true
	}
	o.cfg = cfg

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	o.logger = logger
	return nil
}

// openStore opens the configured profile store.
func (o *rootOptions) openStore(cmd *cobra.Command) (storage.Store, error) {
	store, err := storage.Open(cmd.Context(), o.cfg.Store, o.cfg.StoreLocation(), o.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", o.cfg.Store, err)
	}
	return store, nil
}

// loadContext reads the stored profile and résumé into a fill context.
func (o *rootOptions) loadContext(cmd *cobra.Command) (*autofill.Context, error) {
	store, err := o.openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	snap, err := storage.LoadSnapshot(cmd.Context(), store)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return autofill.NewContext(snap), nil
}

// orchestrator builds a fill orchestrator from the config. Without
// clearHighlight filled fields keep their highlight, as a saved page should.
func (o *rootOptions) orchestrator(clearHighlight bool) *autofill.Orchestrator {
	w := writer.New(o.logger)
	w.HighlightColor = o.cfg.HighlightColor
	w.HighlightDuration = 0
	if clearHighlight {
		w.HighlightDuration = o.cfg.Highlight()
	}
	return autofill.New(w, o.logger, autofill.WithDefaultCountry(o.cfg.DefaultCountry))
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
