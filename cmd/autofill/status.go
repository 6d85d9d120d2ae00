package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/form-autofill/internal/observability"
	"github.com/jonathan/form-autofill/internal/storage"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the login state and the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			loggedIn := true
			if _, err := store.Get(cmd.Context(), storage.KeyUser); errors.Is(err, storage.ErrNotFound) {
				loggedIn = false
			} else if err != nil {
				return err
			}

			snap, err := storage.LoadSnapshot(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			location := opts.cfg.StoreLocation()
			if opts.cfg.Store == storage.BackendPostgres {
				location = "database_url" // may carry credentials
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Store:     %s (%s)\n", opts.cfg.Store, location)
			_, _ = fmt.Fprintf(out, "Logged in: %t\n", loggedIn)
			observability.NewPrinter(out).PrintSnapshot(snap)
			return nil
		},
	}
}
