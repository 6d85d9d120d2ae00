package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/server"
	"github.com/jonathan/form-autofill/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fill engine over HTTP",
		Long: `Start an HTTP server that accepts autoFillPage and detectForms messages on
POST /messages. Requests need a bearer token signed with JWT_SECRET (see the
token command). The stored profile is reloaded whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jwtConfig, err := config.NewJWTConfig()
			if err != nil {
				return fmt.Errorf("failed to create JWT config: %w", err)
			}

			store, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			srv, err := server.New(server.Config{
				Addr:         addr,
				Orchestrator: opts.orchestrator(false),
				Context:      autofill.NewContext(autofill.Snapshot{}),
				Store:        store,
				JWT:          jwtConfig,
				RateLimit:    ratelimit.LoadConfig(),
				Logger:       opts.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	return cmd
}
