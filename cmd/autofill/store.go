package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/form-autofill/internal/fetch"
	"github.com/jonathan/form-autofill/internal/storage"
	"github.com/spf13/cobra"
)

func newStoreCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write the stored profile and résumé",
		Long: fmt.Sprintf(`Read and write the records a fill pass uses.

Keys:
  %-11s the user profile (name, email, phone)
  %-11s the résumé (personal info, experience, education, skills)
  %-11s the login marker`, storage.KeyUserData, storage.KeyResumeData, storage.KeyUser),
	}

	cmd.AddCommand(newStoreSetCmd(opts), newStoreGetCmd(opts))
	return cmd
}

func newStoreSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [file|-]",
		Short: "Validate a JSON record and store it under KEY",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var (
				value []byte
				err   error
			)
			if len(args) == 1 || args[1] == "-" {
				value, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), fetch.MaxBodyBytes))
			} else {
				value, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}

			store, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := storage.SaveRecord(cmd.Context(), store, key, bytes.TrimSpace(value)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", key)
			return nil
		},
	}
}

func newStoreGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the record stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			raw, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no record stored under %q", args[0])
			}
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				out.Reset()
				out.Write(raw)
			}
			out.WriteByte('\n')
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}
}
