package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/browser"
	"github.com/jonathan/form-autofill/internal/forms"
	"github.com/jonathan/form-autofill/internal/observability"
	"github.com/jonathan/form-autofill/internal/types"
	"github.com/spf13/cobra"
)

// htmlPage is a fillable page that can render its markup.
type htmlPage interface {
	autofill.Page
	HTML() (string, error)
}

func newFillCmd(opts *rootOptions) *cobra.Command {
	var (
		useBrowser bool
		outFile    string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "fill [file|url|-]",
		Short: "Fill the job application forms in a page",
		Long: `Fill the job application forms in a page from the stored profile and résumé.

Without --browser the page is filled as static HTML and --out receives the
filled markup. With --browser the page is loaded in headless Chrome, so page
scripts see the same input, change and blur events a user would trigger.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) == 1 {
				source = args[0]
			}

			actx, err := opts.loadContext(cmd)
			if err != nil {
				return err
			}

			var (
				result types.FillResult
				page   htmlPage
			)
			if useBrowser || opts.cfg.UseBrowser {
				session, err := browser.NewSession(cmd.Context(), opts.logger)
				if err != nil {
					return err
				}
				defer session.Close()

				live, err := openLive(cmd, opts, session, source)
				if err != nil {
					return err
				}
				result = opts.orchestrator(true).AutoFill(live, actx)
				if result.Success && outFile != "" {
					// Let the highlight clear before the live page is saved.
					time.Sleep(opts.cfg.Highlight())
				}
				page = live
			} else {
				html, err := opts.readSource(cmd, source, false)
				if err != nil {
					return err
				}
				static, err := forms.ParseString(html)
				if err != nil {
					return err
				}
				result = opts.orchestrator(false).AutoFill(static, actx)
				page = static
			}

			if outFile != "" {
				html, err := page.HTML()
				if err != nil {
					return fmt.Errorf("failed to render filled page: %w", err)
				}
				if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintFillResult(result)
			if outFile != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", outFile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Fill the page live in headless Chrome")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the filled page HTML to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the fill result as JSON")
	return cmd
}

// openLive loads source into the browser session: URLs are navigated to,
// anything else is read and loaded as markup.
func openLive(cmd *cobra.Command, opts *rootOptions, session *browser.Session, source string) (*browser.Page, error) {
	if isURL(source) {
		return session.Open(source)
	}
	html, err := opts.readSource(cmd, source, false)
	if err != nil {
		return nil, err
	}
	return session.OpenHTML(html)
}
