package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/forms"
	"github.com/jonathan/form-autofill/internal/observability"
	"github.com/spf13/cobra"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	var (
		useBrowser bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "detect [file|url|-]",
		Short: "List the job application forms in a page",
		Long: `Detect job application forms in a page and show how each field would be filled.

The page is read from a file, fetched from a URL, or read from stdin when no
source (or "-") is given. With --json the detectForms protocol response is
printed instead of the field report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) == 1 {
				source = args[0]
			}
			if useBrowser && !isURL(source) {
				return fmt.Errorf("--browser requires a URL source")
			}

			html, err := opts.readSource(cmd, source, useBrowser || (opts.cfg.UseBrowser && isURL(source)))
			if err != nil {
				return err
			}
			page, err := forms.ParseString(html)
			if err != nil {
				return err
			}

			orch := opts.orchestrator(false)
			if asJSON {
				resp := orch.Handle(autofill.Message{Action: autofill.ActionDetectForms}, page, nil)
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			actx, err := opts.loadContext(cmd)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintPlans(orch.Plan(page, actx))
			return nil
		},
	}

	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Render the URL in headless Chrome before detecting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the detectForms response as JSON")
	return cmd
}
