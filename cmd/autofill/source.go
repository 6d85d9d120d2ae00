package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/form-autofill/internal/fetch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// isURL reports whether source names a web page rather than a file.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// readSource returns the HTML named by source: a URL, a file path, or stdin
// for "" and "-". URLs are rendered in Chrome when useBrowser is set.
func (o *rootOptions) readSource(cmd *cobra.Command, source string, useBrowser bool) (string, error) {
	switch {
	case source == "" || source == "-":
		b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), fetch.MaxBodyBytes))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	case isURL(source):
		if fetch.IsJobSite(source) {
			o.logger.Debug("known job site", zap.String("platform", string(fetch.DetectPlatform(source))))
		}
		return fetch.Render(cmd.Context(), source, useBrowser, o.logger)
	default:
		b, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(b), nil
	}
}
