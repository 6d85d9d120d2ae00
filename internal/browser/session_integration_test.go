//go:build integration

package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/types"
	"github.com/jonathan/form-autofill/internal/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require Chrome or Chromium on the PATH.

func TestIntegration_FillLivePage(t *testing.T) {
	session, err := NewSession(context.Background(), nil)
	if err != nil {
		t.Skipf("headless Chrome unavailable: %v", err)
	}
	defer session.Close()

	page, err := session.OpenHTML(`<html><body>
		<form id="apply">
			<input name="first_name">
			<input name="email" type="email">
		</form>
		<script>
			window.changes = 0;
			document.querySelector('[name=email]').addEventListener('change', () => window.changes++);
		</script>
	</body></html>`)
	require.NoError(t, err)

	w := writer.New(nil)
	w.HighlightDuration = 0
	o := autofill.New(w, nil)
	actx := autofill.NewContext(autofill.Snapshot{
		Profile: &types.UserProfile{Name: "Asha Rao", Email: "asha@example.com"},
	})

	res := o.AutoFill(page, actx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 2, res.FilledCount)

	ctx, cancel := context.WithTimeout(session.ctx, 10*time.Second)
	defer cancel()

	var first, email string
	var changes int
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Value(`[name=first_name]`, &first, chromedp.ByQuery),
		chromedp.Value(`[name=email]`, &email, chromedp.ByQuery),
		chromedp.Evaluate(`window.changes`, &changes),
	))
	assert.Equal(t, "Asha", first)
	assert.Equal(t, "asha@example.com", email)
	assert.Equal(t, 1, changes, "page listeners observe the change event")

	html, err := page.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "background-color")
}
