// Package browser fills forms in a live headless Chrome page. Detection and
// classification run against a parsed snapshot of the page; every write is
// mirrored into the real DOM so the page's own listeners observe it.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/form-autofill/internal/fetch"
	"github.com/jonathan/form-autofill/internal/forms"
	"go.uber.org/zap"
)

// IndexAttr is the attribute tagging each field with its document-order index.
const IndexAttr = "data-autofill-idx"

// tagScript tags every field and returns how many were tagged.
const tagScript = `(() => {
	const fields = document.querySelectorAll('input, textarea, select');
	fields.forEach((el, i) => el.setAttribute('` + IndexAttr + `', String(i)));
	return fields.length;
})()`

// Session is one headless Chrome tab.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	Timeout time.Duration
}

// NewSession starts headless Chrome. Close releases it.
func NewSession(ctx context.Context, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, fetch.AllocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		logger:  logger,
		Timeout: fetch.DefaultTimeout,
	}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancel()
}

// Open navigates to pageURL and snapshots its fields.
func (s *Session) Open(pageURL string) (*Page, error) {
	if err := fetch.ValidateURL(pageURL); err != nil {
		return nil, err
	}
	return s.load(pageURL)
}

// OpenHTML loads markup directly into the tab.
func (s *Session) OpenHTML(html string) (*Page, error) {
	return s.load("data:text/html;charset=utf-8," + url.PathEscape(html))
}

func (s *Session) load(target string) (*Page, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.Timeout)
	defer cancel()

	var tagged int
	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(tagScript, &tagged),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	snapshot, err := forms.ParseString(html)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("page snapshot taken", zap.Int("fields", tagged), zap.Int("bytes", len(html)))
	return &Page{session: s, snapshot: snapshot}, nil
}

// eval runs script in the tab. Failures are logged: element writes have no
// error channel back to the writer.
func (s *Session) eval(script string) bool {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		s.logger.Debug("page script failed", zap.Error(err))
		return false
	}
	return ok
}
