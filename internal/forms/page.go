// Package forms parses HTML pages, finds job-application forms and describes
// their fillable fields.
package forms

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/form-autofill/internal/writer"
)

// DispatchedEvent records a notification raised on a field of a parsed page.
type DispatchedEvent struct {
	Field int // document-order index among input/textarea/select
	Event writer.Event
}

// Page is a parsed HTML document that fields can be written into.
// Mutations and rendering are serialized because highlight timers write from
// their own goroutine.
type Page struct {
	doc    *goquery.Document
	mu     sync.Mutex
	events []DispatchedEvent
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Message: "failed to parse HTML", Cause: err}
	}
	return &Page{doc: doc}, nil
}

// ParseString parses an HTML string.
func ParseString(html string) (*Page, error) {
	return Parse(strings.NewReader(html))
}

// Document returns the underlying goquery document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// HTML renders the current state of the document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	html, err := goquery.OuterHtml(p.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return html, nil
}

// Events returns the notifications dispatched so far, in order.
func (p *Page) Events() []DispatchedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]DispatchedEvent(nil), p.events...)
}

func (p *Page) record(ev DispatchedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}
