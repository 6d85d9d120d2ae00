package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/form-autofill/internal/forms"
	"github.com/jonathan/form-autofill/internal/writer"
	"go.uber.org/zap"
)

// Page is a live page plus the parsed snapshot taken when it was opened.
type Page struct {
	session  *Session
	snapshot *forms.Page
}

// Snapshot returns the parsed page the fields were detected in.
func (p *Page) Snapshot() *forms.Page { return p.snapshot }

// Detect finds forms in the snapshot and binds each field to the live element.
func (p *Page) Detect() []forms.Form {
	detected := p.snapshot.Detect()
	for fi := range detected {
		for i, field := range detected[fi].Fields {
			node, ok := field.Element.(*forms.Node)
			if !ok {
				continue
			}
			idx := node.Attr(IndexAttr)
			if idx == "" {
				idx = strconv.Itoa(node.Index())
			}
			detected[fi].Fields[i].Element = &Element{node: node, idx: idx, session: p.session}
		}
	}
	return detected
}

// HTML returns the live document's markup.
func (p *Page) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(p.session.ctx, p.session.Timeout)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return html, nil
}

// Element is a field in the live page. Reads come from the snapshot, which
// every write keeps in step with the page.
type Element struct {
	node    *forms.Node
	idx     string
	session *Session
}

var _ writer.Element = (*Element)(nil)

func (e *Element) Tag() string              { return e.node.Tag() }
func (e *Element) Value() string            { return e.node.Value() }
func (e *Element) Options() []writer.Option { return e.node.Options() }

func (e *Element) SetValue(value string) {
	e.node.SetValue(value)
	if !e.session.eval(setValueScript(e.idx, value)) {
		e.session.logger.Warn("live field not updated", zap.String("idx", e.idx))
	}
}

func (e *Element) Dispatch(event writer.Event) {
	e.node.Dispatch(event)
	e.session.eval(dispatchScript(e.idx, event))
}

func (e *Element) SetStyle(property, value string) {
	e.node.SetStyle(property, value)
	e.session.eval(styleScript(e.idx, property, value))
}

// The scripts below return true when the tagged element was found.

func selector(idx string) string {
	return jsString(fmt.Sprintf(`[%s="%s"]`, IndexAttr, idx))
}

func setValueScript(idx, value string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.value = %s;
	return true;
})()`, selector(idx), jsString(value))
}

func dispatchScript(idx string, event writer.Event) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.dispatchEvent(new Event(%s, { bubbles: true }));
	return true;
})()`, selector(idx), jsString(string(event)))
}

func styleScript(idx, property, value string) string {
	action := fmt.Sprintf("el.style.setProperty(%s, %s)", jsString(property), jsString(value))
	if value == "" {
		action = fmt.Sprintf("el.style.removeProperty(%s)", jsString(property))
	}
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	%s;
	return true;
})()`, selector(idx), action)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
