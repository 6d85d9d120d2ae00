package forms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/form-autofill/internal/writer"
)

// Node is a form field of a parsed Page. It implements writer.Element by
// editing the field's attributes in the document tree.
type Node struct {
	page  *Page
	sel   *goquery.Selection
	index int
}

var _ writer.Element = (*Node)(nil)

// Index is the field's document-order position among input/textarea/select.
func (n *Node) Index() int { return n.index }

// Selection returns the underlying goquery selection.
func (n *Node) Selection() *goquery.Selection { return n.sel }

// Attr returns an attribute value, "" when absent.
func (n *Node) Attr(name string) string {
	return n.sel.AttrOr(name, "")
}

// Tag returns the lower-cased element name.
func (n *Node) Tag() string {
	return strings.ToLower(goquery.NodeName(n.sel))
}

// Value returns the field's current value as a browser would report it.
func (n *Node) Value() string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()

	switch n.Tag() {
	case "textarea":
		return n.sel.Text()
	case "select":
		opts := n.sel.Find("option")
		if sel := opts.Filter("[selected]").First(); sel.Length() > 0 {
			return optionValue(sel)
		}
		if opts.Length() > 0 {
			return optionValue(opts.First())
		}
		return ""
	default:
		return n.sel.AttrOr("value", "")
	}
}

// Options lists the options of a select.
func (n *Node) Options() []writer.Option {
	if n.Tag() != "select" {
		return nil
	}
	var out []writer.Option
	n.sel.Find("option").Each(func(_ int, s *goquery.Selection) {
		out = append(out, writer.Option{
			Text:  collapseWhitespace(s.Text()),
			Value: optionValue(s),
		})
	})
	return out
}

// SetValue writes value into the document: the value attribute of an input,
// the text of a textarea, or the selected attribute of a select's option.
func (n *Node) SetValue(value string) {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()

	switch n.Tag() {
	case "textarea":
		n.sel.SetText(value)
	case "select":
		opts := n.sel.Find("option")
		target := opts.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return optionValue(s) == value
		}).First()
		if target.Length() == 0 {
			return
		}
		opts.RemoveAttr("selected")
		target.SetAttr("selected", "selected")
	default:
		n.sel.SetAttr("value", value)
	}
}

// Dispatch records the event on the page.
func (n *Node) Dispatch(event writer.Event) {
	n.page.record(DispatchedEvent{Field: n.index, Event: event})
}

// SetStyle sets one inline style property; an empty value removes it.
func (n *Node) SetStyle(property, value string) {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()

	style := setStyleProperty(n.sel.AttrOr("style", ""), property, value)
	if style == "" {
		n.sel.RemoveAttr("style")
		return
	}
	n.sel.SetAttr("style", style)
}

func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	return collapseWhitespace(s.Text())
}

// setStyleProperty rewrites an inline style declaration list.
func setStyleProperty(style, property, value string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), property) {
			continue
		}
		decls = append(decls, decl)
	}
	if value != "" {
		decls = append(decls, property+": "+value)
	}
	if len(decls) == 0 {
		return ""
	}
	return strings.Join(decls, "; ") + ";"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
