package forms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Label finds the human-readable label of a field: a label[for=id] anywhere in
// the document, then an enclosing label, then the previous sibling when it is
// a label, span or div. Returns "" when none applies.
func (p *Page) Label(field *goquery.Selection) string {
	if id := field.AttrOr("id", ""); id != "" {
		forLabel := p.doc.Find("label").FilterFunction(func(_ int, l *goquery.Selection) bool {
			return l.AttrOr("for", "") == id
		}).First()
		if forLabel.Length() > 0 {
			return collapseWhitespace(forLabel.Text())
		}
	}

	if parent := field.Closest("label"); parent.Length() > 0 {
		return collapseWhitespace(parent.Text())
	}

	prev := field.Prev()
	if prev.Length() > 0 {
		switch strings.ToLower(goquery.NodeName(prev)) {
		case "label", "span", "div":
			return collapseWhitespace(prev.Text())
		}
	}

	return ""
}
