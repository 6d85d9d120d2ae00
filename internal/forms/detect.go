package forms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/form-autofill/internal/classify"
	"github.com/jonathan/form-autofill/internal/writer"
)

// JobKeywords mark a form's text or markup as a job application.
var JobKeywords = []string{
	"application", "apply", "job", "career", "position", "resume", "cv",
	"first name", "last name", "email", "phone", "experience",
	"education", "skills", "cover letter", "employment", "work",
}

const (
	fieldSelector = "input, textarea, select"
	nameSelector  = `input[name*="name"], input[id*="name"], input[placeholder*="name"]`
	emailSelector = `input[type="email"], input[name*="email"], input[id*="email"]`
	phoneSelector = `input[type="tel"], input[name*="phone"], input[id*="phone"]`
)

// Signals are the heuristics evaluated for one form.
type Signals struct {
	HasKeywords bool
	NameFields  int
	EmailFields int
	PhoneFields int
}

// Accepted reports whether the signals identify a job-application form:
// keywords, or a name-like field together with an email-like field.
func (s Signals) Accepted() bool {
	return s.HasKeywords || (s.NameFields > 0 && s.EmailFields > 0)
}

// Field is the descriptor of one fillable field plus the element to write to.
type Field struct {
	classify.Descriptor
	Element writer.Element
}

// Form is a detected job-application form and its candidate fields.
type Form struct {
	Selection *goquery.Selection
	Fields    []Field
	Signals   Signals
}

// ID identifies the form for reporting: its id, else its class, else "unnamed".
func (f Form) ID() string {
	if f.Selection == nil {
		return "unnamed"
	}
	if id := f.Selection.AttrOr("id", ""); id != "" {
		return id
	}
	if class := f.Selection.AttrOr("class", ""); class != "" {
		return class
	}
	return "unnamed"
}

// Detect returns the page's job-application forms in document order.
func (p *Page) Detect() []Form {
	all := p.doc.Find(fieldSelector)

	var out []Form
	p.doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		signals := scan(form)
		if !signals.Accepted() {
			return
		}
		out = append(out, Form{
			Selection: form,
			Fields:    p.fields(form, all),
			Signals:   signals,
		})
	})
	return out
}

func scan(form *goquery.Selection) Signals {
	text := strings.ToLower(form.Text())
	html, _ := form.Html()
	html = strings.ToLower(html)

	var hasKeywords bool
	for _, kw := range JobKeywords {
		if strings.Contains(text, kw) || strings.Contains(html, kw) {
			hasKeywords = true
			break
		}
	}

	return Signals{
		HasKeywords: hasKeywords,
		NameFields:  form.Find(nameSelector).Length(),
		EmailFields: form.Find(emailSelector).Length(),
		PhoneFields: form.Find(phoneSelector).Length(),
	}
}

// fields builds descriptors for the form's input/textarea/select elements,
// skipping disabled, readonly and hidden ones.
func (p *Page) fields(form, all *goquery.Selection) []Field {
	var out []Field
	form.Find(fieldSelector).Each(func(_ int, s *goquery.Selection) {
		if !Eligible(s) {
			return
		}
		node := &Node{page: p, sel: s, index: all.IndexOfNode(s.Get(0))}
		out = append(out, Field{
			Descriptor: classify.NewDescriptor(
				s.AttrOr("name", ""),
				s.AttrOr("id", ""),
				s.AttrOr("placeholder", ""),
				p.Label(s),
				fieldType(s),
			),
			Element: node,
		})
	})
	return out
}

// Eligible reports whether a field may be written.
func Eligible(s *goquery.Selection) bool {
	if _, disabled := s.Attr("disabled"); disabled {
		return false
	}
	if _, readonly := s.Attr("readonly"); readonly {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "hidden")
}

// fieldType is the input's type attribute, or the tag name for textarea and select.
func fieldType(s *goquery.Selection) string {
	tag := strings.ToLower(goquery.NodeName(s))
	if tag != "input" {
		return tag
	}
	if t := strings.TrimSpace(s.AttrOr("type", "")); t != "" {
		return strings.ToLower(t)
	}
	return "text"
}
