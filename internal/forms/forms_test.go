package forms

import (
	"testing"

	"github.com/jonathan/form-autofill/internal/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applicationPage = `
<html>
	<body>
		<form id="search" action="/search">
			<input name="q" placeholder="Search">
			<button>Go</button>
		</form>
		<form class="apply-form">
			<h2>Apply for this job</h2>
			<label for="fn">First Name</label>
			<input id="fn" name="first_name">
			<label>Email <input type="email" name="email"></label>
			<span>Phone</span><input type="tel" name="phone">
			<input type="hidden" name="token" value="abc">
			<input name="ref" disabled>
			<input name="locked" readonly>
			<textarea name="cover_letter"></textarea>
			<select name="degree">
				<option value="">Select...</option>
				<option value="ba">Bachelor's</option>
				<option>Master's</option>
			</select>
		</form>
	</body>
</html>`

func mustParse(t *testing.T, html string) *Page {
	t.Helper()
	page, err := ParseString(html)
	require.NoError(t, err)
	return page
}

func TestDetect_KeywordForm(t *testing.T) {
	page := mustParse(t, applicationPage)

	forms := page.Detect()
	require.Len(t, forms, 1)
	assert.Equal(t, "apply-form", forms[0].ID())
	assert.True(t, forms[0].Signals.HasKeywords)
	assert.Equal(t, 1, forms[0].Signals.PhoneFields)
}

func TestDetect_FieldsExcludeIneligible(t *testing.T) {
	page := mustParse(t, applicationPage)
	form := page.Detect()[0]

	var names []string
	for _, f := range form.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"first_name", "email", "phone", "cover_letter", "degree"}, names)
}

func TestDetect_DescriptorsAndLabels(t *testing.T) {
	page := mustParse(t, applicationPage)
	fields := page.Detect()[0].Fields

	assert.Equal(t, "first name", fields[0].Label, "label[for]")
	assert.Equal(t, "text", fields[0].Type, "bare input defaults to text")
	assert.Equal(t, "email", fields[1].Label, "enclosing label")
	assert.Equal(t, "email", fields[1].Type)
	assert.Equal(t, "phone", fields[2].Label, "preceding span")
	assert.Equal(t, "textarea", fields[3].Type)
	assert.Equal(t, "select", fields[4].Type)
	assert.Equal(t, "first_name fn  first name", fields[0].AllText)
}

func TestDetect_NoForms(t *testing.T) {
	page := mustParse(t, `<html><body><p>Nothing here</p></body></html>`)
	assert.Empty(t, page.Detect())
}

func TestDetect_DocumentOrder(t *testing.T) {
	page := mustParse(t, `
		<form id="a"><label>Job title <input name="title"></label></form>
		<form id="b"><input name="resume"></form>`)

	forms := page.Detect()
	require.Len(t, forms, 2)
	assert.Equal(t, "a", forms[0].ID())
	assert.Equal(t, "b", forms[1].ID())
}

func TestSignals_Accepted(t *testing.T) {
	assert.True(t, Signals{HasKeywords: true}.Accepted())
	assert.True(t, Signals{NameFields: 1, EmailFields: 1}.Accepted(), "structural fallback")
	assert.False(t, Signals{NameFields: 1}.Accepted())
	assert.False(t, Signals{EmailFields: 2, PhoneFields: 1}.Accepted())
}

func TestForm_IDFallback(t *testing.T) {
	page := mustParse(t, `<form><input name="email"></form>`)
	forms := page.Detect()
	require.Len(t, forms, 1)
	assert.Equal(t, "unnamed", forms[0].ID())
}

func TestLabel_PreviousSiblingRestrictedToTextTags(t *testing.T) {
	page := mustParse(t, `<form><p>Not a label</p><input id="x" name="x"><div>City</div><input name="c"></form>`)
	inputs := page.Document().Find("input")

	assert.Equal(t, "", page.Label(inputs.Eq(0)))
	assert.Equal(t, "City", page.Label(inputs.Eq(1)))
}

func TestNode_InputAndTextarea(t *testing.T) {
	page := mustParse(t, applicationPage)
	fields := page.Detect()[0].Fields

	fields[0].Element.SetValue("Asha")
	fields[3].Element.SetValue("Dear Hiring Manager,")

	assert.Equal(t, "Asha", fields[0].Element.Value())
	assert.Equal(t, "Dear Hiring Manager,", fields[3].Element.Value())

	html, err := page.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `value="Asha"`)
	assert.Contains(t, html, `<textarea name="cover_letter">Dear Hiring Manager,</textarea>`)
}

func TestNode_Select(t *testing.T) {
	page := mustParse(t, applicationPage)
	sel := page.Detect()[0].Fields[4].Element

	assert.Equal(t, "select", sel.Tag())
	assert.Equal(t, []writer.Option{
		{Text: "Select...", Value: ""},
		{Text: "Bachelor's", Value: "ba"},
		{Text: "Master's", Value: "Master's"},
	}, sel.Options())
	assert.Equal(t, "", sel.Value(), "first option is the default")

	sel.SetValue("Master's")
	assert.Equal(t, "Master's", sel.Value())

	sel.SetValue("ba")
	assert.Equal(t, "ba", sel.Value())

	sel.SetValue("no-such-option")
	assert.Equal(t, "ba", sel.Value())
}

func TestNode_DispatchAndStyle(t *testing.T) {
	page := mustParse(t, `<form><input name="email" style="color: red"></form>`)
	el := page.Detect()[0].Fields[0].Element

	el.Dispatch(writer.EventInput)
	el.Dispatch(writer.EventBlur)
	assert.Equal(t, []DispatchedEvent{{Field: 0, Event: writer.EventInput}, {Field: 0, Event: writer.EventBlur}}, page.Events())

	el.SetStyle("background-color", "#e8f5e8")
	html, _ := page.HTML()
	assert.Contains(t, html, `style="color: red; background-color: #e8f5e8;"`)

	el.SetStyle("background-color", "")
	html, _ = page.HTML()
	assert.Contains(t, html, `style="color: red;"`)
}

func TestSetStyleProperty(t *testing.T) {
	assert.Equal(t, "background-color: blue;", setStyleProperty("", "background-color", "blue"))
	assert.Equal(t, "", setStyleProperty("background-color: blue;", "background-color", ""))
	assert.Equal(t, "a: 1; background-color: x;", setStyleProperty("a: 1; Background-Color: y", "background-color", "x"))
}
