package classify

import "strings"

// Descriptor is the normalized, lower-cased text of one form field.
// AllText is name + id + placeholder + label joined by spaces.
type Descriptor struct {
	Name        string
	ID          string
	Placeholder string
	Label       string
	Type        string
	AllText     string
}

// NewDescriptor lower-cases the attributes and builds AllText.
func NewDescriptor(name, id, placeholder, label, fieldType string) Descriptor {
	d := Descriptor{
		Name:        strings.ToLower(name),
		ID:          strings.ToLower(id),
		Placeholder: strings.ToLower(placeholder),
		Label:       strings.ToLower(label),
		Type:        strings.ToLower(fieldType),
	}
	d.AllText = d.Name + " " + d.ID + " " + d.Placeholder + " " + d.Label
	return d
}

// Rule is one entry of the classification table.
//
// A rule matches when any Include keyword occurs in AllText, any AllOf keyword
// occurs (when AllOf is set), no Exclude keyword occurs, and the field type
// satisfies Type / NotType.
type Rule struct {
	Category Category
	Include  []string
	AllOf    []string
	Exclude  []string
	Type     string
	NotType  string
}

// rules is evaluated top to bottom; the first match wins, so order is priority.
var rules = []Rule{
	// Personal information. First/last before full name: "first name" contains "name".
	{Category: FirstName, Include: []string{"first name", "firstname", "first_name", "first-name", "fname", "given name"}},
	{Category: LastName, Include: []string{"last name", "lastname", "last_name", "last-name", "lname", "surname", "family name"}},
	{Category: FullName, Include: []string{"full name", "fullname", "name", "your name"}, Exclude: []string{"first", "last", "company", "organization"}},
	{Category: Email, Include: []string{"email", "e-mail", "email address", "mail"}},
	{Category: Phone, Include: []string{"phone", "telephone", "mobile", "contact", "number"}, Exclude: []string{"emergency", "reference"}},

	// Address. "Email Address" is already taken by the email rule above.
	{Category: Address, Include: []string{"address", "street", "location"}, Exclude: []string{"email", "web"}},
	{Category: City, Include: []string{"city"}},
	{Category: State, Include: []string{"state", "province"}},
	{Category: Zip, Include: []string{"zip", "postal", "pincode"}},
	{Category: Country, Include: []string{"country"}},

	// Professional.
	{Category: ExperienceYears, Include: []string{"experience", "years of experience", "work experience"}, NotType: "textarea"},
	{Category: CurrentPosition, Include: []string{"current", "present"}, AllOf: []string{"position", "job", "title", "role"}},
	{Category: CurrentCompany, Include: []string{"company", "employer", "organization"}, Exclude: []string{"previous", "last"}},
	{Category: Salary, Include: []string{"salary", "compensation", "expected salary", "current salary"}},

	// Education.
	{Category: Degree, Include: []string{"degree", "qualification", "education"}},
	{Category: Institution, Include: []string{"university", "college", "school", "institution"}},
	{Category: GraduationYear, Include: []string{"graduation", "completed", "passing year"}},

	// Free text, textarea only.
	{Category: Skills, Include: []string{"skills", "expertise", "competencies"}, Type: "textarea"},
	{Category: Summary, Include: []string{"summary", "objective", "about", "profile", "bio"}, Type: "textarea"},
	{Category: CoverLetter, Include: []string{"cover letter", "message", "why"}, Type: "textarea"},

	// External profiles.
	{Category: LinkedIn, Include: []string{"linkedin", "linked in"}},
	{Category: Portfolio, Include: []string{"portfolio", "website", "github"}},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Matches reports whether the rule accepts the descriptor.
func (r Rule) Matches(d Descriptor) bool {
	if r.Type != "" && d.Type != r.Type {
		return false
	}
	if r.NotType != "" && d.Type == r.NotType {
		return false
	}
	if !containsAny(d.AllText, r.Include) {
		return false
	}
	if len(r.AllOf) > 0 && !containsAny(d.AllText, r.AllOf) {
		return false
	}
	return !containsAny(d.AllText, r.Exclude)
}

// Classify returns the category of the first matching rule, or Unknown.
func Classify(d Descriptor) Category {
	for _, r := range rules {
		if r.Matches(d) {
			return r.Category
		}
	}
	return Unknown
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
