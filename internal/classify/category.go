// Package classify maps a form field's attribute text to a semantic category
// using an ordered keyword rule table.
package classify

// Category is the semantic label a field is classified into.
type Category string

// Semantic categories, in the order the rule table checks them.
const (
	FirstName       Category = "firstName"
	LastName        Category = "lastName"
	FullName        Category = "fullName"
	Email           Category = "email"
	Phone           Category = "phone"
	Address         Category = "address"
	City            Category = "city"
	State           Category = "state"
	Zip             Category = "zip"
	Country         Category = "country"
	ExperienceYears Category = "experienceYears"
	CurrentPosition Category = "currentPosition"
	CurrentCompany  Category = "currentCompany"
	Salary          Category = "salary"
	Degree          Category = "degree"
	Institution     Category = "institution"
	GraduationYear  Category = "graduationYear"
	Skills          Category = "skills"
	Summary         Category = "summary"
	CoverLetter     Category = "coverLetter"
	LinkedIn        Category = "linkedin"
	Portfolio       Category = "portfolio"
	Unknown         Category = "unknown"
)

// LeftForHuman reports whether fields of this category are recognised but
// intentionally never filled.
func (c Category) LeftForHuman() bool {
	switch c {
	case Salary, LinkedIn, Portfolio:
		return true
	}
	return false
}
