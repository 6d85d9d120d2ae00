// Package types provides type definitions for the profile, résumé and fill
// results exchanged between the storage boundary and the auto-fill engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// UserProfile is the signed-in user's contact record (storage key "userData").
type UserProfile struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// ResumeRecord is the structured résumé backing value resolution (storage key "resumeData").
// Experience is most-recent-first, or the current entry has no EndDate.
// Education is highest/most-relevant first.
type ResumeRecord struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
}

// PersonalInfo holds the free-text personal fields of a résumé.
type PersonalInfo struct {
	Location string `json:"location,omitempty"` // "City, State, ZIP"
	Summary  string `json:"summary,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Experience is one employment entry. An empty or null EndDate marks the
// current role. Missing fields resolve to "".
type Experience struct {
	Company   string `json:"company"`
	Position  string `json:"position"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationDate string `json:"graduationDate,omitempty"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
