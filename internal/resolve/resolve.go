// Package resolve derives the string to write into a classified field from the
// user profile and résumé record. Resolvers never fail: missing data yields "".
package resolve

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/form-autofill/internal/classify"
	"github.com/jonathan/form-autofill/internal/types"
)

// DefaultCountry is written into country fields. It is not derived from the
// profile.
const DefaultCountry = "India"

// Resolver resolves values against one profile/résumé snapshot.
type Resolver struct {
	Profile        *types.UserProfile
	Resume         *types.ResumeRecord
	Now            func() time.Time
	DefaultCountry string
}

// New creates a Resolver using the wall clock and DefaultCountry.
func New(profile *types.UserProfile, resume *types.ResumeRecord) *Resolver {
	return &Resolver{
		Profile:        profile,
		Resume:         resume,
		Now:            time.Now,
		DefaultCountry: DefaultCountry,
	}
}

// Resolve returns the value for the category, or "" when it should not be written.
func (r *Resolver) Resolve(category classify.Category) string {
	switch category {
	case classify.FirstName:
		return r.FirstName()
	case classify.LastName:
		return r.LastName()
	case classify.FullName:
		return r.FullName()
	case classify.Email:
		if r.Profile == nil {
			return ""
		}
		return r.Profile.Email
	case classify.Phone:
		return r.Phone()
	case classify.Address:
		return r.location()
	case classify.City:
		return r.City()
	case classify.State:
		return r.State()
	case classify.Zip:
		return r.Zip()
	case classify.Country:
		return r.DefaultCountry
	case classify.ExperienceYears:
		return r.ExperienceYears()
	case classify.CurrentPosition:
		if exp := r.currentExperience(); exp != nil {
			return exp.Position
		}
		return ""
	case classify.CurrentCompany:
		if exp := r.currentExperience(); exp != nil {
			return exp.Company
		}
		return ""
	case classify.Degree:
		if edu := r.topEducation(); edu != nil {
			return edu.Degree
		}
		return ""
	case classify.Institution:
		if edu := r.topEducation(); edu != nil {
			return edu.Institution
		}
		return ""
	case classify.GraduationYear:
		return r.GraduationYear()
	case classify.Skills:
		if r.Resume == nil {
			return ""
		}
		return strings.Join(r.Resume.Skills, ", ")
	case classify.Summary:
		if r.Resume == nil {
			return ""
		}
		return r.Resume.PersonalInfo.Summary
	case classify.CoverLetter:
		return r.CoverLetter()
	default:
		// salary, linkedin, portfolio and unknown are left for the human.
		return ""
	}
}

// FullName returns the profile name as stored.
func (r *Resolver) FullName() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Name
}

// FirstName returns the first whitespace-separated token of the name.
func (r *Resolver) FirstName() string {
	parts := strings.Fields(r.FullName())
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns the last token of the name, or "" for single-token names.
func (r *Resolver) LastName() string {
	parts := strings.Fields(r.FullName())
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// Phone prefers the profile phone and falls back to the résumé's.
func (r *Resolver) Phone() string {
	if r.Profile != nil && r.Profile.Phone != "" {
		return r.Profile.Phone
	}
	if r.Resume != nil {
		return r.Resume.PersonalInfo.Phone
	}
	return ""
}

func (r *Resolver) currentExperience() *types.Experience {
	if r.Resume == nil || len(r.Resume.Experience) == 0 {
		return nil
	}
	for i := range r.Resume.Experience {
		if strings.TrimSpace(r.Resume.Experience[i].EndDate) == "" {
			return &r.Resume.Experience[i]
		}
	}
	return &r.Resume.Experience[0]
}

func (r *Resolver) topEducation() *types.Education {
	if r.Resume == nil || len(r.Resume.Education) == 0 {
		return nil
	}
	return &r.Resume.Education[0]
}

// GraduationYear returns the year of the top education entry's graduation date.
func (r *Resolver) GraduationYear() string {
	edu := r.topEducation()
	if edu == nil || edu.GraduationDate == "" {
		return ""
	}
	t, ok := ParseDate(edu.GraduationDate)
	if !ok {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// CoverLetter renders the cover-letter template. The output depends only on
// the name and current position.
func (r *Resolver) CoverLetter() string {
	var position string
	if exp := r.currentExperience(); exp != nil {
		position = exp.Position
	}

	var sb strings.Builder
	sb.WriteString("Dear Hiring Manager,\n\n")
	sb.WriteString("I am writing to express my interest in this position. ")
	if position != "" {
		sb.WriteString("As a ")
		sb.WriteString(position)
		sb.WriteString(", ")
	}
	sb.WriteString("I believe my skills and experience make me a strong candidate for this role.\n\n")
	sb.WriteString("I look forward to discussing my qualifications further.\n\n")
	sb.WriteString("Best regards,\n")
	sb.WriteString(r.FullName())
	return sb.String()
}
