package resolve

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/01",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

// ParseDate parses the date formats résumé records use in practice.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthsBetween is the calendar month delta, clamped at zero.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// TotalMonths sums the clamped month delta of every experience entry. An entry
// with a missing or unparsable end date is treated as ongoing; one with an
// unparsable start date contributes nothing.
func (r *Resolver) TotalMonths() int {
	if r.Resume == nil {
		return 0
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	total := 0
	for _, exp := range r.Resume.Experience {
		start, ok := ParseDate(exp.StartDate)
		if !ok {
			continue
		}
		end, ok := ParseDate(exp.EndDate)
		if !ok {
			end = now()
		}
		total += monthsBetween(start, end)
	}
	return total
}

// ExperienceYears returns whole years of experience, "0" when there is none.
func (r *Resolver) ExperienceYears() string {
	return strconv.Itoa(r.TotalMonths() / 12)
}
