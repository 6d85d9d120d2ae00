package resolve

import "strings"

func (r *Resolver) location() string {
	if r.Resume == nil {
		return ""
	}
	return strings.TrimSpace(r.Resume.PersonalInfo.Location)
}

// locationParts splits "City, State, ZIP" on commas and trims each token.
func (r *Resolver) locationParts() []string {
	loc := r.location()
	if loc == "" {
		return nil
	}
	parts := strings.Split(loc, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// City is the first location token. A location with no commas is all city.
func (r *Resolver) City() string {
	parts := r.locationParts()
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// State is the second location token, "" when there is none.
func (r *Resolver) State() string {
	parts := r.locationParts()
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Zip is the last location token, only when the location has at least three
// tokens; shorter locations carry no postal code.
func (r *Resolver) Zip() string {
	parts := r.locationParts()
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}
