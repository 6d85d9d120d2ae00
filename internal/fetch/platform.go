package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known job site or applicant tracking system.
type Platform string

const (
	PlatformLinkedIn     Platform = "linkedin"
	PlatformIndeed       Platform = "indeed"
	PlatformNaukri       Platform = "naukri"
	PlatformGlassdoor    Platform = "glassdoor"
	PlatformMonster      Platform = "monster"
	PlatformDice         Platform = "dice"
	PlatformZipRecruiter Platform = "ziprecruiter"
	PlatformGreenhouse   Platform = "greenhouse"
	PlatformLever        Platform = "lever"
	PlatformWorkday      Platform = "workday"
	PlatformUnknown      Platform = "unknown"
)

// hostPatterns is checked in order; the first substring found in the host wins.
var hostPatterns = []struct {
	pattern  string
	platform Platform
}{
	{"linkedin", PlatformLinkedIn},
	{"indeed", PlatformIndeed},
	{"naukri", PlatformNaukri},
	{"glassdoor", PlatformGlassdoor},
	{"monster", PlatformMonster},
	{"dice", PlatformDice},
	{"ziprecruiter", PlatformZipRecruiter},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the job site from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, hp := range hostPatterns {
		if strings.Contains(host, hp.pattern) {
			return hp.platform
		}
	}
	return PlatformUnknown
}

// IsJobSite reports whether the URL belongs to a known job site.
func IsJobSite(urlStr string) bool {
	return DetectPlatform(urlStr) != PlatformUnknown
}
