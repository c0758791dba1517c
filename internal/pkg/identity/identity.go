package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Tenant slugs are capped so they stay usable as file names, URL segments and
// index keys.
const maxSlugLength = 60

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// timeNow is swapped in tests to pin the fallback clock.
var timeNow = time.Now

// Slugify normalizes free text (typically an email address) into a stable
// tenant slug: alphanumeric runs survive, everything else collapses to a
// single hyphen. Returns "" when nothing survives normalization.
func Slugify(txt string) string {
	s := strings.ToLower(strings.TrimSpace(txt))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return s
}

// ResolveTenantID derives the tenant identifier for a hint. The result is
// deterministic for any hint that survives normalization; empty hints fall
// back to a time-based identifier so anonymous events never collide with a
// real tenant.
func ResolveTenantID(hint string) string {
	if slug := Slugify(hint); slug != "" {
		return slug
	}
	return fmt.Sprintf("tenant-%d", timeNow().Unix())
}
