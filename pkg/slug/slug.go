package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make derives a URL slug from a title: lowercase, every run of
// non-alphanumeric characters collapsed to one hyphen, edge hyphens removed.
func Make(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// IsValid reports whether s contains only lowercase letters, digits and
// single interior hyphens.
func IsValid(s string) bool {
	return valid.MatchString(s)
}
