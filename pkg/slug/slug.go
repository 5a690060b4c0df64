package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9 ]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Make generates a URL and object-key safe slug from a title.
// Example: "Options Trading 101!" -> "options-trading-101"
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnumRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
