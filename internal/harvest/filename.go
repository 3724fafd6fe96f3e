package harvest

import (
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeTitle turns a video title into a filesystem-safe filename stem:
// reserved characters are removed, trailing dots and spaces trimmed, the
// result capped at 200 runes, with "untitled" as the empty fallback.
func SanitizeTitle(title string) string {
	safe := invalidFilenameChars.ReplaceAllString(title, "")
	safe = strings.Trim(safe, ". ")
	if safe == "" {
		return "untitled"
	}
	if r := []rune(safe); len(r) > 200 {
		return string(r[:200])
	}
	return safe
}
