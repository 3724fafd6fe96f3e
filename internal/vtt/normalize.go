// Package vtt converts timed WebVTT caption markup into plain readable text.
package vtt

import (
	"regexp"
	"strings"
)

var (
	reCueTiming    = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}\s*-->`)
	reInlineTiming = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
	reStyleTag     = regexp.MustCompile(`</?c>`)
	reAlign        = regexp.MustCompile(`align:\S+`)
	rePosition     = regexp.MustCompile(`position:\S+`)
)

// Normalize converts raw VTT subtitle text into one continuous plain-text
// string. It drops the document header, metadata and cue-timing lines,
// strips inline timing and styling markup, and deduplicates repeated lines:
// YouTube's rolling caption format re-emits the same text across consecutive
// cues as it scrolls, so without the seen-set the output would be mostly
// duplicates. The exact-text dedup also collapses genuinely repeated spoken
// phrases; that is accepted behavior.
func Normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(line, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") {
			continue
		}
		if reCueTiming.MatchString(line) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		text := reInlineTiming.ReplaceAllString(line, "")
		text = reStyleTag.ReplaceAllString(text, "")
		text = reAlign.ReplaceAllString(text, "")
		text = rePosition.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if seen[text] {
			continue
		}
		seen[text] = true
		cleaned = append(cleaned, text)
	}

	return strings.Join(cleaned, " ")
}
