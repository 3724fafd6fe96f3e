package harvest

import (
	"strings"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{`A/B: "Test"?*`, "AB Test"},
		{"plain title", "plain title"},
		{"ends with dots...", "ends with dots"},
		{"   ", "untitled"},
		{`<>:"/\|?*`, "untitled"},
		{"unicode ✓ Überschrift", "unicode ✓ Überschrift"},
	}

	for _, tc := range cases {
		if got := SanitizeTitle(tc.title); got != tc.want {
			t.Fatalf("SanitizeTitle(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSanitizeTitle_Bounds(t *testing.T) {
	long := strings.Repeat("ä", 500)
	got := SanitizeTitle(long)
	if n := len([]rune(got)); n != 200 {
		t.Fatalf("expected 200 runes, got %d", n)
	}

	for _, title := range []string{"x", long, "a<b>c", "...", "name?"} {
		got := SanitizeTitle(title)
		if got == "" {
			t.Fatalf("sanitized title must never be empty (input %q)", title)
		}
		if strings.ContainsAny(got, `<>:"/\|?*`) {
			t.Fatalf("sanitized title %q still contains reserved characters", got)
		}
	}
}
