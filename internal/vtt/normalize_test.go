package vtt

import (
	"strings"
	"testing"
)

func TestNormalize_RollingCaptions(t *testing.T) {
	input := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nHello world\n\n00:00:01.500 --> 00:00:03.000\nHello world\nNext line\n"

	got := Normalize(input)
	if got != "Hello world Next line" {
		t.Fatalf("unexpected normalized output: %q", got)
	}
}

func TestNormalize_StripsMarkup(t *testing.T) {
	input := strings.Join([]string{
		"WEBVTT",
		"Kind: captions",
		"Language: en",
		"",
		"00:00:00.000 --> 00:00:02.000 align:start position:0%",
		"so<00:00:00.480><c> here</c><00:00:00.719><c> we</c><00:00:01.120><c> go</c> align:start",
		"",
	}, "\n")

	got := Normalize(input)
	if got != "so here we go" {
		t.Fatalf("unexpected normalized output: %q", got)
	}
	for _, forbidden := range []string{"<", ">", "align:", "position:"} {
		if strings.Contains(got, forbidden) {
			t.Fatalf("output still contains %q: %q", forbidden, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	plain := "this text has no markup and no duplicate lines"

	once := Normalize(plain)
	if once != plain {
		t.Fatalf("normalizing plain text changed it: %q", once)
	}
	if twice := Normalize(once); twice != once {
		t.Fatalf("normalize is not idempotent: %q vs %q", twice, once)
	}
}

func TestNormalize_DedupAcrossDistantCues(t *testing.T) {
	input := strings.Join([]string{
		"WEBVTT",
		"",
		"00:00:00.000 --> 00:00:02.000",
		"okay",
		"",
		"00:00:05.000 --> 00:00:07.000",
		"something else",
		"",
		"00:01:00.000 --> 00:01:02.000",
		"okay",
		"",
	}, "\n")

	got := Normalize(input)
	if got != "okay something else" {
		t.Fatalf("expected first-occurrence dedup, got %q", got)
	}
}

func TestNormalize_EmptyAndHeaderOnlyInputs(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty output for empty input, got %q", got)
	}
	if got := Normalize("WEBVTT\nKind: captions\nLanguage: en\n\n"); got != "" {
		t.Fatalf("expected empty output for header-only input, got %q", got)
	}
}

func TestNormalize_DropsLinesEmptyAfterStripping(t *testing.T) {
	input := "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n<00:00:00.500><c></c> align:start position:0%\nreal words\n"

	if got := Normalize(input); got != "real words" {
		t.Fatalf("unexpected output: %q", got)
	}
}
