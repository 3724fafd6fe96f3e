package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const harnessVTT = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.000
hello <00:00:01.000><c>there</c>

00:00:02.000 --> 00:00:04.000 align:start position:0%
hello there

00:00:04.000 --> 00:00:06.000
general kenobi
`

// installFakeYTDLP writes a yt-dlp stand-in onto PATH: flat-playlist
// invocations print the fixture listing, caption fetches write a VTT
// file for the ids named in YTH_CAPTION_IDS and fail for everything else.
func installFakeYTDLP(t *testing.T, listing string, captionIDs []string) {
	t.Helper()
	fakeBin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}

	fixturePath := filepath.Join(fakeBin, "listing.txt")
	if err := os.WriteFile(fixturePath, []byte(listing), 0o644); err != nil {
		t.Fatal(err)
	}
	vttPath := filepath.Join(fakeBin, "caption.vtt")
	if err := os.WriteFile(vttPath, []byte(harnessVTT), 0o644); err != nil {
		t.Fatal(err)
	}

	script := `#!/usr/bin/env bash
set -euo pipefail
if printf '%s ' "$@" | grep -q -- '--flat-playlist'; then
  cat "$YTH_LISTING"
  exit 0
fi
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
id="${out##*/}"
id="${id%%.*}"
dir="${out%/*}"
for ok in $YTH_CAPTION_IDS; do
  if [ "$id" = "$ok" ]; then
    cp "$YTH_VTT" "$dir/$id.en.vtt"
    exit 0
  fi
done
echo "no subtitles for $id" >&2
exit 1
`
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))
	t.Setenv("YTH_LISTING", fixturePath)
	t.Setenv("YTH_VTT", vttPath)
	t.Setenv("YTH_CAPTION_IDS", strings.Join(captionIDs, " "))
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	runErr := fn()

	_ = w.Close()
	os.Stdout = orig
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	return buf.String(), runErr
}

func decodeJSONOutput(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode command output: %v\noutput:\n%s", err, out)
	}
}
