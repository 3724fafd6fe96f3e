// Package ytdlp wraps the yt-dlp binary for channel enumeration and
// per-video subtitle extraction.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"yt-transcript-harvester/internal/model"
)

const (
	// Large channels can take minutes to enumerate even in flat mode.
	DefaultListTimeout = 10 * time.Minute
	// A single slow video must never stall the whole batch.
	DefaultFetchTimeout = 2 * time.Minute
)

type DependencyReport struct {
	YTDLPFound bool   `json:"yt_dlp_found"`
	YTDLPPath  string `json:"yt_dlp_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("yt-dlp"); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	return report
}

func CheckDependencies() error {
	if !DependencyStatus().YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	return nil
}

// Client runs yt-dlp subprocesses. The zero value uses the default
// timeouts and is ready to use.
type Client struct {
	ListTimeout  time.Duration
	FetchTimeout time.Duration
}

// ListChannel enumerates every video of a channel in flat-playlist mode
// (no per-video page loads), one tab-separated id/title line per video.
// A non-zero exit or timeout is returned as an error carrying yt-dlp's
// stderr; enumeration failure is fatal for the caller.
func (c Client) ListChannel(ctx context.Context, channelURL string) ([]model.VideoRef, error) {
	if strings.TrimSpace(channelURL) == "" {
		return nil, fmt.Errorf("channel URL is required")
	}

	timeout := c.ListTimeout
	if timeout <= 0 {
		timeout = DefaultListTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--no-check-certificates",
		"--flat-playlist",
		"--print", "%(id)s\t%(title)s",
		channelURL,
	}

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("yt-dlp channel listing timed out after %s", timeout)
		}
		return nil, fmt.Errorf("yt-dlp failed to list channel videos: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseFlatListing(stdout.String()), nil
}

// FetchCaption downloads the caption track for one video into scratchDir
// and returns the raw VTT text. Every failure mode (timeout, no caption
// track, unlocatable output file) collapses into found=false; yt-dlp's
// exit code is deliberately ignored because it reports non-zero for
// videos that simply have no subtitles. Scratch files keyed by the video
// id are removed before returning, success or not.
func (c Client) FetchCaption(ctx context.Context, videoID, lang, scratchDir string) (string, bool) {
	timeout := c.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outputTemplate := filepath.Join(scratchDir, videoID+".%(ext)s")
	args := []string{
		"--no-check-certificates",
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", subLangPattern(lang),
		"--sub-format", "vtt",
		"-o", outputTemplate,
		model.VideoRef{ID: videoID}.WatchURL(),
	}

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	_ = cmd.Run()

	defer cleanupScratch(scratchDir, videoID)

	path, ok := locateCaptionFile(scratchDir, videoID, lang)
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func parseFlatListing(out string) []model.VideoRef {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	videos := make([]model.VideoRef, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		videos = append(videos, model.VideoRef{
			ID:    strings.TrimSpace(parts[0]),
			Title: strings.TrimSpace(parts[1]),
		})
	}
	return videos
}

// subLangPattern widens a bare language code so both manual and
// auto-generated variants match (en, en-US, en-orig), excluding live chat.
func subLangPattern(lang string) string {
	v := strings.TrimSpace(lang)
	if v == "" {
		v = "en"
	}
	return v + ".*," + v + ",-live_chat"
}

// locateCaptionFile checks the expected output names first, then falls
// back to scanning the scratch directory, because yt-dlp's language
// suffix varies (en.vtt, en-orig.vtt, en-US.vtt).
func locateCaptionFile(scratchDir, videoID, lang string) (string, bool) {
	for _, suffix := range []string{"." + lang + ".vtt", "." + lang + "-orig.vtt"} {
		candidate := filepath.Join(scratchDir, videoID+suffix)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, videoID) && strings.HasSuffix(name, ".vtt") {
			return filepath.Join(scratchDir, name), true
		}
	}
	return "", false
}

func cleanupScratch(scratchDir, videoID string) {
	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), videoID) {
			_ = os.Remove(filepath.Join(scratchDir, e.Name()))
		}
	}
}
