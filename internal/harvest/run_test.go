package harvest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yt-transcript-harvester/internal/model"
	"yt-transcript-harvester/internal/store"
)

type fakeExtractor struct {
	videos   []model.VideoRef
	listErr  error
	captions map[string]string // video id -> raw VTT; missing means absent
	fetched  []string
}

func (f *fakeExtractor) ListChannel(_ context.Context, _ string) ([]model.VideoRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.videos, nil
}

func (f *fakeExtractor) FetchCaption(_ context.Context, videoID, _, _ string) (string, bool) {
	f.fetched = append(f.fetched, videoID)
	raw, ok := f.captions[videoID]
	return raw, ok
}

func cannedVTT(text string) string {
	return fmt.Sprintf("WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n%s\n\n00:00:01.500 --> 00:00:03.000\n%s\n", text, text)
}

func TestRun_PartialFailureKeepsBatchGoing(t *testing.T) {
	tmp := t.TempDir()
	outputDir := filepath.Join(tmp, "transcripts")
	combinedFile := filepath.Join(tmp, "all.txt")

	ext := &fakeExtractor{
		videos: []model.VideoRef{
			{ID: "v1", Title: "First Video"},
			{ID: "v2", Title: "Second Video"},
			{ID: "v3", Title: "Third Video"},
		},
		captions: map[string]string{
			"v1": cannedVTT("first transcript"),
			"v3": cannedVTT("third transcript"),
		},
	}

	res, err := Run(context.Background(), RunOptions{
		ChannelURL:   "https://www.youtube.com/@testchan/videos",
		OutputDir:    outputDir,
		CombinedFile: combinedFile,
		Pause:        time.Millisecond,
		Quiet:        true,
		Extractor:    ext,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.TotalVideos != 3 || res.TranscriptsDownloaded != 2 || res.TranscriptsFailed != 1 {
		t.Fatalf("unexpected totals: %+v", res)
	}
	if len(res.FailedVideos) != 1 || res.FailedVideos[0].ID != "v2" {
		t.Fatalf("expected only v2 in failed list, got %+v", res.FailedVideos)
	}

	var mf model.RunManifest
	if err := store.ReadJSON(res.ManifestPath, &mf); err != nil {
		t.Fatal(err)
	}
	if mf.TranscriptsDownloaded+mf.TranscriptsFailed != mf.TotalVideos {
		t.Fatalf("manifest counts do not partition: %+v", mf)
	}
	withTranscript := 0
	for _, v := range mf.Videos {
		if v.HasTranscript {
			withTranscript++
		}
	}
	if withTranscript != mf.TranscriptsDownloaded {
		t.Fatalf("has_transcript flags (%d) disagree with success count (%d)", withTranscript, mf.TranscriptsDownloaded)
	}
	if mf.Videos[0].ID != "v1" || mf.Videos[1].ID != "v2" || mf.Videos[2].ID != "v3" {
		t.Fatalf("manifest entries not in enumeration order: %+v", mf.Videos)
	}
	if mf.Videos[1].HasTranscript {
		t.Fatal("v2 should be marked without transcript")
	}
	if mf.RunID == "" {
		t.Fatal("expected a run id in the manifest")
	}
	if mf.ChannelName != "testchan" {
		t.Fatalf("expected channel name derived from handle, got %q", mf.ChannelName)
	}

	combined, err := os.ReadFile(combinedFile)
	if err != nil {
		t.Fatal(err)
	}
	sections := strings.Count(string(combined), "TITLE: ")
	if sections != 2 {
		t.Fatalf("expected 2 combined sections, got %d", sections)
	}
	first := strings.Index(string(combined), "VIDEO ID: v1")
	third := strings.Index(string(combined), "VIDEO ID: v3")
	if first < 0 || third < 0 || first > third {
		t.Fatalf("combined sections out of enumeration order (v1 at %d, v3 at %d)", first, third)
	}
	if strings.Contains(string(combined), "VIDEO ID: v2") {
		t.Fatal("failed video must not contribute a combined section")
	}

	individual := filepath.Join(outputDir, "First Video [v1].txt")
	data, err := os.ReadFile(individual)
	if err != nil {
		t.Fatalf("expected individual transcript file: %v", err)
	}
	for _, want := range []string{"Title: First Video", "Video ID: v1", "URL: https://www.youtube.com/watch?v=v1", "first transcript"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("individual file missing %q:\n%s", want, data)
		}
	}

	if _, err := os.Stat(filepath.Join(outputDir, scratchDirName)); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed, stat err: %v", err)
	}
}

func TestRun_EnumerationFailureCreatesNothing(t *testing.T) {
	tmp := t.TempDir()
	outputDir := filepath.Join(tmp, "transcripts")
	combinedFile := filepath.Join(tmp, "all.txt")

	ext := &fakeExtractor{listErr: errors.New("yt-dlp failed to list channel videos")}

	_, err := Run(context.Background(), RunOptions{
		ChannelURL:   "https://www.youtube.com/@testchan/videos",
		OutputDir:    outputDir,
		CombinedFile: combinedFile,
		Quiet:        true,
		Extractor:    ext,
	})
	if err == nil {
		t.Fatal("expected enumeration error to be fatal")
	}

	if _, statErr := os.Stat(outputDir); !os.IsNotExist(statErr) {
		t.Fatal("output directory must not be created when enumeration fails")
	}
	if _, statErr := os.Stat(combinedFile); !os.IsNotExist(statErr) {
		t.Fatal("combined file must not be created when enumeration fails")
	}
}

func TestRun_EmptyTranscriptCountsAsFailure(t *testing.T) {
	tmp := t.TempDir()

	ext := &fakeExtractor{
		videos: []model.VideoRef{{ID: "v1", Title: "Header Only"}},
		captions: map[string]string{
			"v1": "WEBVTT\nKind: captions\nLanguage: en\n\n",
		},
	}

	res, err := Run(context.Background(), RunOptions{
		ChannelURL:   "https://www.youtube.com/@testchan/videos",
		OutputDir:    filepath.Join(tmp, "out"),
		CombinedFile: filepath.Join(tmp, "all.txt"),
		Quiet:        true,
		Extractor:    ext,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.TranscriptsDownloaded != 0 || res.TranscriptsFailed != 1 {
		t.Fatalf("caption that normalizes to nothing should count as failure: %+v", res)
	}
}

func TestRun_RequiresChannelURL(t *testing.T) {
	if _, err := Run(context.Background(), RunOptions{Quiet: true, Extractor: &fakeExtractor{}}); err == nil {
		t.Fatal("expected error for missing channel URL")
	}
}

func TestDeriveChannelName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/@RobWalling/videos", "RobWalling"},
		{"https://www.youtube.com/@handle", "handle"},
		{"https://www.youtube.com/channel/UCxyz/videos", ""},
	}
	for _, tc := range cases {
		if got := deriveChannelName(tc.url); got != tc.want {
			t.Fatalf("deriveChannelName(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
