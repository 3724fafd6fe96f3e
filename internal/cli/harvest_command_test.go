package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yt-transcript-harvester/internal/model"
	"yt-transcript-harvester/internal/store"
)

func TestHarvestSourceModeEndToEnd(t *testing.T) {
	installFakeYTDLP(t, "v1\tFirst Video\nv2\tPrivate Video\n", []string{"v1"})

	tmp := t.TempDir()
	outputDir := filepath.Join(tmp, "transcripts")
	combined := filepath.Join(tmp, "all_transcripts.txt")
	config := filepath.Join(tmp, "channels.json")

	out, err := captureStdout(t, func() error {
		return Run([]string{
			"harvest",
			"https://www.youtube.com/@TestChannel/videos",
			"--output-dir", outputDir,
			"--combined-file", combined,
			"--config", config,
			"--json",
		})
	})
	if err != nil {
		t.Fatalf("harvest failed: %v", err)
	}

	var result harvestResult
	decodeJSONOutput(t, out, &result)
	if result.TotalVideos != 2 || result.Downloaded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if len(result.Reports) != 1 {
		t.Fatalf("expected one report, got %d", len(result.Reports))
	}
	report := result.Reports[0]
	if len(report.FailedVideos) != 1 || report.FailedVideos[0].ID != "v2" {
		t.Fatalf("unexpected failed videos: %+v", report.FailedVideos)
	}

	individual := filepath.Join(outputDir, "First Video [v1].txt")
	data, err := os.ReadFile(individual)
	if err != nil {
		t.Fatalf("individual transcript missing: %v", err)
	}
	if !strings.Contains(string(data), "hello there general kenobi") {
		t.Fatalf("unexpected transcript content:\n%s", data)
	}

	archive, err := os.ReadFile(combined)
	if err != nil {
		t.Fatalf("combined archive missing: %v", err)
	}
	if !strings.Contains(string(archive), "TestChannel - Complete YouTube Channel Transcripts") {
		t.Fatalf("combined archive missing header:\n%s", archive)
	}
	if strings.Contains(string(archive), "Private Video") {
		t.Fatal("failed video leaked into combined archive")
	}

	var manifest model.RunManifest
	if err := store.ReadJSON(report.ManifestPath, &manifest); err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if manifest.TotalVideos != 2 || manifest.TranscriptsDownloaded != 1 || manifest.TranscriptsFailed != 1 {
		t.Fatalf("unexpected manifest totals: %+v", manifest)
	}
}

func TestHarvestEnumerationFailureIsFatal(t *testing.T) {
	fakeBin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/usr/bin/env bash\necho 'ERROR: channel not found' >&2\nexit 1\n"
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))

	tmp := t.TempDir()
	outputDir := filepath.Join(tmp, "transcripts")
	_, err := captureStdout(t, func() error {
		return Run([]string{
			"harvest",
			"https://www.youtube.com/@Missing/videos",
			"--output-dir", outputDir,
			"--combined-file", filepath.Join(tmp, "all.txt"),
			"--config", filepath.Join(tmp, "channels.json"),
			"--quiet",
		})
	})
	if err == nil {
		t.Fatal("expected enumeration failure to be fatal")
	}
	if _, statErr := os.Stat(outputDir); !os.IsNotExist(statErr) {
		t.Fatal("enumeration failure must not create the output directory")
	}
}

func TestHarvestSourceAndChannelModesAreExclusive(t *testing.T) {
	err := Run([]string{
		"harvest",
		"--source", "https://example.com/@a",
		"--all-channels",
		"--config", filepath.Join(t.TempDir(), "channels.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mode exclusivity error, got %v", err)
	}
}

func TestHarvestConfiguredChannelAndStatusRollup(t *testing.T) {
	installFakeYTDLP(t, "v1\tOnly Video\n", []string{"v1"})

	tmp := t.TempDir()
	config := filepath.Join(tmp, "channels.json")
	outputDir := filepath.Join(tmp, "out", "testchan")

	if _, err := captureStdout(t, func() error {
		return Run([]string{
			"add",
			"--name", "testchan",
			"--source", "https://www.youtube.com/@TestChan/videos",
			"--output-dir", outputDir,
			"--config", config,
			"--json",
		})
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, err := captureStdout(t, func() error {
		return Run([]string{"harvest", "--channel", "testchan", "--config", config, "--json"})
	}); err != nil {
		t.Fatalf("channel harvest failed: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"status", "--config", config, "--json"})
	})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var status statusResult
	decodeJSONOutput(t, out, &status)
	if status.Totals.Channels != 1 || status.Totals.Harvested != 1 {
		t.Fatalf("unexpected status totals: %+v", status.Totals)
	}
	row := status.Rows[0]
	if row.Channel != "testchan" || row.TotalVideos != 1 || row.Downloaded != 1 || row.Failed != 0 {
		t.Fatalf("unexpected status row: %+v", row)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := captureStdout(t, func() error {
		return Run([]string{"frobnicate"})
	})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}
