package channels

import (
	"path/filepath"
	"testing"
)

func TestAddChannel_CreatesAndRejectsDuplicates(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "channels.json")

	res, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		SourceURL:  "https://www.youtube.com/@RobWalling/videos",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !res.Created {
		t.Fatal("expected channel to be created")
	}
	if res.Channel.Name != "robwalling" {
		t.Fatalf("expected name suggested from handle, got %q", res.Channel.Name)
	}

	if _, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		Name:       "other-name",
		SourceURL:  "https://www.youtube.com/@RobWalling/videos/",
	}); err == nil {
		t.Fatal("expected duplicate source to be rejected")
	}

	if _, err := AddChannel(AddChannelOptions{
		ConfigPath: cfg,
		Name:       "robwalling",
		SourceURL:  "https://www.youtube.com/@RobWalling/videos",
	}); err == nil {
		t.Fatal("expected duplicate name without --replace to be rejected")
	}

	replaced, err := AddChannel(AddChannelOptions{
		ConfigPath:          cfg,
		Name:                "robwalling",
		SourceURL:           "https://www.youtube.com/@RobWalling/videos",
		ChannelName:         "Rob Walling",
		ReplaceIfNameExists: true,
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if replaced.Created {
		t.Fatal("replace should not report creation")
	}
	if replaced.Channel.ChannelName != "Rob Walling" {
		t.Fatalf("expected display name to be updated, got %q", replaced.Channel.ChannelName)
	}
}

func TestRemoveChannel(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "channels.json")

	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "chan-a", SourceURL: "https://example.com/@a"}); err != nil {
		t.Fatal(err)
	}

	res, err := RemoveChannel(RemoveChannelOptions{ConfigPath: cfg, Name: "Chan-A"})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !res.Removed || res.Channel.Name != "chan-a" {
		t.Fatalf("unexpected remove result: %+v", res)
	}

	if _, err := RemoveChannel(RemoveChannelOptions{ConfigPath: cfg, Name: "chan-a"}); err == nil {
		t.Fatal("expected error removing missing channel")
	}
}

func TestResolveSelection_ActiveOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "channels.json")

	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "active-one", SourceURL: "https://example.com/@a", Active: boolPtr(true)}); err != nil {
		t.Fatal(err)
	}
	if _, err := AddChannel(AddChannelOptions{ConfigPath: cfg, Name: "inactive-one", SourceURL: "https://example.com/@b", Active: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}

	selected, err := ResolveSelection(cfg, "", true, true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(selected) != 1 || selected[0].Name != "active-one" {
		t.Fatalf("expected only the active channel, got %+v", selected)
	}

	byName, err := ResolveSelection(cfg, "inactive-one", false, false)
	if err != nil {
		t.Fatalf("resolve by name failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "inactive-one" {
		t.Fatalf("unexpected selection: %+v", byName)
	}

	if _, err := ResolveSelection(cfg, "missing", false, false); err == nil {
		t.Fatal("expected error for unknown channel name")
	}
}

func TestGlobalSettings_DefaultsAndUpdate(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "channels.json")

	g, err := ReadGlobalSettings(cfg)
	if err != nil {
		t.Fatalf("read defaults failed: %v", err)
	}
	if g.SubLang != DefaultSubLang || g.PauseEvery != DefaultPauseEvery || g.OutputRoot != DefaultOutputRoot {
		t.Fatalf("unexpected defaults: %+v", g)
	}

	updated, err := UpdateGlobalSettings(UpdateGlobalSettingsOptions{
		ConfigPath: cfg,
		Global:     GlobalSettings{SubLang: "de", PauseEvery: 5},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Global.SubLang != "de" || updated.Global.PauseEvery != 5 {
		t.Fatalf("update not applied: %+v", updated.Global)
	}
	if updated.Global.OutputRoot != DefaultOutputRoot {
		t.Fatalf("expected unset fields normalized to defaults: %+v", updated.Global)
	}

	again, err := ReadGlobalSettings(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if again.SubLang != "de" {
		t.Fatalf("settings not persisted: %+v", again)
	}
}
