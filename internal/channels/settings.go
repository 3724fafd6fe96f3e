package channels

import (
	"errors"
	"os"
	"strings"
	"time"
)

const (
	DefaultSubLang      = "en"
	DefaultPauseEvery   = 10
	DefaultPauseSeconds = 2
	DefaultOutputRoot   = "transcripts"
)

// GlobalSettings are registry-wide harvest defaults, overridable per
// channel and per invocation.
type GlobalSettings struct {
	SubLang      string `json:"sub_lang,omitempty"`
	PauseEvery   int    `json:"pause_every,omitempty"`
	PauseSeconds int    `json:"pause_seconds,omitempty"`
	OutputRoot   string `json:"output_root,omitempty"`
}

type UpdateGlobalSettingsOptions struct {
	ConfigPath string
	Global     GlobalSettings
}

type UpdateGlobalSettingsResult struct {
	ConfigPath string         `json:"config_path"`
	Global     GlobalSettings `json:"global"`
}

func defaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		SubLang:      DefaultSubLang,
		PauseEvery:   DefaultPauseEvery,
		PauseSeconds: DefaultPauseSeconds,
		OutputRoot:   DefaultOutputRoot,
	}
}

func normalizeGlobalSettings(raw GlobalSettings) GlobalSettings {
	norm := raw
	if strings.TrimSpace(norm.SubLang) == "" {
		norm.SubLang = DefaultSubLang
	}
	if norm.PauseEvery <= 0 {
		norm.PauseEvery = DefaultPauseEvery
	}
	if norm.PauseSeconds < 0 {
		norm.PauseSeconds = DefaultPauseSeconds
	}
	if strings.TrimSpace(norm.OutputRoot) == "" {
		norm.OutputRoot = DefaultOutputRoot
	}
	return norm
}

func ReadGlobalSettings(configPath string) (GlobalSettings, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg.Global, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return defaultGlobalSettings(), nil
	}
	return GlobalSettings{}, err
}

func UpdateGlobalSettings(opts UpdateGlobalSettingsOptions) (UpdateGlobalSettingsResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return UpdateGlobalSettingsResult{}, err
	}

	reg.Global = normalizeGlobalSettings(opts.Global)
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return UpdateGlobalSettingsResult{}, err
	}

	return UpdateGlobalSettingsResult{
		ConfigPath: configPath,
		Global:     reg.Global,
	}, nil
}
