package channels

import (
	"os"
	"path/filepath"
	"strings"

	"yt-transcript-harvester/internal/store"
	"yt-transcript-harvester/internal/ytdlp"
)

type DoctorOptions struct {
	OutputRoot string
	ConfigPath string
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type InitWorkspaceOptions struct {
	OutputRoot string
	ConfigPath string
}

type InitWorkspaceResult struct {
	OutputRoot        string       `json:"output_root"`
	ConfigPath        string       `json:"config_path"`
	CreatedOutputRoot bool         `json:"created_output_root"`
	CreatedConfig     bool         `json:"created_config"`
	DoctorResult      DoctorResult `json:"doctor"`
}

// Doctor runs the preflight checks a harvest depends on. Subtitle-only
// extraction needs just the yt-dlp binary (no ffmpeg) plus writable
// output and config directories.
func Doctor(opts DoctorOptions) (DoctorResult, error) {
	outputRoot := strings.TrimSpace(opts.OutputRoot)
	if outputRoot == "" {
		outputRoot = DefaultOutputRoot
	}
	configPath := normalizeConfigPath(opts.ConfigPath)

	checks := make([]DoctorCheck, 0, 3)
	dep := ytdlp.DependencyStatus()
	checks = append(checks, DoctorCheck{
		Name:    "dependency:yt-dlp",
		OK:      dep.YTDLPFound,
		Message: dependencyMessage(dep.YTDLPFound, dep.YTDLPPath, "yt-dlp"),
	})

	outputOK, outputMessage := ensureWritableDir(outputRoot)
	checks = append(checks, DoctorCheck{
		Name:    "directory:output",
		OK:      outputOK,
		Message: outputMessage,
	})

	cfgOK, cfgMessage := ensureWritableDir(filepath.Dir(configPath))
	checks = append(checks, DoctorCheck{
		Name:    "directory:config",
		OK:      cfgOK,
		Message: cfgMessage,
	})

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}
	return DoctorResult{OK: ok, Checks: checks}, nil
}

func InitWorkspace(opts InitWorkspaceOptions) (InitWorkspaceResult, error) {
	outputRoot := strings.TrimSpace(opts.OutputRoot)
	if outputRoot == "" {
		outputRoot = DefaultOutputRoot
	}
	configPath := normalizeConfigPath(opts.ConfigPath)

	createdOutputRoot := false
	if _, err := os.Stat(outputRoot); os.IsNotExist(err) {
		createdOutputRoot = true
	}
	if err := store.Mkdir(outputRoot); err != nil {
		return InitWorkspaceResult{}, err
	}

	_, createdConfig, err := EnsureRegistry(configPath)
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	doc, err := Doctor(DoctorOptions{OutputRoot: outputRoot, ConfigPath: configPath})
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	return InitWorkspaceResult{
		OutputRoot:        outputRoot,
		ConfigPath:        configPath,
		CreatedOutputRoot: createdOutputRoot,
		CreatedConfig:     createdConfig,
		DoctorResult:      doc,
	}, nil
}

func dependencyMessage(ok bool, path, name string) string {
	if ok {
		return name + " found at " + path
	}
	return name + " not found on PATH"
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := store.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "yt-transcript-harvester-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
