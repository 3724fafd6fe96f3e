// Package channels manages the named channel registry: per-channel harvest
// configuration plus global defaults, persisted as one JSON file.
package channels

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"yt-transcript-harvester/internal/store"
)

const (
	DefaultConfigPath    = "config/channels.json"
	channelSchemaVersion = 1
)

var (
	ErrNoChannelsConfigured  = errors.New("no channels configured")
	ErrChannelSelectRequired = errors.New("channel selection required")
)

type Channel struct {
	Name         string `json:"name"`
	SourceURL    string `json:"source_url"`
	Active       *bool  `json:"active,omitempty"`
	ChannelName  string `json:"channel_name,omitempty"`
	OutputDir    string `json:"output_dir,omitempty"`
	CombinedFile string `json:"combined_file,omitempty"`
	SubLang      string `json:"sub_lang,omitempty"`
}

type Registry struct {
	SchemaVersion int            `json:"schema_version"`
	UpdatedAt     string         `json:"updated_at"`
	Global        GlobalSettings `json:"global,omitempty"`
	Channels      []Channel      `json:"channels"`
}

type AddChannelOptions struct {
	ConfigPath          string
	Name                string
	SourceURL           string
	ChannelName         string
	OutputDir           string
	CombinedFile        string
	SubLang             string
	Active              *bool
	ReplaceIfNameExists bool
}

type AddChannelResult struct {
	Channel Channel
	Created bool
}

type RemoveChannelOptions struct {
	ConfigPath string
	Name       string
}

type RemoveChannelResult struct {
	Channel Channel
	Removed bool
}

type ListChannelsResult struct {
	ConfigPath string
	Channels   []Channel
}

func normalizeConfigPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultConfigPath
	}
	return p
}

func EnsureRegistry(configPath string) (Registry, bool, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Registry{}, false, err
	}

	reg = Registry{
		SchemaVersion: channelSchemaVersion,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Global:        defaultGlobalSettings(),
		Channels:      []Channel{},
	}
	if err := saveRegistry(path, reg); err != nil {
		return Registry{}, false, err
	}
	return reg, true, nil
}

func AddChannel(opts AddChannelOptions) (AddChannelResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return AddChannelResult{}, err
	}

	sourceURL := strings.TrimSpace(opts.SourceURL)
	if sourceURL == "" {
		return AddChannelResult{}, fmt.Errorf("source URL is required")
	}
	canonicalSource := normalizeSourceURL(sourceURL)
	for _, c := range reg.Channels {
		if normalizeSourceURL(c.SourceURL) == canonicalSource && !strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(opts.Name)) {
			return AddChannelResult{}, fmt.Errorf("source already tracked by channel %q", c.Name)
		}
	}

	name := canonicalChannelKey(opts.Name)
	if name == "" {
		name = suggestChannelKey(sourceURL)
	}
	if name == "" {
		return AddChannelResult{}, fmt.Errorf("channel name is required")
	}

	channel := Channel{
		Name:         name,
		SourceURL:    sourceURL,
		Active:       opts.Active,
		ChannelName:  strings.TrimSpace(opts.ChannelName),
		OutputDir:    strings.TrimSpace(opts.OutputDir),
		CombinedFile: strings.TrimSpace(opts.CombinedFile),
		SubLang:      strings.TrimSpace(opts.SubLang),
	}
	if channel.Active == nil {
		channel.Active = boolPtr(true)
	}

	created := true
	replaced := false
	for i := range reg.Channels {
		if strings.EqualFold(reg.Channels[i].Name, name) {
			if !opts.ReplaceIfNameExists {
				return AddChannelResult{}, fmt.Errorf("channel %q already exists (use --replace)", name)
			}
			reg.Channels[i] = channel
			created = false
			replaced = true
			break
		}
	}
	if !replaced {
		reg.Channels = append(reg.Channels, channel)
	}

	sort.Slice(reg.Channels, func(i, j int) bool {
		return reg.Channels[i].Name < reg.Channels[j].Name
	})
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return AddChannelResult{}, err
	}

	return AddChannelResult{Channel: channel, Created: created}, nil
}

func RemoveChannel(opts RemoveChannelOptions) (RemoveChannelResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return RemoveChannelResult{}, err
	}

	name := canonicalChannelKey(opts.Name)
	if name == "" {
		return RemoveChannelResult{}, fmt.Errorf("channel name is required")
	}

	for i := range reg.Channels {
		if strings.EqualFold(reg.Channels[i].Name, name) {
			removed := reg.Channels[i]
			reg.Channels = append(reg.Channels[:i], reg.Channels[i+1:]...)
			reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			if err := saveRegistry(configPath, reg); err != nil {
				return RemoveChannelResult{}, err
			}
			return RemoveChannelResult{Channel: removed, Removed: true}, nil
		}
	}

	return RemoveChannelResult{}, fmt.Errorf("channel %q not found", name)
}

func ListChannels(configPath string) (ListChannelsResult, error) {
	path := normalizeConfigPath(configPath)
	reg, _, err := EnsureRegistry(path)
	if err != nil {
		return ListChannelsResult{}, err
	}

	chans := append([]Channel(nil), reg.Channels...)
	sort.Slice(chans, func(i, j int) bool {
		return chans[i].Name < chans[j].Name
	})
	return ListChannelsResult{ConfigPath: path, Channels: chans}, nil
}

func FindChannel(configPath, name string) (Channel, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return Channel{}, err
	}
	target := canonicalChannelKey(name)
	if target == "" {
		return Channel{}, fmt.Errorf("channel name is required")
	}
	for _, c := range reg.Channels {
		if strings.EqualFold(c.Name, target) {
			return c, nil
		}
	}
	return Channel{}, fmt.Errorf("channel %q not found", target)
}

// ResolveSelection returns the configured channels matched by a
// comma-separated name list, or all (optionally active-only) channels.
func ResolveSelection(configPath, names string, all, activeOnly bool) ([]Channel, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return nil, err
	}
	if len(reg.Channels) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChannelsConfigured, normalizeConfigPath(configPath))
	}

	if all {
		selected := make([]Channel, 0, len(reg.Channels))
		for _, c := range reg.Channels {
			if activeOnly && !IsActive(c) {
				continue
			}
			selected = append(selected, c)
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("no active channels selected")
		}
		sort.Slice(selected, func(i, j int) bool {
			return selected[i].Name < selected[j].Name
		})
		return selected, nil
	}

	wanted := splitAndClean(names)
	if len(wanted) == 0 {
		return nil, fmt.Errorf("%w (--channel <name> or --all-channels)", ErrChannelSelectRequired)
	}

	index := make(map[string]Channel, len(reg.Channels))
	for _, c := range reg.Channels {
		index[strings.ToLower(c.Name)] = c
	}
	selected := make([]Channel, 0, len(wanted))
	seen := make(map[string]bool)
	for _, n := range wanted {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		c, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("channel %q not found", n)
		}
		if activeOnly && !IsActive(c) {
			continue
		}
		selected = append(selected, c)
		seen[key] = true
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no active channels selected")
	}
	return selected, nil
}

func IsActive(c Channel) bool {
	if c.Active == nil {
		return true
	}
	return *c.Active
}

func loadRegistry(path string) (Registry, error) {
	var reg Registry
	if err := store.ReadJSON(path, &reg); err != nil {
		return Registry{}, err
	}
	if reg.SchemaVersion == 0 {
		reg.SchemaVersion = channelSchemaVersion
	}
	reg.Global = normalizeGlobalSettings(reg.Global)
	if reg.Channels == nil {
		reg.Channels = []Channel{}
	}
	normalized := make([]Channel, 0, len(reg.Channels))
	for _, c := range reg.Channels {
		c.Name = canonicalChannelKey(c.Name)
		c.SourceURL = strings.TrimSpace(c.SourceURL)
		c.ChannelName = strings.TrimSpace(c.ChannelName)
		c.OutputDir = strings.TrimSpace(c.OutputDir)
		c.CombinedFile = strings.TrimSpace(c.CombinedFile)
		c.SubLang = strings.TrimSpace(c.SubLang)
		if c.Name == "" || c.SourceURL == "" {
			continue
		}
		normalized = append(normalized, c)
	}
	reg.Channels = normalized
	return reg, nil
}

func saveRegistry(path string, reg Registry) error {
	return store.WriteJSON(path, reg)
}

func normalizeSourceURL(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.TrimSuffix(s, "/")
}

var invalidKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

func canonicalChannelKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return invalidKeyChars.ReplaceAllString(s, "-")
}

// suggestChannelKey derives a registry key from the @handle in the URL.
func suggestChannelKey(sourceURL string) string {
	i := strings.LastIndex(sourceURL, "@")
	if i < 0 {
		return ""
	}
	rest := sourceURL[i+1:]
	if j := strings.Index(rest, "/"); j >= 0 {
		rest = rest[:j]
	}
	return canonicalChannelKey(rest)
}

func splitAndClean(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func boolPtr(v bool) *bool {
	b := v
	return &b
}
