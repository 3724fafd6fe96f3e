package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-transcript-harvester/internal/channels"
	"yt-transcript-harvester/internal/harvest"
	"yt-transcript-harvester/internal/model"
	"yt-transcript-harvester/internal/store"
)

type statusRow struct {
	Channel      string `json:"channel"`
	SourceURL    string `json:"source_url"`
	State        string `json:"state"`
	RunID        string `json:"run_id,omitempty"`
	DownloadDate string `json:"download_date,omitempty"`
	TotalVideos  int    `json:"total_videos"`
	Downloaded   int    `json:"transcripts_downloaded"`
	Failed       int    `json:"transcripts_failed"`
	ManifestPath string `json:"manifest_path,omitempty"`
}

type statusTotals struct {
	Channels       int `json:"channels"`
	Harvested      int `json:"harvested"`
	NeverHarvested int `json:"never_harvested"`
	WithFailures   int `json:"with_failures"`
}

type statusResult struct {
	Rows   []statusRow  `json:"rows"`
	Totals statusTotals `json:"totals"`
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	channel := fs.String("channel", "", "channel name or comma-separated names")
	all := fs.Bool("all", true, "show all configured channels")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*channel) != "" {
		*all = false
	}

	configPath := strings.TrimSpace(*config)
	global, err := channels.ReadGlobalSettings(configPath)
	if err != nil {
		return err
	}
	selected, err := channels.ResolveSelection(configPath, strings.TrimSpace(*channel), *all, false)
	if err != nil {
		if errors.Is(err, channels.ErrNoChannelsConfigured) {
			fmt.Println("no channels configured")
			fmt.Println("start here:")
			fmt.Println("  yt-transcript-harvester init")
			fmt.Println("  yt-transcript-harvester add --source <url> [--name <channel>]")
			fmt.Println("then harvest:")
			fmt.Println("  yt-transcript-harvester harvest --all-channels")
			return nil
		}
		return err
	}

	res := statusResult{Totals: statusTotals{Channels: len(selected)}}
	for _, c := range selected {
		row := statusRow{Channel: c.Name, SourceURL: c.SourceURL}
		manifestPath := filepath.Join(channelOutputDir(global, c), harvest.ManifestFileName)

		var manifest model.RunManifest
		if err := store.ReadJSON(manifestPath, &manifest); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				row.State = "never_harvested"
				res.Totals.NeverHarvested++
				res.Rows = append(res.Rows, row)
				continue
			}
			return fmt.Errorf("read manifest %s: %w", manifestPath, err)
		}

		row.State = "harvested"
		row.RunID = manifest.RunID
		row.DownloadDate = manifest.DownloadDate
		row.TotalVideos = manifest.TotalVideos
		row.Downloaded = manifest.TranscriptsDownloaded
		row.Failed = manifest.TranscriptsFailed
		row.ManifestPath = manifestPath
		res.Totals.Harvested++
		if manifest.TranscriptsFailed > 0 {
			res.Totals.WithFailures++
		}
		res.Rows = append(res.Rows, row)
	}

	if *jsonOut {
		return printJSON(res)
	}

	for _, row := range res.Rows {
		fmt.Printf("%s [%s]\n", row.Channel, row.State)
		fmt.Printf("  source: %s\n", row.SourceURL)
		if row.RunID != "" {
			fmt.Printf("  run: %s (%s)\n", row.RunID, row.DownloadDate)
			fmt.Printf("  downloaded/failed/total: %d/%d/%d\n", row.Downloaded, row.Failed, row.TotalVideos)
		}
	}
	fmt.Println("totals")
	fmt.Printf("  channels: %d\n", res.Totals.Channels)
	fmt.Printf("  harvested: %d\n", res.Totals.Harvested)
	fmt.Printf("  never_harvested: %d\n", res.Totals.NeverHarvested)
	fmt.Printf("  with_failures: %d\n", res.Totals.WithFailures)
	return nil
}
