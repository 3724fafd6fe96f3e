package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"yt-transcript-harvester/internal/channels"
	"yt-transcript-harvester/internal/harvest"
	"yt-transcript-harvester/internal/model"
)

type harvestItem struct {
	Channel      string
	ChannelName  string
	SourceURL    string
	OutputDir    string
	CombinedFile string
	SubLang      string
}

type harvestReport struct {
	Channel         string           `json:"channel,omitempty"`
	SourceURL       string           `json:"source_url"`
	RunID           string           `json:"run_id,omitempty"`
	OutputDir       string           `json:"output_dir,omitempty"`
	CombinedFile    string           `json:"combined_file,omitempty"`
	ManifestPath    string           `json:"manifest_path,omitempty"`
	TotalVideos     int              `json:"total_videos"`
	Downloaded      int              `json:"transcripts_downloaded"`
	Failed          int              `json:"transcripts_failed"`
	TranscriptBytes int64            `json:"transcript_bytes"`
	FailedVideos    []model.VideoRef `json:"failed_videos,omitempty"`
	Error           string           `json:"error,omitempty"`
}

type harvestResult struct {
	Channels        int             `json:"channels"`
	TotalVideos     int             `json:"total_videos"`
	Downloaded      int             `json:"transcripts_downloaded"`
	Failed          int             `json:"transcripts_failed"`
	TranscriptBytes int64           `json:"transcript_bytes"`
	Failures        int             `json:"failures"`
	Reports         []harvestReport `json:"reports"`
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	summaryOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	summaryMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runHarvest(args []string) error {
	fs := flag.NewFlagSet("harvest", flag.ContinueOnError)
	source := fs.String("source", "", "channel URL (e.g. https://www.youtube.com/@channel/videos)")
	channel := fs.String("channel", "", "configured channel name or comma-separated names")
	allChannels := fs.Bool("all-channels", false, "harvest all configured channels")
	activeOnly := fs.Bool("active-only", false, "only harvest channels marked active")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	outputDir := fs.String("output-dir", "", "per-video transcript directory (source mode; default transcripts)")
	combinedFile := fs.String("combined-file", "", "combined archive path (source mode; default all_transcripts.txt)")
	channelName := fs.String("channel-name", "", "display name for file headers (source mode)")
	lang := fs.String("lang", "", "subtitle language preference (default en)")
	pauseEvery := fs.Int("pause-every", 0, "pause after this many videos (0 = global/default)")
	pauseSeconds := fs.Int("pause-seconds", -1, "pause duration between batches (-1 = global/default)")
	continueOnError := fs.Bool("continue-on-error", true, "continue with other channels if one fails")
	quiet := fs.Bool("quiet", false, "suppress per-video progress output")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := strings.TrimSpace(*source)
	if src == "" && fs.NArg() > 0 {
		src = strings.TrimSpace(fs.Arg(0))
	}

	global, err := channels.ReadGlobalSettings(strings.TrimSpace(*config))
	if err != nil {
		return err
	}

	items, err := collectHarvestItems(src, strings.TrimSpace(*channel), *allChannels, *activeOnly, strings.TrimSpace(*config), global)
	if err != nil {
		return err
	}

	// Source-mode overrides apply to the single ad-hoc item only.
	if src != "" {
		items[0].OutputDir = firstNonEmpty(strings.TrimSpace(*outputDir), items[0].OutputDir)
		items[0].CombinedFile = firstNonEmpty(strings.TrimSpace(*combinedFile), items[0].CombinedFile)
		items[0].ChannelName = firstNonEmpty(strings.TrimSpace(*channelName), items[0].ChannelName)
	}

	effectivePauseEvery := firstNonZero(*pauseEvery, global.PauseEvery)
	effectivePause := time.Duration(global.PauseSeconds) * time.Second
	if *pauseSeconds >= 0 {
		effectivePause = time.Duration(*pauseSeconds) * time.Second
	}

	result := harvestResult{Channels: len(items)}
	quietRun := *quiet || *jsonOut

	for idx, item := range items {
		report := harvestReport{Channel: item.Channel, SourceURL: item.SourceURL}
		if !quietRun && len(items) > 1 {
			fmt.Printf("[%d/%d] harvesting %s\n", idx+1, len(items), firstNonEmpty(item.Channel, item.SourceURL))
		}
		res, runErr := harvest.Run(context.Background(), harvest.RunOptions{
			ChannelURL:   item.SourceURL,
			ChannelName:  item.ChannelName,
			OutputDir:    item.OutputDir,
			CombinedFile: item.CombinedFile,
			SubLang:      firstNonEmpty(strings.TrimSpace(*lang), item.SubLang, global.SubLang),
			PauseEvery:   effectivePauseEvery,
			Pause:        effectivePause,
			Quiet:        quietRun,
		})
		if runErr != nil {
			result.Failures++
			report.Error = runErr.Error()
			result.Reports = append(result.Reports, report)
			fmt.Fprintf(os.Stderr, "harvest failed for %s: %v\n", item.SourceURL, runErr)
			if !*continueOnError {
				if *jsonOut {
					_ = printJSON(result)
				}
				return runErr
			}
			continue
		}

		report.RunID = res.RunID
		report.OutputDir = res.OutputDir
		report.CombinedFile = res.CombinedFile
		report.ManifestPath = res.ManifestPath
		report.TotalVideos = res.TotalVideos
		report.Downloaded = res.TranscriptsDownloaded
		report.Failed = res.TranscriptsFailed
		report.TranscriptBytes = res.TranscriptBytes
		report.FailedVideos = res.FailedVideos
		result.TotalVideos += res.TotalVideos
		result.Downloaded += res.TranscriptsDownloaded
		result.Failed += res.TranscriptsFailed
		result.TranscriptBytes += res.TranscriptBytes
		result.Reports = append(result.Reports, report)
	}

	if *jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printHarvestSummary(result)
	}

	if result.Failures > 0 {
		return fmt.Errorf("harvest finished with %d channel failure(s)", result.Failures)
	}
	return nil
}

func printHarvestSummary(result harvestResult) {
	fmt.Println()
	fmt.Println(summaryTitleStyle.Render("Download complete!"))
	fmt.Printf("channels: %d\n", result.Channels)
	fmt.Printf("total_videos: %d\n", result.TotalVideos)
	fmt.Println(summaryOKStyle.Render(fmt.Sprintf("transcripts_downloaded: %d", result.Downloaded)))
	failedLine := fmt.Sprintf("transcripts_failed: %d", result.Failed)
	if result.Failed > 0 {
		fmt.Println(summaryWarnStyle.Render(failedLine))
	} else {
		fmt.Println(failedLine)
	}
	if result.TranscriptBytes > 0 {
		fmt.Printf("transcript_size: %s\n", formatBytesIEC(result.TranscriptBytes))
	}
	for _, r := range result.Reports {
		if r.Error != "" {
			fmt.Println(summaryWarnStyle.Render(fmt.Sprintf("failed channel %s: %s", firstNonEmpty(r.Channel, r.SourceURL), r.Error)))
			continue
		}
		fmt.Printf("combined: %s\n", r.CombinedFile)
		fmt.Printf("manifest: %s\n", r.ManifestPath)
		if len(r.FailedVideos) > 0 {
			fmt.Println(summaryMutedStyle.Render("videos without transcripts:"))
			for _, v := range r.FailedVideos {
				fmt.Println(summaryMutedStyle.Render("  - " + v.Title + " (" + v.ID + ")"))
			}
		}
	}
}

func collectHarvestItems(singleSource, channelNames string, allChannels, activeOnly bool, configPath string, global channels.GlobalSettings) ([]harvestItem, error) {
	hasSourceInput := singleSource != ""
	hasChannelInput := channelNames != "" || allChannels
	if hasSourceInput && hasChannelInput {
		return nil, errors.New("harvest source mode and channel mode are mutually exclusive")
	}
	if activeOnly && !hasChannelInput {
		return nil, errors.New("--active-only requires --channel or --all-channels")
	}

	if hasSourceInput {
		return []harvestItem{{SourceURL: singleSource}}, nil
	}
	if !hasChannelInput {
		return nil, errors.New("harvest requires a channel URL, --channel, or --all-channels")
	}

	selected, err := channels.ResolveSelection(configPath, channelNames, allChannels, activeOnly)
	if err != nil {
		return nil, err
	}
	items := make([]harvestItem, 0, len(selected))
	for _, c := range selected {
		items = append(items, harvestItem{
			Channel:      c.Name,
			ChannelName:  c.ChannelName,
			SourceURL:    c.SourceURL,
			OutputDir:    channelOutputDir(global, c),
			CombinedFile: channelCombinedFile(global, c),
			SubLang:      c.SubLang,
		})
	}
	return items, nil
}

// channelOutputDir places each configured channel under the global output
// root unless the channel carries an explicit override.
func channelOutputDir(global channels.GlobalSettings, c channels.Channel) string {
	if strings.TrimSpace(c.OutputDir) != "" {
		return c.OutputDir
	}
	return filepath.Join(global.OutputRoot, c.Name)
}

func channelCombinedFile(global channels.GlobalSettings, c channels.Channel) string {
	if strings.TrimSpace(c.CombinedFile) != "" {
		return c.CombinedFile
	}
	return filepath.Join(channelOutputDir(global, c), harvest.DefaultCombinedFile)
}
