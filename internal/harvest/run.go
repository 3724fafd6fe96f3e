// Package harvest drives the per-channel transcript batch: enumerate all
// videos, fetch and normalize the caption track for each, and persist
// per-video files, a combined archive, and a run manifest.
package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"yt-transcript-harvester/internal/model"
	"yt-transcript-harvester/internal/store"
	"yt-transcript-harvester/internal/vtt"
	"yt-transcript-harvester/internal/ytdlp"
)

const (
	DefaultOutputDir    = "transcripts"
	DefaultCombinedFile = "all_transcripts.txt"
	DefaultSubLang      = "en"
	DefaultPauseEvery   = 10
	DefaultPause        = 2 * time.Second

	ManifestFileName = "_manifest.json"

	scratchDirName = ".tmp"
)

// Extractor is the narrow capability the orchestrator needs from the
// external media tool; tests substitute canned outputs without spawning
// any subprocess.
type Extractor interface {
	ListChannel(ctx context.Context, channelURL string) ([]model.VideoRef, error)
	FetchCaption(ctx context.Context, videoID, lang, scratchDir string) (raw string, found bool)
}

type RunOptions struct {
	ChannelURL   string
	ChannelName  string
	OutputDir    string
	CombinedFile string
	SubLang      string
	PauseEvery   int
	Pause        time.Duration
	Quiet        bool
	Extractor    Extractor
}

type RunResult struct {
	RunID                 string           `json:"run_id"`
	ChannelURL            string           `json:"channel_url"`
	ChannelName           string           `json:"channel_name,omitempty"`
	OutputDir             string           `json:"output_dir"`
	CombinedFile          string           `json:"combined_file"`
	ManifestPath          string           `json:"manifest_path"`
	TotalVideos           int              `json:"total_videos"`
	TranscriptsDownloaded int              `json:"transcripts_downloaded"`
	TranscriptsFailed     int              `json:"transcripts_failed"`
	TranscriptBytes       int64            `json:"transcript_bytes"`
	FailedVideos          []model.VideoRef `json:"failed_videos,omitempty"`
}

// Run executes one harvest over a channel, strictly sequentially: each
// video is fully fetched, normalized, and persisted before the next one
// starts. Enumeration failure is the only fatal outcome; it happens
// before any output directory or file is created.
func Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	channelURL := strings.TrimSpace(opts.ChannelURL)
	if channelURL == "" {
		return RunResult{}, fmt.Errorf("channel URL is required")
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	combinedFile := strings.TrimSpace(opts.CombinedFile)
	if combinedFile == "" {
		combinedFile = DefaultCombinedFile
	}
	subLang := strings.TrimSpace(opts.SubLang)
	if subLang == "" {
		subLang = DefaultSubLang
	}
	pauseEvery := opts.PauseEvery
	if pauseEvery <= 0 {
		pauseEvery = DefaultPauseEvery
	}
	pause := opts.Pause
	if pause <= 0 {
		pause = DefaultPause
	}
	channelName := strings.TrimSpace(opts.ChannelName)
	if channelName == "" {
		channelName = deriveChannelName(channelURL)
	}

	extractor := opts.Extractor
	if extractor == nil {
		if err := ytdlp.CheckDependencies(); err != nil {
			return RunResult{}, err
		}
		extractor = ytdlp.Client{}
	}

	if !opts.Quiet {
		fmt.Printf("Fetching video list from: %s\n", channelURL)
		fmt.Println("This may take a moment for large channels...")
	}

	videos, err := extractor.ListChannel(ctx, channelURL)
	if err != nil {
		return RunResult{}, err
	}

	if !opts.Quiet {
		fmt.Printf("Found %d videos. Starting transcript downloads...\n\n", len(videos))
	}

	if err := store.Mkdir(outputDir); err != nil {
		return RunResult{}, err
	}
	lock, err := store.AcquireHarvestLock(outputDir)
	if err != nil {
		return RunResult{}, err
	}
	defer func() {
		_ = lock.Release()
	}()

	scratchDir := filepath.Join(outputDir, scratchDirName)
	if err := store.Mkdir(scratchDir); err != nil {
		return RunResult{}, err
	}

	state := newRunState(channelURL, channelName, uuid.New().String(), videos)

	combined, err := os.Create(combinedFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("create combined file %s: %w", combinedFile, err)
	}
	defer combined.Close()

	headerName := channelName
	if headerName == "" {
		headerName = "Channel"
	}
	if _, err := combined.WriteString(archiveHeader(headerName, len(videos), state.startedAt, channelURL)); err != nil {
		return RunResult{}, fmt.Errorf("write combined header: %w", err)
	}

	for i := range state.videos {
		ref := state.videos[i].Ref
		if !opts.Quiet {
			fmt.Printf("[%d/%d] Processing: %s\n", i+1, len(videos), ref.Title)
		}
		if err := model.TransitionVideoStatus(&state.videos[i], model.StatusFetching); err != nil {
			return RunResult{}, err
		}

		transcript := ""
		if raw, found := extractor.FetchCaption(ctx, ref.ID, subLang, scratchDir); found {
			transcript = vtt.Normalize(raw)
		}

		if transcript != "" {
			files := planVideoFiles(outputDir, ref, transcript)
			if err := store.WriteBytes(files.IndividualPath, []byte(files.IndividualContent)); err != nil {
				return RunResult{}, err
			}
			if _, err := combined.WriteString(files.ArchiveSection); err != nil {
				return RunResult{}, fmt.Errorf("append combined section for %s: %w", ref.ID, err)
			}
			if err := state.recordWritten(i, len(transcript)); err != nil {
				return RunResult{}, err
			}
			if !opts.Quiet {
				fmt.Printf("  -> saved transcript (%d chars)\n", len(transcript))
			}
		} else {
			if err := state.recordSkipped(i); err != nil {
				return RunResult{}, err
			}
			if !opts.Quiet {
				fmt.Println("  -> no transcript available")
			}
		}

		// Brief pause to reduce the chance of remote rate limiting.
		if (i+1)%pauseEvery == 0 && i+1 < len(videos) {
			time.Sleep(pause)
		}
	}

	if err := combined.Close(); err != nil {
		return RunResult{}, fmt.Errorf("close combined file %s: %w", combinedFile, err)
	}

	// The scratch dir should be empty by now; a leftover file from a
	// failed removal keeps it non-empty, which is non-fatal.
	_ = os.Remove(scratchDir)

	manifestPath := filepath.Join(outputDir, ManifestFileName)
	if err := store.WriteJSON(manifestPath, buildManifest(state)); err != nil {
		return RunResult{}, err
	}

	return RunResult{
		RunID:                 state.runID,
		ChannelURL:            channelURL,
		ChannelName:           channelName,
		OutputDir:             outputDir,
		CombinedFile:          combinedFile,
		ManifestPath:          manifestPath,
		TotalVideos:           len(videos),
		TranscriptsDownloaded: state.downloaded,
		TranscriptsFailed:     state.failed,
		TranscriptBytes:       state.transcriptBytes,
		FailedVideos:          state.failedVideos,
	}, nil
}

// deriveChannelName extracts the @handle from a channel URL, or "" when
// the URL carries none.
func deriveChannelName(channelURL string) string {
	i := strings.LastIndex(channelURL, "@")
	if i < 0 {
		return ""
	}
	rest := channelURL[i+1:]
	if j := strings.Index(rest, "/"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}
