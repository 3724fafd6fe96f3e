package harvest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"yt-transcript-harvester/internal/model"
)

const sectionRule = "================================================================================"

// runState is the single owner of all per-run counters and accumulators.
// It is mutated only by the orchestrator loop; the manifest is a pure
// function of the final state.
type runState struct {
	channelURL  string
	channelName string
	runID       string
	startedAt   time.Time

	videos          []model.VideoState
	downloaded      int
	failed          int
	failedVideos    []model.VideoRef
	transcriptBytes int64
}

func newRunState(channelURL, channelName, runID string, refs []model.VideoRef) *runState {
	videos := make([]model.VideoState, 0, len(refs))
	for _, ref := range refs {
		videos = append(videos, model.VideoState{Ref: ref, Status: model.StatusPending})
	}
	return &runState{
		channelURL:  channelURL,
		channelName: channelName,
		runID:       runID,
		startedAt:   time.Now().UTC(),
		videos:      videos,
	}
}

func (s *runState) recordWritten(i int, transcriptLen int) error {
	if err := model.TransitionVideoStatus(&s.videos[i], model.StatusWritten); err != nil {
		return err
	}
	s.downloaded++
	s.transcriptBytes += int64(transcriptLen)
	return nil
}

func (s *runState) recordSkipped(i int) error {
	if err := model.TransitionVideoStatus(&s.videos[i], model.StatusSkipped); err != nil {
		return err
	}
	s.failed++
	s.failedVideos = append(s.failedVideos, s.videos[i].Ref)
	return nil
}

func buildManifest(s *runState) model.RunManifest {
	entries := make([]model.VideoEntry, 0, len(s.videos))
	for _, v := range s.videos {
		entries = append(entries, model.VideoEntry{
			ID:            v.Ref.ID,
			Title:         v.Ref.Title,
			HasTranscript: v.Status == model.StatusWritten,
		})
	}
	return model.RunManifest{
		ChannelURL:            s.channelURL,
		ChannelName:           s.channelName,
		RunID:                 s.runID,
		DownloadDate:          s.startedAt.Format(time.RFC3339),
		TotalVideos:           len(s.videos),
		TranscriptsDownloaded: s.downloaded,
		TranscriptsFailed:     s.failed,
		Videos:                entries,
	}
}

// videoFiles holds the write instructions for one successfully transcribed
// video; producing them is pure so the layout is testable without I/O.
type videoFiles struct {
	IndividualPath    string
	IndividualContent string
	ArchiveSection    string
}

func planVideoFiles(outputDir string, ref model.VideoRef, transcript string) videoFiles {
	name := fmt.Sprintf("%s [%s].txt", SanitizeTitle(ref.Title), ref.ID)

	var individual strings.Builder
	fmt.Fprintf(&individual, "Title: %s\n", ref.Title)
	fmt.Fprintf(&individual, "Video ID: %s\n", ref.ID)
	fmt.Fprintf(&individual, "URL: %s\n", ref.WatchURL())
	individual.WriteString(sectionRule + "\n\n")
	individual.WriteString(transcript)

	// Header fields are repeated per section so each section stands alone
	// when grepping the combined archive.
	var section strings.Builder
	section.WriteString("\n\n" + sectionRule + "\n")
	fmt.Fprintf(&section, "TITLE: %s\n", ref.Title)
	fmt.Fprintf(&section, "VIDEO ID: %s\n", ref.ID)
	fmt.Fprintf(&section, "URL: %s\n", ref.WatchURL())
	section.WriteString(sectionRule + "\n\n")
	section.WriteString(transcript)

	return videoFiles{
		IndividualPath:    filepath.Join(outputDir, name),
		IndividualContent: individual.String(),
		ArchiveSection:    section.String(),
	}
}

func archiveHeader(channelName string, total int, startedAt time.Time, channelURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Complete YouTube Channel Transcripts\n", channelName)
	fmt.Fprintf(&b, "# Total videos found: %d\n", total)
	fmt.Fprintf(&b, "# Downloaded: %s\n", startedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "# Source: %s\n\n", channelURL)
	return b.String()
}
