package model

// VideoRef identifies one video as reported by channel enumeration.
// The ID is stable and unique within a channel; the title is display
// text and not guaranteed to be filesystem-safe.
type VideoRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WatchURL is the canonical page URL for the video.
func (v VideoRef) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// VideoEntry is the per-video record persisted in the run manifest.
type VideoEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	HasTranscript bool   `json:"has_transcript"`
}

// RunManifest is the machine-readable record of one harvest run,
// written once to <output_dir>/_manifest.json at run end.
type RunManifest struct {
	ChannelURL            string       `json:"channel_url"`
	ChannelName           string       `json:"channel_name,omitempty"`
	RunID                 string       `json:"run_id"`
	DownloadDate          string       `json:"download_date"`
	TotalVideos           int          `json:"total_videos"`
	TranscriptsDownloaded int          `json:"transcripts_downloaded"`
	TranscriptsFailed     int          `json:"transcripts_failed"`
	Videos                []VideoEntry `json:"videos"`
}
