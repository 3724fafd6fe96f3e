package harvest

import (
	"strings"
	"testing"

	"yt-transcript-harvester/internal/model"
)

func TestPlanVideoFiles_LayoutsHeadersAndBody(t *testing.T) {
	ref := model.VideoRef{ID: "abc123", Title: `My Video: "Part 1"`}

	files := planVideoFiles("out", ref, "the transcript body")

	if !strings.HasSuffix(files.IndividualPath, `My Video Part 1 [abc123].txt`) {
		t.Fatalf("unexpected individual path: %s", files.IndividualPath)
	}
	if !strings.HasPrefix(files.IndividualContent, "Title: My Video: \"Part 1\"\n") {
		t.Fatalf("individual header must carry the raw title:\n%s", files.IndividualContent)
	}
	if !strings.HasSuffix(files.IndividualContent, "\n\nthe transcript body") {
		t.Fatalf("individual file must end with the transcript body:\n%s", files.IndividualContent)
	}
	for _, want := range []string{"TITLE: ", "VIDEO ID: abc123", "URL: https://www.youtube.com/watch?v=abc123"} {
		if !strings.Contains(files.ArchiveSection, want) {
			t.Fatalf("archive section missing %q:\n%s", want, files.ArchiveSection)
		}
	}
}

func TestBuildManifest_PartitionsByStatus(t *testing.T) {
	refs := []model.VideoRef{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}
	s := newRunState("https://example.com/@c/videos", "c", "run-1", refs)
	for i := range s.videos {
		if err := model.TransitionVideoStatus(&s.videos[i], model.StatusFetching); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.recordWritten(0, 10); err != nil {
		t.Fatal(err)
	}
	if err := s.recordSkipped(1); err != nil {
		t.Fatal(err)
	}

	mf := buildManifest(s)
	if mf.TotalVideos != 2 || mf.TranscriptsDownloaded != 1 || mf.TranscriptsFailed != 1 {
		t.Fatalf("unexpected manifest totals: %+v", mf)
	}
	if !mf.Videos[0].HasTranscript || mf.Videos[1].HasTranscript {
		t.Fatalf("has_transcript flags wrong: %+v", mf.Videos)
	}
	if s.transcriptBytes != 10 {
		t.Fatalf("expected 10 transcript bytes, got %d", s.transcriptBytes)
	}
}
