package subtitles

import (
	"math"
	"strings"
	"testing"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

func TestGenerate_ShortSentences(t *testing.T) {
	lines := Generate("Hello world. Nice to meet you!", 10, Options{})

	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Text != "Hello world." {
		t.Errorf("line 0 = %q", lines[0].Text)
	}
	if lines[1].Text != "Nice to meet you!" {
		t.Errorf("line 1 = %q", lines[1].Text)
	}

	// Two words at 0.4s/word is below the 1s minimum display time.
	if got := lines[0].End - lines[0].Start; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("line 0 display = %v, want clamped 1.0", got)
	}
	// Sentence slots are duration/2 = 5s apart.
	if lines[1].Start != 5 {
		t.Errorf("line 1 start = %v, want 5", lines[1].Start)
	}
}

func TestGenerate_ChunksLongSentence(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = "word"
	}
	transcript := strings.Join(words, " ") + "."

	lines := Generate(transcript, 12, Options{MaxWordsPerLine: 8})

	// 20 words at 8 per line -> 3 chunks.
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if got := len(strings.Fields(lines[0].Text)); got != 8 {
		t.Errorf("chunk 0 words = %d, want 8", got)
	}
	if got := len(strings.Fields(lines[2].Text)); got != 4 {
		t.Errorf("chunk 2 words = %d, want 4", got)
	}
	// Chunks share the sentence slot equally: 12/3 = 4s apiece.
	for i, line := range lines {
		wantStart := float64(i) * 4
		if math.Abs(line.Start-wantStart) > 1e-9 {
			t.Errorf("chunk %d start = %v, want %v", i, line.Start, wantStart)
		}
	}
}

func TestGenerate_CapsAtMaxDisplayAndDuration(t *testing.T) {
	lines := Generate("One two three four five six seven eight nine ten eleven twelve.", 100, Options{MaxWordsPerLine: 20, MaxDisplayTime: 3})
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	// 12 words * 0.4 = 4.8s, capped at MaxDisplayTime 3.
	if got := lines[0].End - lines[0].Start; math.Abs(got-3) > 1e-9 {
		t.Errorf("display = %v, want capped 3", got)
	}

	lines = Generate("Ending late.", 0.5, Options{})
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0].End > 0.5 {
		t.Errorf("end = %v, want capped at duration 0.5", lines[0].End)
	}
}

func TestGenerate_EmptyInputs(t *testing.T) {
	if got := Generate("", 10, Options{}); got != nil {
		t.Errorf("Generate(empty) = %v, want nil", got)
	}
	if got := Generate("Hi there.", 0, Options{}); got != nil {
		t.Errorf("Generate(zero duration) = %v, want nil", got)
	}
}

func TestFormatSRT(t *testing.T) {
	lines := []Line{
		{Text: "First line", Start: 0, End: 2.5},
		{Text: "Second line", Start: 61.25, End: 65},
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,500\n" +
		"First line\n\n" +
		"2\n" +
		"00:01:01,250 --> 00:01:05,000\n" +
		"Second line\n\n"

	if got := FormatSRT(lines); got != want {
		t.Errorf("FormatSRT() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatVTT(t *testing.T) {
	lines := []Line{
		{Text: "Hello", Start: 3600, End: 3601.001},
	}

	want := "WEBVTT\n\n" +
		"01:00:00.000 --> 01:00:01.001\n" +
		"Hello\n\n"

	if got := FormatVTT(lines); got != want {
		t.Errorf("FormatVTT() =\n%q\nwant\n%q", got, want)
	}
}

func TestToTimeline(t *testing.T) {
	lines := []Line{
		{Text: "One", Start: 0, End: 2},
		{Text: "Two", Start: 2, End: 4},
		{Text: "Degenerate", Start: 4, End: 4},
	}

	track, clips := ToTimeline(lines)

	if track.Type != timeline.TrackTypeMix {
		t.Errorf("track type = %s, want mix", track.Type)
	}
	if len(clips) != 2 {
		t.Fatalf("clips = %d, want 2 (zero-length line dropped)", len(clips))
	}
	for i, c := range clips {
		if c.Type != timeline.ClipTypeText {
			t.Errorf("clip %d type = %s, want text", i, c.Type)
		}
		if c.TrackID != track.ID {
			t.Errorf("clip %d trackID = %s, want %s", i, c.TrackID, track.ID)
		}
		if c.Metadata.Subtitle == nil || c.Metadata.Subtitle.Text != c.Title {
			t.Errorf("clip %d subtitle metadata = %+v", i, c.Metadata.Subtitle)
		}
	}
}

func TestFromClips_RoundTripsAndSorts(t *testing.T) {
	lines := []Line{
		{Text: "One", Start: 0, End: 2},
		{Text: "Two", Start: 2, End: 4},
	}
	clips := OnTrack(lines, "mix-track")

	// Shuffle in a non-text clip and reverse the order.
	clips = []timeline.Clip{
		clips[1],
		{ID: timeline.NewID(), Type: timeline.ClipTypeVideo, Start: 0, Duration: 4},
		clips[0],
	}

	got := FromClips(clips)
	if len(got) != 2 {
		t.Fatalf("lines = %d, want 2", len(got))
	}
	for i := range lines {
		if got[i] != lines[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], lines[i])
		}
	}
}
