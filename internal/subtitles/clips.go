package subtitles

import (
	"sort"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// SubtitleTrackName labels the dedicated caption track.
const SubtitleTrackName = "Subtitles"

// ToTimeline materializes caption lines as text clips on a new dedicated
// mix track. The returned clips all reference the returned track.
func ToTimeline(lines []Line) (timeline.Track, []timeline.Clip) {
	track := timeline.Track{
		ID:      timeline.NewID(),
		Name:    SubtitleTrackName,
		Type:    timeline.TrackTypeMix,
		Visible: true,
	}
	return track, OnTrack(lines, track.ID)
}

// OnTrack materializes caption lines as text clips on an existing track.
// Lines with a non-positive duration are dropped.
func OnTrack(lines []Line, trackID string) []timeline.Clip {
	clips := make([]timeline.Clip, 0, len(lines))
	for _, line := range lines {
		duration := line.End - line.Start
		if duration <= 0 {
			continue
		}
		clips = append(clips, timeline.Clip{
			ID:       timeline.NewID(),
			Title:    line.Text,
			Type:     timeline.ClipTypeText,
			Start:    line.Start,
			Duration: duration,
			TrackID:  trackID,
			Color:    "#9b59b6",
			Metadata: timeline.Metadata{
				Subtitle: &timeline.SubtitleMeta{Text: line.Text},
			},
		})
	}
	return clips
}

// FromClips recovers caption lines from the text clips of a timeline,
// ordered by start time.
func FromClips(clips []timeline.Clip) []Line {
	lines := make([]Line, 0)
	for _, c := range clips {
		if c.Type != timeline.ClipTypeText {
			continue
		}
		text := c.Title
		if c.Metadata.Subtitle != nil {
			text = c.Metadata.Subtitle.Text
		}
		lines = append(lines, Line{Text: text, Start: c.Start, End: c.Start + c.Duration})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Start < lines[j].Start })
	return lines
}
