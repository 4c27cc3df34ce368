// Package scenes seeds a timeline from an upstream script: an ordered
// scene list becomes the initial clip set on a fresh document.
package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// Scene is one entry of the upstream script breakdown.
type Scene struct {
	SceneID       string  `json:"scene_id" yaml:"scene_id"`
	StartTime     float64 `json:"start_time" yaml:"start_time"`
	Duration      float64 `json:"duration" yaml:"duration"`
	Prompt        string  `json:"prompt" yaml:"prompt"`
	LyricsSegment string  `json:"lyrics_segment,omitempty" yaml:"lyrics_segment,omitempty"`
}

// Options controls how a script is converted.
type Options struct {
	// AudioURL, when set, adds one audio clip spanning the full script.
	AudioURL string
	// ClipColor tags the seeded clips. Defaults to a neutral slate.
	ClipColor string
}

const defaultClipColor = "#3498db"

// Import converts an ordered scene list into a new document: one image
// clip per scene on the video track, carrying the scene prompt and lyrics
// so downstream generation can fill in media. Scenes are sorted by start
// time; a scene with a non-positive duration is rejected.
func Import(scenes []Scene, opts Options) (timeline.Document, error) {
	doc := timeline.NewDocument()
	if len(scenes) == 0 {
		return doc, nil
	}

	color := opts.ClipColor
	if color == "" {
		color = defaultClipColor
	}

	ordered := make([]Scene, len(scenes))
	copy(ordered, scenes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime < ordered[j].StartTime
	})

	var videoTrack, audioTrack string
	for _, t := range doc.Tracks {
		switch t.Type {
		case timeline.TrackTypeVideo:
			videoTrack = t.ID
		case timeline.TrackTypeAudio:
			audioTrack = t.ID
		}
	}

	end := 0.0
	for i, s := range ordered {
		if s.Duration <= 0 {
			return timeline.Document{}, fmt.Errorf("scene %q: duration must be positive", s.SceneID)
		}
		if s.StartTime < 0 {
			return timeline.Document{}, fmt.Errorf("scene %q: start time must not be negative", s.SceneID)
		}
		doc.Clips = append(doc.Clips, timeline.Clip{
			ID:       timeline.NewID(),
			Title:    sceneTitle(s, i),
			Type:     timeline.ClipTypeImage,
			Start:    s.StartTime,
			Duration: s.Duration,
			TrackID:  videoTrack,
			Color:    color,
			Metadata: timeline.Metadata{
				Prompt: s.Prompt,
				Lyrics: s.LyricsSegment,
				Scene:  &timeline.SceneMeta{SceneID: s.SceneID, Index: i},
			},
		})
		if e := s.StartTime + s.Duration; e > end {
			end = e
		}
	}

	if opts.AudioURL != "" {
		doc.Clips = append(doc.Clips, timeline.Clip{
			ID:       timeline.NewID(),
			Title:    "Soundtrack",
			Type:     timeline.ClipTypeAudio,
			Start:    0,
			Duration: end,
			TrackID:  audioTrack,
			URL:      opts.AudioURL,
		})
	}

	if err := doc.Validate(); err != nil {
		return timeline.Document{}, fmt.Errorf("imported document invalid: %w", err)
	}
	return doc, nil
}

func sceneTitle(s Scene, index int) string {
	if t := strings.TrimSpace(s.LyricsSegment); t != "" {
		if len(t) > 40 {
			t = t[:40]
		}
		return t
	}
	return fmt.Sprintf("Scene %d", index+1)
}
