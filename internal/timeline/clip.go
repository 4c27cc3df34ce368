// Package timeline defines the editable timeline document: clips placed on
// tracks, the typed per-clip metadata, and the editor that applies mutations
// with undo/redo history.
package timeline

import (
	"crypto/rand"
	"fmt"
)

const (
	ClipTypeVideo = "video"
	ClipTypeImage = "image"
	ClipTypeAudio = "audio"
	ClipTypeText  = "text"
)

// Clip is a single placed media or text reference on the timeline.
// Start and Duration are in seconds; Start+Duration is the clip's end.
type Clip struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	TrackID  string   `json:"track_id"`
	URL      string   `json:"url,omitempty"`
	Color    string   `json:"color,omitempty"`
	Locked   bool     `json:"locked,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// End returns the clip's end time in seconds.
func (c Clip) End() float64 {
	return c.Start + c.Duration
}

// IsVisual reports whether the clip renders on a video track.
func (c Clip) IsVisual() bool {
	return c.Type == ClipTypeVideo || c.Type == ClipTypeImage
}

// Contains reports whether t falls inside [Start, End).
func (c Clip) Contains(t float64) bool {
	return t >= c.Start && t < c.End()
}

// Metadata carries the typed per-feature data attached to a clip. Absent
// features stay nil so the document serializes compactly.
type Metadata struct {
	Prompt       string        `json:"prompt,omitempty"`
	Lyrics       string        `json:"lyrics,omitempty"`
	Scene        *SceneMeta    `json:"scene,omitempty"`
	Transition   *Transition   `json:"transition,omitempty"`
	ColorGrading *ColorGrading `json:"color_grading,omitempty"`
	Subtitle     *SubtitleMeta `json:"subtitle,omitempty"`
	Effects      []string      `json:"effects,omitempty"`
}

// SceneMeta links a clip back to the upstream script scene it was seeded from.
type SceneMeta struct {
	SceneID string `json:"scene_id"`
	Index   int    `json:"index"`
}

// Transition describes the handoff from the owning clip into the next clip.
// Disabling a transition keeps Type/Duration so re-enabling restores them.
type Transition struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
	Easing   string  `json:"easing,omitempty"`
	Enabled  bool    `json:"enabled"`
}

// ColorGrading is the fixed 12-dimension adjustment vector stored per clip.
// Brightness through Shadows plus Vibrance are signed [-100,100]; Vignette,
// Grain and Sharpen are unsigned [0,100].
type ColorGrading struct {
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Saturation  float64 `json:"saturation"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Exposure    float64 `json:"exposure"`
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Vibrance    float64 `json:"vibrance"`
	Vignette    float64 `json:"vignette"`
	Grain       float64 `json:"grain"`
	Sharpen     float64 `json:"sharpen"`
}

// SubtitleMeta marks a text clip as a generated caption line.
type SubtitleMeta struct {
	Text string `json:"text"`
}

// NewID returns a random identifier for clips, tracks and transitions.
func NewID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
