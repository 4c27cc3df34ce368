package timeline

import (
	"encoding/json"
	"fmt"
)

// Document is the serializable timeline: every clip across every track.
// It is a plain value; all mutation goes through an Editor.
type Document struct {
	Clips  []Clip  `json:"clips"`
	Tracks []Track `json:"tracks"`
}

// NewDocument returns an empty document with the standard three tracks.
func NewDocument() Document {
	return Document{
		Clips: []Clip{},
		Tracks: []Track{
			{ID: NewID(), Name: "Video", Type: TrackTypeVideo, Visible: true},
			{ID: NewID(), Name: "Audio", Type: TrackTypeAudio, Visible: true},
			{ID: NewID(), Name: "Text", Type: TrackTypeMix, Visible: true},
		},
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Clips:  make([]Clip, len(d.Clips)),
		Tracks: make([]Track, len(d.Tracks)),
	}
	copy(out.Tracks, d.Tracks)
	for i, c := range d.Clips {
		out.Clips[i] = cloneClip(c)
	}
	return out
}

func cloneClip(c Clip) Clip {
	if c.Metadata.Scene != nil {
		s := *c.Metadata.Scene
		c.Metadata.Scene = &s
	}
	if c.Metadata.Transition != nil {
		t := *c.Metadata.Transition
		c.Metadata.Transition = &t
	}
	if c.Metadata.ColorGrading != nil {
		g := *c.Metadata.ColorGrading
		c.Metadata.ColorGrading = &g
	}
	if c.Metadata.Subtitle != nil {
		s := *c.Metadata.Subtitle
		c.Metadata.Subtitle = &s
	}
	if c.Metadata.Effects != nil {
		c.Metadata.Effects = append([]string(nil), c.Metadata.Effects...)
	}
	return c
}

// Duration returns the end time of the rightmost clip, or 0 for an empty
// document.
func (d Document) Duration() float64 {
	var max float64
	for _, c := range d.Clips {
		if end := c.End(); end > max {
			max = end
		}
	}
	return max
}

// Track returns the track with the given id, or nil.
func (d Document) Track(id string) *Track {
	for i := range d.Tracks {
		if d.Tracks[i].ID == id {
			return &d.Tracks[i]
		}
	}
	return nil
}

// Clip returns the clip with the given id, or nil.
func (d Document) Clip(id string) *Clip {
	for i := range d.Clips {
		if d.Clips[i].ID == id {
			return &d.Clips[i]
		}
	}
	return nil
}

// ClipsOnTrack returns the clips owned by the given track, in document order.
func (d Document) ClipsOnTrack(trackID string) []Clip {
	var out []Clip
	for _, c := range d.Clips {
		if c.TrackID == trackID {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the structural invariants: every clip references an existing
// track of a compatible type and has a positive duration. Overlap between
// clips is intentionally not an invariant.
func (d Document) Validate() error {
	for _, c := range d.Clips {
		if c.Duration <= 0 {
			return fmt.Errorf("clip %s: duration must be positive, got %v", c.ID, c.Duration)
		}
		if c.Start < 0 {
			return fmt.Errorf("clip %s: start must not be negative, got %v", c.ID, c.Start)
		}
		track := d.Track(c.TrackID)
		if track == nil {
			return fmt.Errorf("clip %s: %w: %s", c.ID, ErrTrackNotFound, c.TrackID)
		}
		if !track.Accepts(c.Type) {
			return fmt.Errorf("clip %s: %w: %s clip on %s track", c.ID, ErrTrackIncompatible, c.Type, track.Type)
		}
	}
	return nil
}

// MarshalDocument serializes the document for the external project store.
func MarshalDocument(d Document) ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument parses a stored document and validates it.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse timeline document: %w", err)
	}
	if d.Clips == nil {
		d.Clips = []Clip{}
	}
	if err := d.Validate(); err != nil {
		return Document{}, fmt.Errorf("invalid timeline document: %w", err)
	}
	return d, nil
}
