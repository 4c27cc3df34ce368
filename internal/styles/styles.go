// Package styles rewrites clip pacing and metadata according to named visual
// style templates. The template library ships embedded as YAML.
package styles

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
	"github.com/reelbeat/reelbeat-engine/internal/transitions"
)

//go:embed templates.yaml
var templatesYAML []byte

// DurationRange bounds clip durations for a style.
type DurationRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Midpoint returns the center of the range.
func (r DurationRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Template is one named visual style: pacing bounds plus the transition,
// grading and effect defaults applied in bulk.
type Template struct {
	Name         string                `yaml:"name" json:"name"`
	Description  string                `yaml:"description" json:"description"`
	ClipDuration DurationRange         `yaml:"clip_duration" json:"clip_duration"`
	Transitions  []string              `yaml:"transitions" json:"transitions"`
	Grading      timeline.ColorGrading `yaml:"grading" json:"grading"`
	Effects      []string              `yaml:"effects" json:"effects"`
}

type library struct {
	Templates []Template `yaml:"templates"`
}

var templates = mustLoadLibrary()

func mustLoadLibrary() []Template {
	var lib library
	if err := yaml.Unmarshal(templatesYAML, &lib); err != nil {
		panic(fmt.Sprintf("styles: embedded template library is invalid: %v", err))
	}
	return lib.Templates
}

// Templates returns the built-in template library.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByName returns the named template, or nil when unknown.
func TemplateByName(name string) *Template {
	for i := range templates {
		if templates[i].Name == name {
			t := templates[i]
			return &t
		}
	}
	return nil
}

// ApplyTemplate retimes the visual clips to the template's pacing across
// totalDuration and stamps its transition cycle, grading vector and effects
// into their metadata. Non-visual clips pass through unchanged. A nil
// template or an empty visual set is a no-op returning the input.
func ApplyTemplate(clips []timeline.Clip, tmpl *Template, totalDuration float64) []timeline.Clip {
	if tmpl == nil || totalDuration <= 0 {
		return clips
	}

	var visual, rest []timeline.Clip
	for _, c := range clips {
		if c.IsVisual() {
			visual = append(visual, c)
		} else {
			rest = append(rest, c)
		}
	}
	if len(visual) == 0 {
		return clips
	}

	mid := tmpl.ClipDuration.Midpoint()
	if mid <= 0 {
		return clips
	}
	target := int(math.Floor(totalDuration / mid))
	if target < 1 {
		target = 1
	}

	var retimed []timeline.Clip
	if len(visual) < target {
		// Extend by cycling the existing clips across an even division of the
		// timeline.
		slot := totalDuration / float64(target)
		retimed = make([]timeline.Clip, target)
		for i := 0; i < target; i++ {
			c := visual[i%len(visual)]
			if i >= len(visual) {
				c.ID = timeline.NewID()
			}
			c.Start = float64(i) * slot
			c.Duration = slot
			retimed[i] = c
		}
	} else {
		slot := totalDuration / float64(len(visual))
		retimed = make([]timeline.Clip, len(visual))
		for i, c := range visual {
			c.Start = float64(i) * slot
			c.Duration = clamp(slot, tmpl.ClipDuration.Min, tmpl.ClipDuration.Max)
			retimed[i] = c
		}
	}

	for i := range retimed {
		meta := retimed[i].Metadata
		if len(tmpl.Transitions) > 0 {
			meta.Transition = &timeline.Transition{
				ID:       timeline.NewID(),
				Type:     tmpl.Transitions[i%len(tmpl.Transitions)],
				Duration: transitions.DefaultDuration,
				Easing:   transitions.DefaultEasing,
				Enabled:  tmpl.Transitions[i%len(tmpl.Transitions)] != transitions.TypeNone,
			}
		}
		g := tmpl.Grading
		meta.ColorGrading = &g
		if len(tmpl.Effects) > 0 {
			meta.Effects = append([]string(nil), tmpl.Effects...)
		}
		retimed[i].Metadata = meta
	}

	return append(retimed, rest...)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
