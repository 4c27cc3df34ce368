// Package grading applies and blends the per-clip color adjustment vector.
// Engines here are pure: malformed input degrades to a no-op, never an error.
package grading

import "github.com/reelbeat/reelbeat-engine/internal/timeline"

// Settings is the full 12-dimension adjustment vector.
type Settings = timeline.ColorGrading

// Preset is a named full vector.
type Preset struct {
	Name     string   `json:"name"`
	Settings Settings `json:"settings"`
}

// Presets is the built-in preset library, in display order.
var Presets = []Preset{
	{Name: "cinematic", Settings: Settings{Contrast: 15, Saturation: -10, Temperature: -5, Shadows: 10, Vignette: 25, Grain: 10}},
	{Name: "vibrant", Settings: Settings{Brightness: 5, Contrast: 10, Saturation: 30, Vibrance: 25, Sharpen: 15}},
	{Name: "vintage", Settings: Settings{Brightness: -5, Contrast: -10, Saturation: -20, Temperature: 15, Tint: 5, Grain: 35, Vignette: 30}},
	{Name: "noir", Settings: Settings{Contrast: 30, Saturation: -100, Highlights: -10, Shadows: -15, Vignette: 40, Grain: 20}},
	{Name: "dreamy", Settings: Settings{Brightness: 10, Contrast: -15, Saturation: 5, Highlights: 20, Exposure: 5, Vignette: 10}},
	{Name: "cold", Settings: Settings{Temperature: -30, Tint: -5, Contrast: 5, Shadows: 5}},
	{Name: "warm", Settings: Settings{Temperature: 30, Tint: 5, Brightness: 5, Vibrance: 10}},
}

// PresetByName returns the named preset, or nil when unknown.
func PresetByName(name string) *Preset {
	for i := range Presets {
		if Presets[i].Name == name {
			return &Presets[i]
		}
	}
	return nil
}

// Apply writes the settings vector into every visual clip's metadata. Audio
// and text clips pass through untouched. Input is never mutated.
func Apply(clips []timeline.Clip, settings Settings) []timeline.Clip {
	out := make([]timeline.Clip, len(clips))
	copy(out, clips)
	for i := range out {
		if !out[i].IsVisual() {
			continue
		}
		s := settings
		meta := out[i].Metadata
		meta.ColorGrading = &s
		out[i].Metadata = meta
	}
	return out
}

// ApplyPreset applies the named preset. An unknown name is a no-op returning
// the input clips.
func ApplyPreset(clips []timeline.Clip, name string) []timeline.Clip {
	preset := PresetByName(name)
	if preset == nil {
		return clips
	}
	return Apply(clips, preset.Settings)
}

// Reset clears grading by applying the zero vector.
func Reset(clips []timeline.Clip) []timeline.Clip {
	return Apply(clips, Settings{})
}

// Interpolate blends two vectors linearly per dimension. progress is clamped
// into [0,1]; 0 yields a and 1 yields b exactly.
func Interpolate(a, b Settings, progress float64) Settings {
	if progress <= 0 {
		return a
	}
	if progress >= 1 {
		return b
	}
	lerp := func(x, y float64) float64 { return x + (y-x)*progress }
	return Settings{
		Brightness:  lerp(a.Brightness, b.Brightness),
		Contrast:    lerp(a.Contrast, b.Contrast),
		Saturation:  lerp(a.Saturation, b.Saturation),
		Temperature: lerp(a.Temperature, b.Temperature),
		Tint:        lerp(a.Tint, b.Tint),
		Exposure:    lerp(a.Exposure, b.Exposure),
		Highlights:  lerp(a.Highlights, b.Highlights),
		Shadows:     lerp(a.Shadows, b.Shadows),
		Vibrance:    lerp(a.Vibrance, b.Vibrance),
		Vignette:    lerp(a.Vignette, b.Vignette),
		Grain:       lerp(a.Grain, b.Grain),
		Sharpen:     lerp(a.Sharpen, b.Sharpen),
	}
}
