// Package transitions attaches, toggles and validates the transition
// descriptors carried between adjacent visual clips. All operations are pure:
// they return derived clip sets or reports, never mutate their input.
package transitions

import (
	"fmt"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

const (
	TypeNone      = "none"
	TypeCrossfade = "crossfade"
	TypeFade      = "fade"
	TypeSlide     = "slide"
	TypeWipe      = "wipe"
	TypeZoom      = "zoom"
)

const (
	DefaultDuration = 0.5
	DefaultEasing   = "ease-in-out"
)

// Options controls ApplyAuto. Skipped boundary clips receive a disabled
// none-transition; skipping the first clip is the default since nothing
// precedes it.
type Options struct {
	Duration  float64
	Easing    string
	SkipFirst bool
	SkipLast  bool
}

// DefaultOptions returns the standard auto-transition settings.
func DefaultOptions() Options {
	return Options{
		Duration:  DefaultDuration,
		Easing:    DefaultEasing,
		SkipFirst: true,
		SkipLast:  false,
	}
}

// ApplyAuto attaches a transition of the given type to every visual clip,
// honoring the skip flags. Audio and text clips pass through untouched.
func ApplyAuto(clips []timeline.Clip, transitionType string, opts Options) []timeline.Clip {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Easing == "" {
		opts.Easing = DefaultEasing
	}

	visualIdx := make([]int, 0, len(clips))
	for i, c := range clips {
		if c.IsVisual() {
			visualIdx = append(visualIdx, i)
		}
	}

	out := make([]timeline.Clip, len(clips))
	copy(out, clips)

	for pos, i := range visualIdx {
		tr := &timeline.Transition{
			ID:       timeline.NewID(),
			Type:     transitionType,
			Duration: opts.Duration,
			Easing:   opts.Easing,
			Enabled:  true,
		}
		if (opts.SkipFirst && pos == 0) || (opts.SkipLast && pos == len(visualIdx)-1) {
			tr.Type = TypeNone
			tr.Enabled = false
		}
		meta := out[i].Metadata
		meta.Transition = tr
		out[i].Metadata = meta
	}
	return out
}

// SetEnabled toggles the transition on the clip with the given id without
// clearing its descriptor, so re-enabling restores the configured type and
// duration. Clips without a transition pass through unchanged.
func SetEnabled(clips []timeline.Clip, clipID string, enabled bool) []timeline.Clip {
	out := make([]timeline.Clip, len(clips))
	copy(out, clips)
	for i := range out {
		if out[i].ID != clipID || out[i].Metadata.Transition == nil {
			continue
		}
		tr := *out[i].Metadata.Transition
		tr.Enabled = enabled
		meta := out[i].Metadata
		meta.Transition = &tr
		out[i].Metadata = meta
	}
	return out
}

// Issue is one validation finding.
type Issue struct {
	ClipID   string `json:"clip_id"`
	Severity string `json:"severity"` // "error" or "warning"
	Message  string `json:"message"`
}

// Report collects validation findings for a clip sequence.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// OK reports whether validation found no errors. Warnings do not fail a
// report.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks every enabled transition against its owning clip and the
// gap to the next visual clip. It never mutates; it only reports.
//
// Error: transition longer than its clip. Warning: transition longer than
// half its clip, or a same-lane overlap shorter than the transition.
func Validate(clips []timeline.Clip) Report {
	var report Report

	var visual []timeline.Clip
	for _, c := range clips {
		if c.IsVisual() {
			visual = append(visual, c)
		}
	}

	for i, c := range visual {
		tr := c.Metadata.Transition
		if tr == nil || !tr.Enabled {
			continue
		}

		if tr.Duration > c.Duration {
			report.Errors = append(report.Errors, Issue{
				ClipID:   c.ID,
				Severity: "error",
				Message:  fmt.Sprintf("transition duration %.2fs exceeds clip duration %.2fs", tr.Duration, c.Duration),
			})
		} else if tr.Duration > c.Duration*0.5 {
			report.Warnings = append(report.Warnings, Issue{
				ClipID:   c.ID,
				Severity: "warning",
				Message:  fmt.Sprintf("transition duration %.2fs is more than half the clip duration %.2fs", tr.Duration, c.Duration),
			})
		}

		if i+1 < len(visual) {
			gap := visual[i+1].Start - c.End()
			if gap < 0 && -gap < tr.Duration {
				report.Warnings = append(report.Warnings, Issue{
					ClipID:   c.ID,
					Severity: "warning",
					Message:  fmt.Sprintf("clip overlaps the next by %.2fs, inside the %.2fs transition", -gap, tr.Duration),
				})
			}
		}
	}
	return report
}

// TotalDuration sums clip durations minus each enabled transition's duration
// (transitions eat into the following gap), floored at zero.
func TotalDuration(clips []timeline.Clip) float64 {
	var total float64
	for _, c := range clips {
		total += c.Duration
		if tr := c.Metadata.Transition; tr != nil && tr.Enabled {
			total -= tr.Duration
		}
	}
	if total < 0 {
		return 0
	}
	return total
}
