// Package export turns a finished timeline into a remote render job:
// flatten the clip sequence with black gap filler, submit it, and poll the
// job to completion under a fixed budget.
package export

import (
	"sort"

	"github.com/reelbeat/reelbeat-engine/internal/render"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// BuildSequence flattens the visual clips into the segment list sent to the
// renderer, synthesizing black filler for every uncovered range so the
// remote service receives full timeline coverage. Multi-track overlap is
// expected and collapses into the covered sweep.
func BuildSequence(clips []timeline.Clip, totalDuration float64) []render.Segment {
	var visual []timeline.Clip
	for _, c := range clips {
		if c.IsVisual() {
			visual = append(visual, c)
		}
	}
	sort.SliceStable(visual, func(i, j int) bool {
		return visual[i].Start < visual[j].Start
	})

	var segments []render.Segment
	covered := 0.0

	for _, c := range visual {
		if c.Start > covered {
			segments = append(segments, render.Segment{
				Kind:     render.SegmentBlack,
				Start:    covered,
				Duration: c.Start - covered,
			})
			covered = c.Start
		}
		segments = append(segments, render.Segment{
			Kind:     render.SegmentClip,
			URL:      c.URL,
			Start:    c.Start,
			Duration: c.Duration,
		})
		if end := c.End(); end > covered {
			covered = end
		}
	}

	if totalDuration > covered {
		segments = append(segments, render.Segment{
			Kind:     render.SegmentBlack,
			Start:    covered,
			Duration: totalDuration - covered,
		})
	}
	return segments
}

// AudioSegments collects the audio clips mixed under the sequence.
func AudioSegments(clips []timeline.Clip) []render.AudioSegment {
	var out []render.AudioSegment
	for _, c := range clips {
		if c.Type == timeline.ClipTypeAudio {
			out = append(out, render.AudioSegment{
				URL:      c.URL,
				Start:    c.Start,
				Duration: c.Duration,
			})
		}
	}
	return out
}
