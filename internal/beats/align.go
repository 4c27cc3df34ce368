package beats

import (
	"math"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// minCutConfidence filters weak beats out of cut suggestions.
const minCutConfidence = 0.6

// AlignClipsToBeats snaps every visual clip's start to the nearest beat.
// Audio clips pass through unchanged. With no beats the input is returned
// as-is.
func AlignClipsToBeats(clips []timeline.Clip, analysis *Analysis) []timeline.Clip {
	if analysis == nil || len(analysis.Beats) == 0 {
		return clips
	}
	out := make([]timeline.Clip, len(clips))
	for i, c := range clips {
		if c.IsVisual() {
			c.Start = nearestBeatTime(analysis.Beats, c.Start)
		}
		out[i] = c
	}
	return out
}

func nearestBeatTime(beats []Beat, t float64) float64 {
	best := beats[0].Time
	bestDiff := math.Abs(t - best)
	for _, b := range beats[1:] {
		if diff := math.Abs(t - b.Time); diff < bestDiff {
			best = b.Time
			bestDiff = diff
		}
	}
	return best
}

// SuggestCutPoints picks up to count cut times from the confident beats,
// evenly strided across them.
func SuggestCutPoints(analysis *Analysis, count int) []float64 {
	if analysis == nil || count <= 0 {
		return nil
	}
	var confident []Beat
	for _, b := range analysis.Beats {
		if b.Confidence > minCutConfidence {
			confident = append(confident, b)
		}
	}
	if len(confident) == 0 {
		return nil
	}
	if len(confident) <= count {
		out := make([]float64, len(confident))
		for i, b := range confident {
			out[i] = b.Time
		}
		return out
	}

	stride := float64(len(confident)) / float64(count)
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, confident[int(float64(i)*stride)].Time)
	}
	return out
}
