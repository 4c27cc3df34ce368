// Package subtitles converts a transcript into timed caption lines, exports
// them as SRT or VTT, and materializes them as timeline text clips.
package subtitles

import (
	"math"
	"strings"
)

const (
	DefaultMaxWordsPerLine = 8
	DefaultMinDisplayTime  = 1.0
	DefaultMaxDisplayTime  = 5.0

	// secondsPerWord sizes short-sentence display time.
	secondsPerWord = 0.4
)

// Line is one timed caption.
type Line struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Options shapes line generation. Zero values fall back to defaults.
type Options struct {
	MaxWordsPerLine int
	MinDisplayTime  float64
	MaxDisplayTime  float64
}

func (o Options) withDefaults() Options {
	if o.MaxWordsPerLine <= 0 {
		o.MaxWordsPerLine = DefaultMaxWordsPerLine
	}
	if o.MinDisplayTime <= 0 {
		o.MinDisplayTime = DefaultMinDisplayTime
	}
	if o.MaxDisplayTime <= 0 {
		o.MaxDisplayTime = DefaultMaxDisplayTime
	}
	return o
}

// Generate splits the transcript into sentences, allocates each an equal
// share of the total duration, and chunks long sentences into lines of at
// most MaxWordsPerLine words. Every line's end is capped at duration.
func Generate(transcript string, duration float64, opts Options) []Line {
	opts = opts.withDefaults()

	sentences := splitSentences(transcript)
	if len(sentences) == 0 || duration <= 0 {
		return nil
	}

	slot := duration / float64(len(sentences))
	var lines []Line

	for i, sentence := range sentences {
		start := float64(i) * slot
		words := strings.Fields(sentence)

		if len(words) <= opts.MaxWordsPerLine {
			display := clamp(float64(len(words))*secondsPerWord, opts.MinDisplayTime, opts.MaxDisplayTime)
			lines = append(lines, Line{
				Text:  sentence,
				Start: start,
				End:   math.Min(start+display, duration),
			})
			continue
		}

		chunks := chunkWords(words, opts.MaxWordsPerLine)
		chunkSlot := slot / float64(len(chunks))
		display := math.Min(chunkSlot, opts.MaxDisplayTime)
		for j, chunk := range chunks {
			chunkStart := start + float64(j)*chunkSlot
			lines = append(lines, Line{
				Text:  strings.Join(chunk, " "),
				Start: chunkStart,
				End:   math.Min(chunkStart+display, duration),
			})
		}
	}
	return lines
}

// splitSentences breaks a transcript on sentence terminators, dropping empty
// fragments.
func splitSentences(transcript string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range transcript {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func chunkWords(words []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[start:end])
	}
	return chunks
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
