package subtitles

import (
	"fmt"
	"math"
	"strings"
)

// FormatSRT renders the lines as a SubRip document. Timestamps use the
// HH:MM:SS,mmm form.
func FormatSRT(lines []Line) string {
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(line.Start, ','), formatTimestamp(line.End, ','))
		b.WriteString(line.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatVTT renders the lines as a WebVTT document. Timestamps use the
// HH:MM:SS.mmm form.
func FormatVTT(lines []Line) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(line.Start, '.'), formatTimestamp(line.End, '.'))
		b.WriteString(line.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatTimestamp(seconds float64, msSep rune) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int(math.Round(seconds * 1000))
	ms := totalMs % 1000
	totalSec := totalMs / 1000
	s := totalSec % 60
	totalMin := totalSec / 60
	m := totalMin % 60
	h := totalMin / 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, msSep, ms)
}
