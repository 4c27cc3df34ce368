package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// GenerateEDL renders the visual cut as a CMX 3600 edit decision list, for
// handoff to desktop NLEs. Clips are laid down in start order on a single
// video track; gaps collapse so record times stay contiguous.
func GenerateEDL(clips []timeline.Clip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	visual := make([]timeline.Clip, 0, len(clips))
	for _, c := range clips {
		if c.IsVisual() {
			visual = append(visual, c)
		}
	}
	sort.SliceStable(visual, func(i, j int) bool { return visual[i].Start < visual[j].Start })

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordOffsetMs := 0
	for i, clip := range visual {
		durationMs := int(math.Round(clip.Duration * 1000))
		srcIn := msToTimecode(0, fps)
		srcOut := msToTimecode(durationMs, fps)
		recIn := msToTimecode(recordOffsetMs, fps)
		recOut := msToTimecode(recordOffsetMs+durationMs, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clip.Title),
		)
		if clip.URL != "" {
			lines = append(lines, fmt.Sprintf("* MEDIA PATH:  %s", clip.URL))
		}

		recordOffsetMs += durationMs
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
