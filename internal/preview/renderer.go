package preview

import (
	"context"
	"log/slog"
	"math"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// Resolution is a named target raster size.
type Resolution struct {
	Width  int
	Height int
}

var resolutions = map[string]Resolution{
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"4k":    {3840, 2160},
}

// ResolutionByName returns the named resolution, defaulting to 1080p.
func ResolutionByName(name string) Resolution {
	if r, ok := resolutions[name]; ok {
		return r
	}
	return resolutions["1080p"]
}

func qualityScale(quality string) float64 {
	switch quality {
	case QualityLow:
		return 0.5
	case QualityMedium:
		return 0.75
	default:
		return 1.0
	}
}

// Frame is one displayable preview frame. Image clips carry only URL; video
// clips carry rasterized Data at the scaled resolution.
type Frame struct {
	ClipID string `json:"clip_id"`
	URL    string `json:"url,omitempty"`
	Data   []byte `json:"data,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Renderer resolves the active clip for a playhead time and produces its
// frame, consulting the cache before any extraction work.
type Renderer struct {
	extractor Extractor
	cache     *FrameCache
	width     int
	height    int
	logger    *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCacheCapacity overrides the frame cache bound.
func WithCacheCapacity(n int) RendererOption {
	return func(r *Renderer) { r.cache = NewFrameCache(n) }
}

// NewRenderer builds a renderer targeting the named resolution scaled by the
// quality tier (low 0.5x, medium 0.75x, high 1x).
func NewRenderer(extractor Extractor, quality, resolution string, logger *slog.Logger, opts ...RendererOption) *Renderer {
	res := ResolutionByName(resolution)
	scale := qualityScale(quality)
	r := &Renderer{
		extractor: extractor,
		cache:     NewFrameCache(DefaultCacheCapacity),
		width:     int(math.Round(float64(res.Width) * scale)),
		height:    int(math.Round(float64(res.Height) * scale)),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache exposes the renderer's frame cache.
func (r *Renderer) Cache() *FrameCache {
	return r.cache
}

// Clone returns a renderer with the same extractor and output size but its
// own empty cache, so each timeline previews against independent state.
func (r *Renderer) Clone() *Renderer {
	return &Renderer{
		extractor: r.extractor,
		cache:     NewFrameCache(r.cache.capacity),
		width:     r.width,
		height:    r.height,
		logger:    r.logger,
	}
}

// ActiveClip returns the visual clip under the playhead, or nil when the
// playhead sits in a gap. With stacked clips the first match in document
// order wins.
func ActiveClip(clips []timeline.Clip, t float64) *timeline.Clip {
	for i := range clips {
		if clips[i].IsVisual() && clips[i].Contains(t) {
			return &clips[i]
		}
	}
	return nil
}

// RenderFrame produces the frame for the playhead time, or nil when no
// visual clip is active or extraction fails. Failures never propagate.
func (r *Renderer) RenderFrame(ctx context.Context, clips []timeline.Clip, t float64) *Frame {
	if cached := r.cache.Get(t); cached != nil {
		return cached
	}

	clip := ActiveClip(clips, t)
	if clip == nil {
		return nil
	}

	frame := &Frame{ClipID: clip.ID, Width: r.width, Height: r.height}

	switch clip.Type {
	case timeline.ClipTypeImage:
		frame.URL = clip.URL
	case timeline.ClipTypeVideo:
		data, err := r.extractor.ExtractFrame(ctx, clip.URL, t-clip.Start, r.width, r.height)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("frame extraction failed", "clip_id", clip.ID, "time", t, "error", err)
			}
			return nil
		}
		frame.URL = clip.URL
		frame.Data = data
	}

	r.cache.Put(t, frame)
	return frame
}
