package preview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

type fakeExtractor struct {
	calls int
	fail  bool
}

func (f *fakeExtractor) ExtractFrame(ctx context.Context, url string, offset float64, width, height int) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("decode failed")
	}
	return []byte(fmt.Sprintf("%s@%.2f:%dx%d", url, offset, width, height)), nil
}

func previewClips() []timeline.Clip {
	return []timeline.Clip{
		{ID: "img", Type: timeline.ClipTypeImage, Start: 0, Duration: 2, URL: "file:///cover.png"},
		{ID: "vid", Type: timeline.ClipTypeVideo, Start: 2, Duration: 3, URL: "file:///take.mp4"},
		{ID: "aud", Type: timeline.ClipTypeAudio, Start: 0, Duration: 5, URL: "file:///song.wav"},
	}
}

func TestRenderFrame_ImagePassthrough(t *testing.T) {
	ex := &fakeExtractor{}
	r := NewRenderer(ex, QualityHigh, "1080p", nil)

	frame := r.RenderFrame(context.Background(), previewClips(), 1)
	if frame == nil {
		t.Fatal("frame = nil for active image clip")
	}
	if frame.URL != "file:///cover.png" || frame.Data != nil {
		t.Errorf("frame = %+v, want URL passthrough with no data", frame)
	}
	if ex.calls != 0 {
		t.Errorf("extractor called %d times for an image clip", ex.calls)
	}
}

func TestRenderFrame_VideoExtraction(t *testing.T) {
	ex := &fakeExtractor{}
	r := NewRenderer(ex, QualityHigh, "1080p", nil)

	frame := r.RenderFrame(context.Background(), previewClips(), 3.5)
	if frame == nil {
		t.Fatal("frame = nil for active video clip")
	}
	// Offset is relative to the clip start: 3.5 - 2 = 1.5.
	want := "file:///take.mp4@1.50:1920x1080"
	if string(frame.Data) != want {
		t.Errorf("frame data = %s, want %s", frame.Data, want)
	}
}

func TestRenderFrame_QualityScaling(t *testing.T) {
	tests := []struct {
		quality    string
		resolution string
		wantW      int
		wantH      int
	}{
		{QualityHigh, "1080p", 1920, 1080},
		{QualityMedium, "1080p", 1440, 810},
		{QualityLow, "1080p", 960, 540},
		{QualityLow, "720p", 640, 360},
	}
	for _, tc := range tests {
		t.Run(tc.quality+"_"+tc.resolution, func(t *testing.T) {
			r := NewRenderer(&fakeExtractor{}, tc.quality, tc.resolution, nil)
			frame := r.RenderFrame(context.Background(), previewClips(), 3)
			if frame.Width != tc.wantW || frame.Height != tc.wantH {
				t.Errorf("frame = %dx%d, want %dx%d", frame.Width, frame.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestRenderFrame_GapReturnsNil(t *testing.T) {
	r := NewRenderer(&fakeExtractor{}, QualityHigh, "1080p", nil)
	if frame := r.RenderFrame(context.Background(), previewClips(), 10); frame != nil {
		t.Errorf("frame = %+v in a gap, want nil", frame)
	}
	// The audio clip alone is never an active preview clip.
	clips := []timeline.Clip{{ID: "aud", Type: timeline.ClipTypeAudio, Start: 0, Duration: 5}}
	if frame := r.RenderFrame(context.Background(), clips, 1); frame != nil {
		t.Errorf("frame = %+v over audio-only timeline, want nil", frame)
	}
}

func TestRenderFrame_ExtractionFailureReturnsNil(t *testing.T) {
	r := NewRenderer(&fakeExtractor{fail: true}, QualityHigh, "1080p", nil)
	if frame := r.RenderFrame(context.Background(), previewClips(), 3); frame != nil {
		t.Errorf("frame = %+v after extraction failure, want nil", frame)
	}
}

func TestRenderFrame_CachesAndSkipsExtraction(t *testing.T) {
	ex := &fakeExtractor{}
	r := NewRenderer(ex, QualityHigh, "1080p", nil)

	first := r.RenderFrame(context.Background(), previewClips(), 3.123)
	second := r.RenderFrame(context.Background(), previewClips(), 3.121) // same 2-decimal key
	if ex.calls != 1 {
		t.Errorf("extractor calls = %d, want 1 (second hit cached)", ex.calls)
	}
	if first != second {
		t.Error("cache returned a different frame instance")
	}
}

func TestFrameCache_FIFOEviction(t *testing.T) {
	c := NewFrameCache(3)
	for i := 0; i < 5; i++ {
		c.Put(float64(i), &Frame{ClipID: fmt.Sprintf("f%d", i)})
	}

	if c.Len() != 3 {
		t.Fatalf("cache size = %d, want capacity 3", c.Len())
	}
	// The two earliest-inserted entries are gone, the newest three remain.
	for _, gone := range []float64{0, 1} {
		if got := c.Get(gone); got != nil {
			t.Errorf("Get(%v) = %+v, want evicted", gone, got)
		}
	}
	for _, kept := range []float64{2, 3, 4} {
		if got := c.Get(kept); got == nil {
			t.Errorf("Get(%v) = nil, want kept", kept)
		}
	}
}

func TestFrameCache_KeyRounding(t *testing.T) {
	c := NewFrameCache(2)
	f := &Frame{ClipID: "x"}
	c.Put(1.2301, f)
	if got := c.Get(1.2349); got != f {
		t.Errorf("Get() across rounding boundary = %v, want same entry", got)
	}
	if c.Len() != 1 {
		t.Errorf("cache size = %d, want 1", c.Len())
	}
}

func TestRenderer_CloneIsolatesCache(t *testing.T) {
	ex := &fakeExtractor{}
	a := NewRenderer(ex, QualityHigh, "1080p", nil, WithCacheCapacity(3))
	b := a.Clone()

	if a.RenderFrame(context.Background(), previewClips(), 1) == nil {
		t.Fatal("frame = nil for active image clip")
	}
	if a.Cache().Len() != 1 {
		t.Fatalf("source cache len = %d, want 1", a.Cache().Len())
	}
	if b.Cache().Len() != 0 {
		t.Fatalf("cloned cache len = %d, want 0", b.Cache().Len())
	}
	if b.Cache().Get(1) != nil {
		t.Fatal("clone served a frame cached by its source")
	}
	if b.cache.capacity != a.cache.capacity {
		t.Fatalf("clone capacity = %d, want %d", b.cache.capacity, a.cache.capacity)
	}
	if b.width != a.width || b.height != a.height {
		t.Fatalf("clone size = %dx%d, want %dx%d", b.width, b.height, a.width, a.height)
	}
}

func TestFrameCache_Clear(t *testing.T) {
	c := NewFrameCache(3)
	c.Put(1, &Frame{ClipID: "a"})
	c.Put(2, &Frame{ClipID: "b"})

	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", c.Len())
	}
	if c.Get(1) != nil {
		t.Fatal("cleared cache still served a frame")
	}
}
