package preview

import (
	"context"
	"errors"
	"log/slog"
)

// Extractor rasterizes one frame of a video source at a relative offset.
// Implementations wrap whatever decode backend is available; the renderer
// treats extraction failure as "no frame", never as a fatal error.
type Extractor interface {
	ExtractFrame(ctx context.Context, url string, offset float64, width, height int) ([]byte, error)
}

// StubExtractor always fails, used in dev and tests where no decode backend
// exists.
type StubExtractor struct {
	logger *slog.Logger
}

func NewStubExtractor(logger *slog.Logger) *StubExtractor {
	return &StubExtractor{logger: logger}
}

func (e *StubExtractor) ExtractFrame(ctx context.Context, url string, offset float64, width, height int) ([]byte, error) {
	if e.logger != nil {
		e.logger.Info("frame extractor stub: extract requested",
			"url", url, "offset", offset, "width", width, "height", height)
	}
	return nil, errors.New("stub extractor: no decode backend")
}
