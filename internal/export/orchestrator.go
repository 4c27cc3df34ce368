package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/clock"
	"github.com/reelbeat/reelbeat-engine/internal/render"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// Export stages, in order.
const (
	StagePreparing = "preparing"
	StageRendering = "rendering"
	StageEncoding  = "encoding"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

const (
	// DefaultPollInterval spaces remote status polls.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxPolls bounds the poll loop (~5 minutes at the default
	// interval).
	DefaultMaxPolls = 60

	// preparationShare is how much of the progress scale preparation
	// occupies; the remote render fills the rest.
	preparationShare = 30
)

// Options configures one export run. Zero values take defaults.
type Options struct {
	IncludeAudio bool
	Resolution   string
	FPS          int
	Format       string
	Quality      string
	PollInterval time.Duration
	MaxPolls     int
}

func (o Options) withDefaults() Options {
	if o.Resolution == "" {
		o.Resolution = "1080p"
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Format == "" {
		o.Format = "mp4"
	}
	if o.Quality == "" {
		o.Quality = "high"
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxPolls <= 0 {
		o.MaxPolls = DefaultMaxPolls
	}
	return o
}

// Progress is one progress event, on a 0-100 scale.
type Progress struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Result is the final outcome of an export.
type Result struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"video_url,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)

// Orchestrator drives the export state machine:
// preparing -> rendering -> encoding -> completed | failed.
type Orchestrator struct {
	client render.Client
	clock  clock.Clock
	logger *slog.Logger
}

func NewOrchestrator(client render.Client, clk clock.Clock, logger *slog.Logger) *Orchestrator {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Orchestrator{client: client, clock: clk, logger: logger}
}

// Export runs the full pipeline. Every failure path resolves to a Result
// with Success=false and a failed progress event; errors never escape.
func (o *Orchestrator) Export(ctx context.Context, doc timeline.Document, opts Options, onProgress ProgressFunc) Result {
	opts = opts.withDefaults()
	emit := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	fail := func(msg string) Result {
		if o.logger != nil {
			o.logger.Error("export failed", "error", msg)
		}
		emit(Progress{Stage: StageFailed, Progress: 0, Message: msg})
		return Result{Success: false, Error: msg}
	}

	emit(Progress{Stage: StagePreparing, Progress: 0, Message: "validating timeline"})

	if len(doc.Clips) == 0 {
		return fail("timeline has no clips")
	}

	hasVisual := false
	for _, c := range doc.Clips {
		if c.IsVisual() {
			hasVisual = true
			break
		}
	}
	if !hasVisual {
		return fail("timeline has no visual clips")
	}

	totalDuration := doc.Duration()
	sequence := BuildSequence(doc.Clips, totalDuration)
	emit(Progress{Stage: StagePreparing, Progress: preparationShare / 2, Message: "building render sequence"})

	req := render.Request{
		Sequence:   sequence,
		Duration:   totalDuration,
		Resolution: opts.Resolution,
		FPS:        opts.FPS,
		Format:     opts.Format,
		Quality:    opts.Quality,
	}
	if opts.IncludeAudio {
		req.AudioClips = AudioSegments(doc.Clips)
	}

	jobID, err := o.client.SubmitRender(ctx, req)
	if err != nil {
		return fail(fmt.Sprintf("render submission failed: %v", err))
	}
	if o.logger != nil {
		o.logger.Info("render job submitted", "job_id", jobID, "segments", len(sequence))
	}
	emit(Progress{Stage: StageRendering, Progress: preparationShare, Message: "render job submitted"})

	return o.poll(ctx, jobID, opts, emit, fail)
}

// poll watches the remote job until completion, failure, or budget
// exhaustion. Individual poll errors are tolerated; only the budget ends
// the loop.
func (o *Orchestrator) poll(ctx context.Context, jobID string, opts Options, emit ProgressFunc, fail func(string) Result) Result {
	for attempt := 0; attempt < opts.MaxPolls; attempt++ {
		if err := o.clock.Sleep(ctx, opts.PollInterval); err != nil {
			return fail(fmt.Sprintf("export cancelled: %v", err))
		}

		status, err := o.client.RenderStatus(ctx, jobID)
		if err != nil {
			if o.logger != nil {
				o.logger.Warn("render status poll failed", "job_id", jobID, "attempt", attempt+1, "error", err)
			}
			continue
		}

		switch status.Stage {
		case render.StageCompleted:
			emit(Progress{Stage: StageCompleted, Progress: 100, Message: "export completed"})
			return Result{Success: true, VideoURL: status.VideoURL, FileSize: status.FileSize}
		case render.StageFailed:
			msg := status.Error
			if msg == "" {
				msg = "render service reported failure"
			}
			return fail(msg)
		case render.StageEncoding:
			emit(Progress{Stage: StageEncoding, Progress: overallProgress(status.Progress), Message: "encoding"})
		default:
			emit(Progress{Stage: StageRendering, Progress: overallProgress(status.Progress), Message: "rendering"})
		}
	}
	return fail("timeout: render did not complete within the poll budget")
}

// overallProgress maps remote progress onto the orchestrator's scale:
// preparation occupies the first 30%, the remote render the remaining 70%.
func overallProgress(remote int) int {
	if remote < 0 {
		remote = 0
	}
	if remote > 100 {
		remote = 100
	}
	return preparationShare + remote*(100-preparationShare)/100
}
