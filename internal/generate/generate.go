// Package generate runs batches of remote media generation tasks:
// videos animated from still images and images synthesized from scene
// prompts. Items are processed strictly one at a time so the remote
// service is never hit with a burst, and a single failed item never
// aborts the rest of the batch.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/clock"
	"github.com/reelbeat/reelbeat-engine/internal/render"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

const (
	// DefaultPollInterval paces generation status polls.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxPolls caps each task at a five minute wait.
	DefaultMaxPolls = 60
)

// Item is one generation task within a batch.
type Item struct {
	ClipID       string
	Kind         string // render request kind: "image" or "video"
	Prompt       string
	ReferenceURL string
}

// ItemResult records the outcome of a single batch item.
type ItemResult struct {
	ClipID string
	URL    string
	Err    error
}

// Progress reports batch position before each item starts.
type Progress struct {
	Index  int
	Total  int
	ClipID string
}

// ProgressFunc receives batch progress. May be nil.
type ProgressFunc func(Progress)

// Batch drives sequential generation against the remote service.
type Batch struct {
	client       render.Client
	clock        clock.Clock
	logger       *slog.Logger
	pollInterval time.Duration
	maxPolls     int
}

// Option adjusts batch behavior.
type Option func(*Batch)

// WithPollBudget overrides the per-task poll interval and budget.
func WithPollBudget(interval time.Duration, maxPolls int) Option {
	return func(b *Batch) {
		if interval > 0 {
			b.pollInterval = interval
		}
		if maxPolls > 0 {
			b.maxPolls = maxPolls
		}
	}
}

// NewBatch builds a batch runner. A nil clk falls back to the real clock.
func NewBatch(client render.Client, clk clock.Clock, logger *slog.Logger, opts ...Option) *Batch {
	if clk == nil {
		clk = clock.NewReal()
	}
	b := &Batch{
		client:       client,
		clock:        clk,
		logger:       logger,
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run processes every item in order, one at a time. Each item's failure is
// captured in its result; the batch always returns one result per item.
// Only context cancellation stops the batch early, and even then the
// remaining items get a cancellation result rather than being dropped.
func (b *Batch) Run(ctx context.Context, items []Item, onProgress ProgressFunc) []ItemResult {
	results := make([]ItemResult, 0, len(items))
	for i, item := range items {
		if onProgress != nil {
			onProgress(Progress{Index: i, Total: len(items), ClipID: item.ClipID})
		}
		if err := ctx.Err(); err != nil {
			results = append(results, ItemResult{ClipID: item.ClipID, Err: err})
			continue
		}

		url, err := b.runOne(ctx, item)
		if err != nil && b.logger != nil {
			b.logger.Warn("generation item failed",
				"clip_id", item.ClipID, "kind", item.Kind, "error", err)
		}
		results = append(results, ItemResult{ClipID: item.ClipID, URL: url, Err: err})
	}
	return results
}

func (b *Batch) runOne(ctx context.Context, item Item) (string, error) {
	res, err := b.client.SubmitGeneration(ctx, render.GenerationRequest{
		Kind:         item.Kind,
		Prompt:       item.Prompt,
		ReferenceURL: item.ReferenceURL,
	})
	if err != nil {
		return "", fmt.Errorf("submit generation: %w", err)
	}
	if res.URL != "" {
		return res.URL, nil
	}
	if res.TaskID == "" {
		return "", fmt.Errorf("generation service returned neither a result nor a task id")
	}
	return b.pollTask(ctx, res.TaskID)
}

func (b *Batch) pollTask(ctx context.Context, taskID string) (string, error) {
	for attempt := 0; attempt < b.maxPolls; attempt++ {
		if err := b.clock.Sleep(ctx, b.pollInterval); err != nil {
			return "", err
		}

		status, err := b.client.GenerationStatus(ctx, taskID)
		if err != nil {
			if b.logger != nil {
				b.logger.Warn("generation status poll failed",
					"task_id", taskID, "attempt", attempt+1, "error", err)
			}
			continue
		}

		switch status.Status {
		case render.GenCompleted:
			if status.URL == "" {
				return "", fmt.Errorf("generation task %s completed without a result url", taskID)
			}
			return status.URL, nil
		case render.GenFailed:
			msg := status.Error
			if msg == "" {
				msg = "generation service reported failure"
			}
			return "", fmt.Errorf("generation task %s: %s", taskID, msg)
		}
	}
	return "", fmt.Errorf("timeout: generation task %s did not complete within the poll budget", taskID)
}

// VideoItems selects the image clips eligible for video generation: a
// source image plus a prompt to animate it with.
func VideoItems(clips []timeline.Clip) []Item {
	var items []Item
	for _, c := range clips {
		if c.Type != timeline.ClipTypeImage || c.URL == "" || c.Metadata.Prompt == "" {
			continue
		}
		items = append(items, Item{
			ClipID:       c.ID,
			Kind:         "video",
			Prompt:       c.Metadata.Prompt,
			ReferenceURL: c.URL,
		})
	}
	return items
}

// ImageItems selects the scene clips still missing source media, using
// the scene prompt to synthesize a still.
func ImageItems(clips []timeline.Clip) []Item {
	var items []Item
	for _, c := range clips {
		if !c.IsVisual() || c.URL != "" || c.Metadata.Prompt == "" {
			continue
		}
		items = append(items, Item{
			ClipID: c.ID,
			Kind:   "image",
			Prompt: c.Metadata.Prompt,
		})
	}
	return items
}

// ApplyResults writes successful generation URLs back onto their clips.
// Failed items are skipped; the first editor error aborts and is returned.
func ApplyResults(ed *timeline.Editor, results []ItemResult) error {
	for _, r := range results {
		if r.Err != nil || r.URL == "" {
			continue
		}
		if err := ed.SetClipURL(r.ClipID, r.URL); err != nil {
			return fmt.Errorf("apply generation result to clip %s: %w", r.ClipID, err)
		}
	}
	return nil
}
