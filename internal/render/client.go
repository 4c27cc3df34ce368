package render

import (
	"context"
	"fmt"
	"log/slog"
)

// Client is the remote render/generation service contract.
type Client interface {
	SubmitRender(ctx context.Context, req Request) (jobID string, err error)
	RenderStatus(ctx context.Context, jobID string) (*Status, error)
	SubmitGeneration(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	GenerationStatus(ctx context.Context, taskID string) (*GenerationStatus, error)
}

// StubClient simulates the remote service for dev and tests: jobs complete
// on the second status poll.
type StubClient struct {
	logger *slog.Logger
	polls  map[string]int
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger, polls: make(map[string]int)}
}

func (c *StubClient) SubmitRender(ctx context.Context, req Request) (string, error) {
	jobID := newRequestID()
	if c.logger != nil {
		c.logger.Info("render stub: job submitted",
			"job_id", jobID, "segments", len(req.Sequence), "duration", req.Duration)
	}
	return jobID, nil
}

func (c *StubClient) RenderStatus(ctx context.Context, jobID string) (*Status, error) {
	c.polls[jobID]++
	if c.polls[jobID] == 1 {
		return &Status{Stage: StageRendering, Progress: 50}, nil
	}
	return &Status{
		Stage:    StageCompleted,
		Progress: 100,
		VideoURL: fmt.Sprintf("https://cdn.reelbeat.local/renders/%s.mp4", jobID),
		FileSize: 1 << 20,
	}, nil
}

func (c *StubClient) SubmitGeneration(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	taskID := newRequestID()
	if c.logger != nil {
		c.logger.Info("render stub: generation submitted", "task_id", taskID, "kind", req.Kind)
	}
	return &GenerationResult{TaskID: taskID}, nil
}

func (c *StubClient) GenerationStatus(ctx context.Context, taskID string) (*GenerationStatus, error) {
	c.polls[taskID]++
	if c.polls[taskID] == 1 {
		return &GenerationStatus{Status: GenProcessing}, nil
	}
	return &GenerationStatus{
		Status: GenCompleted,
		URL:    fmt.Sprintf("https://cdn.reelbeat.local/generated/%s.mp4", taskID),
	}, nil
}
