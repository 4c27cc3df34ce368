package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/export"
	"github.com/reelbeat/reelbeat-engine/internal/generate"
	"github.com/reelbeat/reelbeat-engine/internal/logging"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// Exporter runs one export to completion. Satisfied by export.Orchestrator.
type Exporter interface {
	Export(ctx context.Context, doc timeline.Document, opts export.Options, onProgress export.ProgressFunc) export.Result
}

// Generator runs one media generation batch. Satisfied by generate.Batch.
type Generator interface {
	Run(ctx context.Context, items []generate.Item, onProgress generate.ProgressFunc) []generate.ItemResult
}

// Runner drains pending jobs one at a time on a fixed tick. Pausing
// stops pickup of new jobs without interrupting the one in flight.
type Runner struct {
	service      *Service
	repo         Repository
	exporter     Exporter
	generator    Generator
	logger       *slog.Logger
	pollInterval time.Duration
	exportPolls  int
	running      atomic.Bool
	paused       atomic.Bool
}

func NewRunner(service *Service, repo Repository, exporter Exporter, generator Generator, logger *slog.Logger) *Runner {
	return &Runner{
		service:      service,
		repo:         repo,
		exporter:     exporter,
		generator:    generator,
		logger:       logger,
		pollInterval: 5 * time.Second,
	}
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("job runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("job runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextJob(ctx)
			}
		}
	}
}

// SetExportBudget caps a single export's remote polling at maxPolls
// status checks. Zero keeps the orchestrator default.
func (r *Runner) SetExportBudget(maxPolls int) {
	r.exportPolls = maxPolls
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("job runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("job runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) processNextJob(ctx context.Context) {
	jobs, err := r.repo.ListPendingJobs(ctx)
	if err != nil {
		r.logger.Error("failed to list pending jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	job := jobs[0]
	logging.WithJobID(r.logger, job.ID).Info("processing job", "type", job.Type, "project_id", job.ProjectID)

	switch job.Type {
	case JobTypeExport:
		r.processExportJob(ctx, job)
	case JobTypeGenerate:
		r.processGenerateJob(ctx, job)
	default:
		r.logger.Warn("unknown job type", "type", job.Type)
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "unknown job type")
	}
}

func (r *Runner) processExportJob(ctx context.Context, job *Job) {
	if r.exporter == nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "exporter not configured")
		return
	}

	p, err := r.service.Get(ctx, job.ProjectID)
	if err != nil || p == nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "project not found")
		return
	}

	var opts export.Options
	if job.Payload != "" {
		if err := json.Unmarshal([]byte(job.Payload), &opts); err != nil {
			r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "invalid export options")
			return
		}
	}

	if opts.MaxPolls == 0 {
		opts.MaxPolls = r.exportPolls
	}

	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	result := r.exporter.Export(ctx, p.Timeline, opts, func(prog export.Progress) {
		r.repo.UpdateJobProgress(ctx, job.ID, prog.Stage, prog.Progress)
	})

	if !result.Success {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, result.Error)
		r.logger.Error("export failed", "job_id", job.ID, "error", result.Error)
		return
	}

	r.repo.UpdateJobResult(ctx, job.ID, result.VideoURL, result.FileSize)
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("export completed", "job_id", job.ID, "video_url", result.VideoURL)
}

func (r *Runner) processGenerateJob(ctx context.Context, job *Job) {
	if r.generator == nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "generator not configured")
		return
	}

	p, err := r.service.Get(ctx, job.ProjectID)
	if err != nil || p == nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "project not found")
		return
	}

	items := generate.ImageItems(p.Timeline.Clips)
	items = append(items, generate.VideoItems(p.Timeline.Clips)...)
	if len(items) == 0 {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
		return
	}

	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	results := r.generator.Run(ctx, items, func(prog generate.Progress) {
		pct := prog.Index * 100 / prog.Total
		r.repo.UpdateJobProgress(ctx, job.ID, "generating", pct)
	})

	ed := timeline.NewEditor(p.Timeline)
	if err := generate.ApplyResults(ed, results); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}
	if err := r.service.SaveTimeline(ctx, job.ProjectID, ed.Document()); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	r.repo.UpdateJobProgress(ctx, job.ID, "generating", 100)
	if failed == len(results) {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "all generation items failed")
		return
	}
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("generation batch completed", "job_id", job.ID, "items", len(results), "failed", failed)
}

func (r *Runner) GetActiveJobCount(ctx context.Context) int {
	jobs, err := r.repo.ListJobs(ctx, 100)
	if err != nil {
		return 0
	}
	count := 0
	for _, j := range jobs {
		if j.Status == JobStatusRunning {
			count++
		}
	}
	return count
}
