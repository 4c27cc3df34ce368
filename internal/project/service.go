package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/export"
	"github.com/reelbeat/reelbeat-engine/internal/logging"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, title string, doc timeline.Document) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	SaveTimeline(ctx context.Context, id string, doc timeline.Document) error
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)

	QueueExport(ctx context.Context, projectID string, opts export.Options) (*Job, error)
	QueueGeneration(ctx context.Context, projectID string) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	ListProjectJobs(ctx context.Context, projectID string) ([]*Job, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new project. An empty title falls back to "Untitled";
// a zero-value document is replaced with a fresh one carrying the
// standard tracks.
func (s *Service) Create(ctx context.Context, title string, doc timeline.Document) (*Project, error) {
	if title == "" {
		title = "Untitled"
	}
	if len(doc.Tracks) == 0 {
		doc = timeline.NewDocument()
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeline: %w", err)
	}

	data, err := timeline.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Project{
		ID:        timeline.NewID(),
		Title:     title,
		Timeline:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateProject(ctx, p, string(data)); err != nil {
		return nil, err
	}

	if s.logger != nil {
		logging.WithProjectID(s.logger, p.ID).Info("project created", "title", title)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	p, timelineJSON, err := s.repo.GetProject(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	doc, err := timeline.UnmarshalDocument([]byte(timelineJSON))
	if err != nil {
		return nil, fmt.Errorf("project %s has a corrupt timeline: %w", id, err)
	}
	p.Timeline = doc
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

func (s *Service) SaveTimeline(ctx context.Context, id string, doc timeline.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid timeline: %w", err)
	}
	data, err := timeline.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return s.repo.UpdateProjectTimeline(ctx, id, string(data))
}

func (s *Service) Rename(ctx context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	return s.repo.UpdateProjectTitle(ctx, id, title)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteProject(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountProjects(ctx)
}

// QueueExport records a pending export job; the runner picks it up on
// its next tick. Export options travel in the job payload.
func (s *Service) QueueExport(ctx context.Context, projectID string, opts export.Options) (*Job, error) {
	p, _, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project not found")
	}

	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &Job{
		ID:        timeline.NewID(),
		Type:      JobTypeExport,
		Status:    JobStatusPending,
		ProjectID: projectID,
		Payload:   string(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("export job queued", "job_id", job.ID, "project_id", projectID)
	}
	return job, nil
}

// QueueGeneration records a pending media generation batch for every
// eligible clip in the project.
func (s *Service) QueueGeneration(ctx context.Context, projectID string) (*Job, error) {
	p, _, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project not found")
	}

	now := time.Now()
	job := &Job{
		ID:        timeline.NewID(),
		Type:      JobTypeGenerate,
		Status:    JobStatusPending,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("generation job queued", "job_id", job.ID, "project_id", projectID)
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *Service) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	return s.repo.ListJobs(ctx, limit)
}

func (s *Service) ListProjectJobs(ctx context.Context, projectID string) ([]*Job, error) {
	return s.repo.ListJobsByProject(ctx, projectID)
}
