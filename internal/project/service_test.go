package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/reelbeat/reelbeat-engine/internal/db"
	"github.com/reelbeat/reelbeat-engine/internal/export"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	repo := NewRepository(database.Conn())
	return database, repo
}

func sampleDoc() timeline.Document {
	doc := timeline.NewDocument()
	doc.Clips = append(doc.Clips, timeline.Clip{
		ID:       timeline.NewID(),
		Title:    "Opening",
		Type:     timeline.ClipTypeImage,
		Start:    0,
		Duration: 4,
		TrackID:  doc.Tracks[0].ID,
		URL:      "file:///opening.png",
	})
	return doc
}

func TestService_CreateAndGet(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "My Video", sampleDoc())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created.ID is empty")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Title != "My Video" {
		t.Errorf("Title = %s, want My Video", got.Title)
	}
	if len(got.Timeline.Clips) != 1 || got.Timeline.Clips[0].Title != "Opening" {
		t.Errorf("timeline round-trip lost clips: %+v", got.Timeline.Clips)
	}
}

func TestService_Create_Defaults(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), "", timeline.Document{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Title != "Untitled" {
		t.Errorf("Title = %s, want Untitled", p.Title)
	}
	if len(p.Timeline.Tracks) != 3 {
		t.Errorf("tracks = %d, want the standard three", len(p.Timeline.Tracks))
	}
}

func TestService_Get_NotFound(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)

	p, err := svc.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p != nil {
		t.Errorf("Get() = %+v, want nil", p)
	}
}

func TestService_SaveTimeline(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Edit", sampleDoc())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	doc := p.Timeline
	doc.Clips[0].Duration = 6
	if err := svc.SaveTimeline(ctx, p.ID, doc); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Timeline.Clips[0].Duration != 6 {
		t.Errorf("duration = %v, want 6", got.Timeline.Clips[0].Duration)
	}
}

func TestService_SaveTimeline_RejectsInvalid(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Edit", sampleDoc())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	doc := p.Timeline
	doc.Clips[0].Duration = 0
	if err := svc.SaveTimeline(ctx, p.ID, doc); err == nil {
		t.Error("SaveTimeline() accepted a clip with zero duration")
	}
}

func TestService_QueueExport(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Edit", sampleDoc())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	job, err := svc.QueueExport(ctx, p.ID, export.Options{Resolution: "720p", Quality: "low"})
	if err != nil {
		t.Fatalf("QueueExport() error = %v", err)
	}
	if job.Type != JobTypeExport || job.Status != JobStatusPending {
		t.Errorf("job = %+v, want pending export", job)
	}
	if job.Payload == "" {
		t.Error("job payload is empty")
	}

	pending, err := repo.ListPendingJobs(ctx)
	if err != nil {
		t.Fatalf("ListPendingJobs() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != job.ID {
		t.Errorf("pending jobs = %+v", pending)
	}
}

func TestService_QueueExport_MissingProject(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)

	if _, err := svc.QueueExport(context.Background(), "missing", export.Options{}); err == nil {
		t.Error("QueueExport() should fail for an unknown project")
	}
}

func TestService_DeleteProject(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	p, _ := svc.Create(ctx, "Gone", sampleDoc())
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil || got != nil {
		t.Errorf("Get() after delete = (%+v, %v), want (nil, nil)", got, err)
	}

	count, _ := svc.Count(ctx)
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}
