// Package project persists editing projects and the asynchronous jobs
// (exports, media generation batches) queued against them.
package project

import (
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

// Project is one saved edit: a titled timeline document.
type Project struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Timeline  timeline.Document `json:"timeline"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

const (
	JobTypeExport   = "export"
	JobTypeGenerate = "generate"

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job tracks one asynchronous unit of work against a project. Payload
// carries the job-type-specific options as JSON.
type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	ProjectID string    `json:"project_id,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	Progress  int       `json:"progress"`
	Payload   string    `json:"payload,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigEntry is one key/value row of the engine's settings store.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
