package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/reelbeat/reelbeat-engine/internal/beats"
	"github.com/reelbeat/reelbeat-engine/internal/library"
	"github.com/reelbeat/reelbeat-engine/internal/project"
	"github.com/reelbeat/reelbeat-engine/internal/scenes"
	"github.com/reelbeat/reelbeat-engine/internal/subtitles"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
	"github.com/reelbeat/reelbeat-engine/internal/transitions"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State         string       `json:"state"`
	LastError     string       `json:"last_error,omitempty"`
	ProjectsCount int          `json:"projects_count"`
	AssetsCount   int          `json:"assets_count"`
	JobsRunning   int          `json:"jobs_running"`
	ActiveJob     *JobResponse `json:"active_job,omitempty"`
}

type CreateProjectRequest struct {
	Title    string         `json:"title"`
	Scenes   []scenes.Scene `json:"scenes,omitempty"`
	AudioURL string         `json:"audio_url,omitempty"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 200)),
	)
}

type RenameProjectRequest struct {
	Title string `json:"title"`
}

func (r RenameProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

type ProjectResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Timeline  *timeline.Document `json:"timeline,omitempty"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// Timeline operation names accepted by the ops endpoint.
const (
	OpAdd             = "add"
	OpMove            = "move"
	OpTrim            = "trim"
	OpSplit           = "split"
	OpDelete          = "delete"
	OpSetTrackVisible = "set_track_visible"
	OpSetTrackLocked  = "set_track_locked"
)

type TimelineOpRequest struct {
	Op       string          `json:"op"`
	ClipID   string          `json:"clip_id,omitempty"`
	TrackID  string          `json:"track_id,omitempty"`
	Clips    []timeline.Clip `json:"clips,omitempty"`
	Start    float64         `json:"start,omitempty"`
	Duration float64         `json:"duration,omitempty"`
	At       float64         `json:"at,omitempty"`
	Value    bool            `json:"value,omitempty"`
}

func (r TimelineOpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Op, validation.Required,
			validation.In(OpAdd, OpMove, OpTrim, OpSplit, OpDelete, OpSetTrackVisible, OpSetTrackLocked)),
	)
}

type TimelineResponse struct {
	Timeline timeline.Document `json:"timeline"`
	Duration float64           `json:"duration"`
	CanUndo  bool              `json:"can_undo"`
	CanRedo  bool              `json:"can_redo"`
}

type TransitionsRequest struct {
	Type     string  `json:"type,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Easing   string  `json:"easing,omitempty"`
	SkipLast bool    `json:"skip_last,omitempty"`
}

func (r TransitionsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.In(
			transitions.TypeNone, transitions.TypeCrossfade, transitions.TypeFade,
			transitions.TypeSlide, transitions.TypeWipe, transitions.TypeZoom)),
		validation.Field(&r.Duration, validation.Min(0.0), validation.Max(10.0)),
	)
}

type TransitionsReportResponse struct {
	OK       bool                `json:"ok"`
	Errors   []transitions.Issue `json:"errors,omitempty"`
	Warnings []transitions.Issue `json:"warnings,omitempty"`
}

type GradingRequest struct {
	Preset   string                 `json:"preset,omitempty"`
	Settings *timeline.ColorGrading `json:"settings,omitempty"`
}

func (r GradingRequest) Validate() error {
	if r.Preset == "" && r.Settings == nil {
		return validation.Errors{"preset": validation.NewError("validation_required", "preset or settings required")}.Filter()
	}
	return nil
}

type StyleRequest struct {
	Template string `json:"template"`
}

func (r StyleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Template, validation.Required),
	)
}

type SubtitlesRequest struct {
	Transcript      string  `json:"transcript"`
	MaxWordsPerLine int     `json:"max_words_per_line,omitempty"`
	MinDisplayTime  float64 `json:"min_display_time,omitempty"`
	MaxDisplayTime  float64 `json:"max_display_time,omitempty"`
}

func (r SubtitlesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Transcript, validation.Required),
		validation.Field(&r.MaxWordsPerLine, validation.Min(0), validation.Max(30)),
	)
}

type SubtitlesResponse struct {
	Lines []subtitles.Line `json:"lines"`
}

type BeatsResponse struct {
	Analysis beats.Analysis `json:"analysis"`
}

type ExportRequest struct {
	IncludeAudio bool   `json:"include_audio"`
	Resolution   string `json:"resolution,omitempty"`
	FPS          int    `json:"fps,omitempty"`
	Format       string `json:"format,omitempty"`
	Quality      string `json:"quality,omitempty"`
}

func (r ExportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Resolution, validation.In("720p", "1080p", "4k")),
		validation.Field(&r.FPS, validation.Min(0), validation.Max(120)),
		validation.Field(&r.Quality, validation.In("low", "medium", "high")),
	)
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	ProjectID string `json:"project_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Progress  int    `json:"progress"`
	VideoURL  string `json:"video_url,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type AddFolderRequest struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name,omitempty"`
}

func (r AddFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
	)
}

type FolderResponse struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Present     bool   `json:"present"`
	CreatedAt   string `json:"created_at"`
}

type FoldersResponse struct {
	Folders []FolderResponse `json:"folders"`
}

type ScanResponse struct {
	Assets int `json:"assets"`
}

type AssetResponse struct {
	ID        string `json:"id"`
	FolderID  string `json:"folder_id"`
	Filename  string `json:"filename"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ProjectToResponse(p *project.Project, includeTimeline bool) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if includeTimeline {
		doc := p.Timeline
		resp.Timeline = &doc
	}
	return resp
}

func JobToResponse(j *project.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		ProjectID: j.ProjectID,
		Stage:     j.Stage,
		Progress:  j.Progress,
		VideoURL:  j.VideoURL,
		FileSize:  j.FileSize,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}

func FolderToResponse(f *library.Folder) FolderResponse {
	return FolderResponse{
		ID:          f.ID,
		Path:        f.Path,
		DisplayName: f.DisplayName,
		Present:     f.Present,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}

func AssetToResponse(a *library.Asset) AssetResponse {
	return AssetResponse{
		ID:        a.ID,
		FolderID:  a.FolderID,
		Filename:  a.Filename,
		Kind:      a.Kind,
		Size:      a.Size,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}
