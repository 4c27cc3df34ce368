// Package render is the client for the remote render and media-generation
// service: submit a flattened clip sequence, poll job status, and request
// image/video generation.
package render

// Stage values reported by the remote service.
const (
	StageQueued    = "queued"
	StageRendering = "rendering"
	StageEncoding  = "encoding"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// Segment kinds discriminate real clips from synthesized black filler.
const (
	SegmentClip  = "clip"
	SegmentBlack = "black"
)

// Segment is one element of the flattened sequence sent to the renderer.
// Filler segments carry no URL.
type Segment struct {
	Kind     string  `json:"kind"`
	URL      string  `json:"url,omitempty"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// AudioSegment is one audio clip mixed under the sequence.
type AudioSegment struct {
	URL      string  `json:"url"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Request is the render submission payload.
type Request struct {
	Sequence   []Segment      `json:"sequence"`
	AudioClips []AudioSegment `json:"audio_clips,omitempty"`
	Duration   float64        `json:"duration"`
	Resolution string         `json:"resolution"`
	FPS        int            `json:"fps"`
	Format     string         `json:"format"`
	Quality    string         `json:"quality"`
}

// Status is one poll of a render job.
type Status struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	VideoURL string `json:"video_url,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GenerationRequest asks the service for a generated image or video.
type GenerationRequest struct {
	Kind         string `json:"kind"` // "image" or "video"
	Prompt       string `json:"prompt"`
	ReferenceURL string `json:"reference_url,omitempty"`
}

// GenerationResult is either an immediate URL or a pollable task id.
type GenerationResult struct {
	URL    string `json:"url,omitempty"`
	TaskID string `json:"task_id,omitempty"`
}

// Generation task states.
const (
	GenPending    = "pending"
	GenProcessing = "processing"
	GenCompleted  = "completed"
	GenFailed     = "failed"
)

// GenerationStatus is one poll of a generation task.
type GenerationStatus struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Error  string `json:"error,omitempty"`
}
