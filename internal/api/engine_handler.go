package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelbeat/reelbeat-engine/internal/beats"
	"github.com/reelbeat/reelbeat-engine/internal/export"
	"github.com/reelbeat/reelbeat-engine/internal/grading"
	"github.com/reelbeat/reelbeat-engine/internal/styles"
	"github.com/reelbeat/reelbeat-engine/internal/subtitles"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
	"github.com/reelbeat/reelbeat-engine/internal/transitions"
)

// replaceTextClips swaps a timeline's caption clips for a freshly generated
// set, leaving every other clip untouched.
func replaceTextClips(clips, captions []timeline.Clip) []timeline.Clip {
	out := make([]timeline.Clip, 0, len(clips)+len(captions))
	for _, c := range clips {
		if c.Type != timeline.ClipTypeText {
			out = append(out, c)
		}
	}
	return append(out, captions...)
}

func analyzeBeatsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		analysis := cfg.BeatAnalyzer.Analyze(r.Context(), r.Body, ed.Duration())

		if r.URL.Query().Get("align") == "true" {
			doc := ed.Document()
			doc.Clips = beats.AlignClipsToBeats(doc.Clips, analysis)
			if err := cfg.editors.replace(r.Context(), projectID, ed, doc); err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
		}

		WriteJSON(w, http.StatusOK, BeatsResponse{Analysis: *analysis})
	}
}

func applyTransitionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransitionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := req.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		transitionType := req.Type
		if transitionType == "" {
			transitionType = transitions.TypeCrossfade
		}
		opts := transitions.DefaultOptions()
		if req.Duration > 0 {
			opts.Duration = req.Duration
		}
		if req.Easing != "" {
			opts.Easing = req.Easing
		}
		opts.SkipLast = req.SkipLast

		doc := ed.Document()
		doc.Clips = transitions.ApplyAuto(doc.Clips, transitionType, opts)
		if err := cfg.editors.replace(r.Context(), projectID, ed, doc); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func validateTransitionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ed, err := cfg.editors.get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeEditorError(w, err)
			return
		}

		report := transitions.Validate(ed.Document().Clips)
		WriteJSON(w, http.StatusOK, TransitionsReportResponse{
			OK:       report.OK(),
			Errors:   report.Errors,
			Warnings: report.Warnings,
		})
	}
}

func listGradingPresetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string][]grading.Preset{"presets": grading.Presets})
	}
}

func applyGradingHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GradingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := req.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		doc := ed.Document()
		if req.Settings != nil {
			doc.Clips = grading.Apply(doc.Clips, *req.Settings)
		} else {
			if grading.PresetByName(req.Preset) == nil {
				WriteError(w, http.StatusBadRequest, "unknown preset: "+req.Preset, "BAD_REQUEST")
				return
			}
			doc.Clips = grading.ApplyPreset(doc.Clips, req.Preset)
		}

		if err := cfg.editors.replace(r.Context(), projectID, ed, doc); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func listStylesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string][]styles.Template{"styles": styles.Templates()})
	}
}

func applyStyleHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StyleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := req.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		tmpl := styles.TemplateByName(req.Template)
		if tmpl == nil {
			WriteError(w, http.StatusBadRequest, "unknown style template: "+req.Template, "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		doc := ed.Document()
		doc.Clips = styles.ApplyTemplate(doc.Clips, tmpl, ed.Duration())
		if err := cfg.editors.replace(r.Context(), projectID, ed, doc); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func generateSubtitlesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubtitlesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := req.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		lines := subtitles.Generate(req.Transcript, ed.Duration(), subtitles.Options{
			MaxWordsPerLine: req.MaxWordsPerLine,
			MinDisplayTime:  req.MinDisplayTime,
			MaxDisplayTime:  req.MaxDisplayTime,
		})

		doc := ed.Document()
		trackID := ""
		for _, tr := range doc.Tracks {
			if tr.Type == timeline.TrackTypeMix {
				trackID = tr.ID
				break
			}
		}
		if trackID == "" {
			WriteError(w, http.StatusConflict, "timeline has no text track", "CONFLICT")
			return
		}

		doc.Clips = replaceTextClips(doc.Clips, subtitles.OnTrack(lines, trackID))
		if err := cfg.editors.replace(r.Context(), projectID, ed, doc); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, SubtitlesResponse{Lines: lines})
	}
}

func downloadSubtitlesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ed, err := cfg.editors.get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeEditorError(w, err)
			return
		}

		lines := subtitles.FromClips(ed.Document().Clips)
		if len(lines) == 0 {
			WriteError(w, http.StatusNotFound, "project has no subtitles", "NOT_FOUND")
			return
		}

		switch r.URL.Query().Get("format") {
		case "vtt":
			w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
			w.Write([]byte(subtitles.FormatVTT(lines)))
		case "", "srt":
			w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
			w.Write([]byte(subtitles.FormatSRT(lines)))
		default:
			WriteError(w, http.StatusBadRequest, "unsupported format", "BAD_REQUEST")
		}
	}
}

func previewFrameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
		if err != nil || t < 0 {
			WriteError(w, http.StatusBadRequest, "invalid playhead time", "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		renderer := cfg.editors.previewFor(projectID)
		if renderer == nil {
			WriteError(w, http.StatusServiceUnavailable, "preview not configured", "UNAVAILABLE")
			return
		}

		frame := renderer.RenderFrame(r.Context(), ed.Document().Clips, t)
		if frame == nil {
			WriteError(w, http.StatusNotFound, "no visual clip at the requested time", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, frame)
	}
}

func downloadEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.ProjectService.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if p == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}

		frameRate := 30.0
		if v := r.URL.Query().Get("fps"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed <= 0 || parsed > 120 {
				WriteError(w, http.StatusBadRequest, "invalid fps", "BAD_REQUEST")
				return
			}
			frameRate = parsed
		}

		name := export.SanitizeName(p.Title, 64)
		if name == "" {
			name = "timeline"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.edl"`)
		w.Write([]byte(export.GenerateEDL(p.Timeline.Clips, p.Title, frameRate)))
	}
}

func startExportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := req.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		job, err := cfg.ProjectService.QueueExport(r.Context(), chi.URLParam(r, "id"), export.Options{
			IncludeAudio: req.IncludeAudio,
			Resolution:   req.Resolution,
			FPS:          req.FPS,
			Format:       req.Format,
			Quality:      req.Quality,
		})
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusAccepted, JobToResponse(job))
	}
}

func startGenerationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := cfg.ProjectService.QueueGeneration(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusAccepted, JobToResponse(job))
	}
}
