package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

func getTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ed, err := cfg.editors.get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeEditorError(w, err)
			return
		}
		writeTimeline(w, ed)
	}
}

func timelineOpHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimelineOpRequest
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

		if err := applyTimelineOp(ed, req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if err := cfg.editors.save(r.Context(), projectID, ed); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func applyTimelineOp(ed *timeline.Editor, req TimelineOpRequest) error {
	switch req.Op {
	case OpAdd:
		return ed.AddClips(req.Clips...)
	case OpMove:
		return ed.MoveClip(req.ClipID, req.Start)
	case OpTrim:
		return ed.TrimClip(req.ClipID, req.Start, req.Duration)
	case OpSplit:
		_, _, err := ed.SplitClip(req.ClipID, req.At)
		return err
	case OpDelete:
		return ed.DeleteClip(req.ClipID)
	case OpSetTrackVisible:
		return ed.SetTrackVisible(req.TrackID, req.Value)
	case OpSetTrackLocked:
		return ed.SetTrackLocked(req.TrackID, req.Value)
	default:
		return errors.New("unknown operation: " + req.Op)
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		if err := ed.Undo(); err != nil {
			WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
			return
		}

		if err := cfg.editors.save(r.Context(), projectID, ed); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		ed, err := cfg.editors.get(r.Context(), projectID)
		if err != nil {
			writeEditorError(w, err)
			return
		}

		if err := ed.Redo(); err != nil {
			WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
			return
		}

		if err := cfg.editors.save(r.Context(), projectID, ed); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		writeTimeline(w, ed)
	}
}

func writeTimeline(w http.ResponseWriter, ed *timeline.Editor) {
	WriteJSON(w, http.StatusOK, TimelineResponse{
		Timeline: ed.Document(),
		Duration: ed.Duration(),
		CanUndo:  ed.CanUndo(),
		CanRedo:  ed.CanRedo(),
	})
}

func writeEditorError(w http.ResponseWriter, err error) {
	if errors.Is(err, errProjectNotFound) {
		WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
}
