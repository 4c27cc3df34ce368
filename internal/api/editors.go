package api

import (
	"context"
	"errors"
	"sync"

	"github.com/reelbeat/reelbeat-engine/internal/preview"
	"github.com/reelbeat/reelbeat-engine/internal/project"
	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

var errProjectNotFound = errors.New("project not found")

// editorPool holds one live editor and one preview renderer per project,
// so undo history survives across requests and frame caches never leak
// between timelines. Entries are created lazily from the stored timeline
// and dropped when the project is deleted.
type editorPool struct {
	mu       sync.Mutex
	editors  map[string]*timeline.Editor
	previews map[string]*preview.Renderer
	projects project.ProjectService
	preview  *preview.Renderer
}

func newEditorPool(projects project.ProjectService, prototype *preview.Renderer) *editorPool {
	return &editorPool{
		editors:  make(map[string]*timeline.Editor),
		previews: make(map[string]*preview.Renderer),
		projects: projects,
		preview:  prototype,
	}
}

// get returns the live editor for a project, loading it from storage on
// first use.
func (p *editorPool) get(ctx context.Context, projectID string) (*timeline.Editor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ed, ok := p.editors[projectID]; ok {
		return ed, nil
	}

	proj, err := p.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj == nil {
		return nil, errProjectNotFound
	}

	ed := timeline.NewEditor(proj.Timeline)
	p.editors[projectID] = ed
	return ed, nil
}

// previewFor returns the project's own renderer, cloned from the
// prototype on first use so its frame cache is private to the project.
func (p *editorPool) previewFor(projectID string) *preview.Renderer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.preview == nil {
		return nil
	}
	if r, ok := p.previews[projectID]; ok {
		return r
	}
	r := p.preview.Clone()
	p.previews[projectID] = r
	return r
}

// invalidatePreview drops the project's cached frames. Called after every
// persisted document change so stale frames never outlive an edit.
func (p *editorPool) invalidatePreview(projectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.previews[projectID]; ok {
		r.Cache().Clear()
	}
}

// save persists the editor's current document back to the project store
// and invalidates the project's preview cache.
func (p *editorPool) save(ctx context.Context, projectID string, ed *timeline.Editor) error {
	if err := p.projects.SaveTimeline(ctx, projectID, ed.Document()); err != nil {
		return err
	}
	p.invalidatePreview(projectID)
	return nil
}

// drop forgets a project's editor and renderer, discarding its undo
// history and cached frames.
func (p *editorPool) drop(projectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.editors, projectID)
	delete(p.previews, projectID)
}

// replace swaps in a new document (from a bulk engine) as a single
// undoable edit and persists it.
func (p *editorPool) replace(ctx context.Context, projectID string, ed *timeline.Editor, doc timeline.Document) error {
	if err := ed.ReplaceClips(doc.Clips); err != nil {
		return err
	}
	return p.save(ctx, projectID, ed)
}
