package timeline

import "fmt"

// DefaultMaxHistory bounds the undo stack depth.
const DefaultMaxHistory = 100

// CollisionPolicy decides whether a clip may be placed at newStart. The
// default policy permits overlap; callers wanting drag-style collision
// avoidance install a stricter policy. Returning an error rejects the move.
type CollisionPolicy func(doc Document, clip Clip, newStart float64) error

// AllowOverlap is the default collision policy: any placement is accepted.
func AllowOverlap(Document, Clip, float64) error { return nil }

// RejectLockedOverlap rejects a move that would overlap a locked clip on the
// same track, mirroring the drag constraint of the editing surface.
func RejectLockedOverlap(doc Document, clip Clip, newStart float64) error {
	newEnd := newStart + clip.Duration
	for _, other := range doc.Clips {
		if other.ID == clip.ID || other.TrackID != clip.TrackID || !other.Locked {
			continue
		}
		if newStart < other.End() && newEnd > other.Start {
			return fmt.Errorf("%w: overlaps locked clip %s", ErrCollision, other.ID)
		}
	}
	return nil
}

// Editor owns the authoritative document and its undo/redo history. Every
// structural mutation pushes a snapshot; undo/redo move a cursor through the
// snapshot list, and a new mutation after an undo discards the redo tail.
type Editor struct {
	doc        Document
	history    []Document
	cursor     int
	maxHistory int
	collision  CollisionPolicy
}

// EditorOption configures a new Editor.
type EditorOption func(*Editor)

// WithCollisionPolicy installs a collision policy consulted by MoveClip.
func WithCollisionPolicy(p CollisionPolicy) EditorOption {
	return func(e *Editor) { e.collision = p }
}

// WithMaxHistory bounds the snapshot stack depth.
func WithMaxHistory(n int) EditorOption {
	return func(e *Editor) {
		if n > 0 {
			e.maxHistory = n
		}
	}
}

// NewEditor creates an editor seeded with the given document as the first
// history snapshot.
func NewEditor(doc Document, opts ...EditorOption) *Editor {
	e := &Editor{
		doc:        doc.Clone(),
		history:    []Document{doc.Clone()},
		cursor:     0,
		maxHistory: DefaultMaxHistory,
		collision:  AllowOverlap,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns a copy of the current document.
func (e *Editor) Document() Document {
	return e.doc.Clone()
}

// Duration returns the current document duration.
func (e *Editor) Duration() float64 {
	return e.doc.Duration()
}

func (e *Editor) commit() {
	// Discard the redo tail before appending, then trim from the front if the
	// stack exceeds its bound.
	e.history = append(e.history[:e.cursor+1], e.doc.Clone())
	if len(e.history) > e.maxHistory {
		e.history = e.history[len(e.history)-e.maxHistory:]
	}
	e.cursor = len(e.history) - 1
}

// guard returns the clip and verifies neither it nor its track is locked.
func (e *Editor) guard(clipID string) (*Clip, error) {
	clip := e.doc.Clip(clipID)
	if clip == nil {
		return nil, fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	if clip.Locked {
		return nil, fmt.Errorf("%w: %s", ErrClipLocked, clipID)
	}
	if track := e.doc.Track(clip.TrackID); track != nil && track.Locked {
		return nil, fmt.Errorf("%w: %s", ErrTrackLocked, clip.TrackID)
	}
	return clip, nil
}

// AddClips appends clips to the document. Each clip must reference an
// existing track of a compatible type; clips without an ID are assigned one.
func (e *Editor) AddClips(clips ...Clip) error {
	for i := range clips {
		if clips[i].ID == "" {
			clips[i].ID = NewID()
		}
		track := e.doc.Track(clips[i].TrackID)
		if track == nil {
			return fmt.Errorf("%w: %s", ErrTrackNotFound, clips[i].TrackID)
		}
		if !track.Accepts(clips[i].Type) {
			return fmt.Errorf("%w: %s clip on %s track", ErrTrackIncompatible, clips[i].Type, track.Type)
		}
		if clips[i].Duration <= 0 {
			return fmt.Errorf("%w: clip %s", ErrInvalidTrim, clips[i].ID)
		}
	}
	e.doc.Clips = append(e.doc.Clips, clips...)
	e.commit()
	return nil
}

// MoveClip sets a new start time for the clip, subject to the collision
// policy. Moves to negative start are clamped to zero.
func (e *Editor) MoveClip(clipID string, newStart float64) error {
	clip, err := e.guard(clipID)
	if err != nil {
		return err
	}
	if newStart < 0 {
		newStart = 0
	}
	if err := e.collision(e.doc, *clip, newStart); err != nil {
		return err
	}
	clip.Start = newStart
	e.commit()
	return nil
}

// TrimClip sets new start and duration, trimming from either edge. A trim
// that would leave a non-positive duration is rejected, not clamped.
func (e *Editor) TrimClip(clipID string, newStart, newDuration float64) error {
	clip, err := e.guard(clipID)
	if err != nil {
		return err
	}
	if newDuration <= 0 {
		return fmt.Errorf("%w: clip %s, duration %v", ErrInvalidTrim, clipID, newDuration)
	}
	if newStart < 0 {
		newStart = 0
	}
	clip.Start = newStart
	clip.Duration = newDuration
	e.commit()
	return nil
}

// SplitClip cuts the clip at the given time, strictly inside its span. The
// left part keeps the original identity; the right part is a new clip
// starting at the split time, sharing URL and metadata.
func (e *Editor) SplitClip(clipID string, at float64) (left, right Clip, err error) {
	clip, err := e.guard(clipID)
	if err != nil {
		return Clip{}, Clip{}, err
	}
	if at <= clip.Start || at >= clip.End() {
		return Clip{}, Clip{}, fmt.Errorf("%w: %v not inside (%v, %v)", ErrInvalidSplit, at, clip.Start, clip.End())
	}

	originalEnd := clip.End()
	clip.Duration = at - clip.Start

	r := cloneClip(*clip)
	r.ID = NewID()
	r.Start = at
	r.Duration = originalEnd - at

	e.doc.Clips = append(e.doc.Clips, r)
	left = *clip
	e.commit()
	return left, r, nil
}

// DeleteClip removes the clip from the document.
func (e *Editor) DeleteClip(clipID string) error {
	if _, err := e.guard(clipID); err != nil {
		return err
	}
	for i := range e.doc.Clips {
		if e.doc.Clips[i].ID == clipID {
			e.doc.Clips = append(e.doc.Clips[:i], e.doc.Clips[i+1:]...)
			break
		}
	}
	e.commit()
	return nil
}

// ReplaceClips swaps the entire clip collection, used by the bulk engines
// (transitions, grading, style templates) that derive a new clip set.
func (e *Editor) ReplaceClips(clips []Clip) error {
	next := e.doc.Clone()
	next.Clips = make([]Clip, len(clips))
	for i, c := range clips {
		next.Clips[i] = cloneClip(c)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	e.doc = next
	e.commit()
	return nil
}

// SetClipURL writes a generated media URL onto a clip, bypassing the lock
// guard: generation results land on the clip that requested them.
func (e *Editor) SetClipURL(clipID, url string) error {
	clip := e.doc.Clip(clipID)
	if clip == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	clip.URL = url
	e.commit()
	return nil
}

// SetTrackVisible toggles a track's visibility flag.
func (e *Editor) SetTrackVisible(trackID string, visible bool) error {
	track := e.doc.Track(trackID)
	if track == nil {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	track.Visible = visible
	e.commit()
	return nil
}

// SetTrackLocked toggles a track's lock flag. Clips on a locked track reject
// move/trim/split/delete.
func (e *Editor) SetTrackLocked(trackID string, locked bool) error {
	track := e.doc.Track(trackID)
	if track == nil {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	track.Locked = locked
	e.commit()
	return nil
}

// CanUndo reports whether an earlier snapshot exists.
func (e *Editor) CanUndo() bool { return e.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (e *Editor) CanRedo() bool { return e.cursor < len(e.history)-1 }

// Undo moves the cursor one snapshot back.
func (e *Editor) Undo() error {
	if !e.CanUndo() {
		return ErrNothingToUndo
	}
	e.cursor--
	e.doc = e.history[e.cursor].Clone()
	return nil
}

// Redo moves the cursor one snapshot forward.
func (e *Editor) Redo() error {
	if !e.CanRedo() {
		return ErrNothingToRedo
	}
	e.cursor++
	e.doc = e.history[e.cursor].Clone()
	return nil
}
