package timeline

import (
	"errors"
	"reflect"
	"testing"
)

func testDocument() Document {
	doc := Document{
		Tracks: []Track{
			{ID: "t-video", Name: "Video", Type: TrackTypeVideo, Visible: true},
			{ID: "t-audio", Name: "Audio", Type: TrackTypeAudio, Visible: true},
			{ID: "t-mix", Name: "Text", Type: TrackTypeMix, Visible: true},
		},
		Clips: []Clip{
			{ID: "c1", Title: "Opener", Type: ClipTypeVideo, Start: 0, Duration: 4, TrackID: "t-video", URL: "file:///a.mp4"},
			{ID: "c2", Title: "Verse", Type: ClipTypeImage, Start: 4, Duration: 3, TrackID: "t-video", URL: "file:///b.png"},
			{ID: "c3", Title: "Song", Type: ClipTypeAudio, Start: 0, Duration: 7, TrackID: "t-audio", URL: "file:///song.wav"},
		},
	}
	return doc
}

func TestEditor_SplitClip_PartitionsDuration(t *testing.T) {
	e := NewEditor(testDocument())

	left, right, err := e.SplitClip("c1", 1.5)
	if err != nil {
		t.Fatalf("SplitClip() error = %v", err)
	}

	if left.ID != "c1" {
		t.Errorf("left.ID = %s, want original id c1", left.ID)
	}
	if right.Start != 1.5 {
		t.Errorf("right.Start = %v, want 1.5", right.Start)
	}
	if got := left.Duration + right.Duration; got != 4 {
		t.Errorf("left+right duration = %v, want original 4", got)
	}
	if right.URL != left.URL {
		t.Errorf("right.URL = %s, want copied %s", right.URL, left.URL)
	}
	if len(e.Document().Clips) != 4 {
		t.Errorf("clip count = %d, want 4", len(e.Document().Clips))
	}
}

func TestEditor_SplitClip_OutsideSpan(t *testing.T) {
	e := NewEditor(testDocument())

	for _, at := range []float64{0, 4, -1, 9} {
		if _, _, err := e.SplitClip("c1", at); !errors.Is(err, ErrInvalidSplit) {
			t.Errorf("SplitClip(at=%v) error = %v, want ErrInvalidSplit", at, err)
		}
	}
}

func TestEditor_TrimClip_RejectsNonPositiveDuration(t *testing.T) {
	e := NewEditor(testDocument())

	for _, d := range []float64{0, -0.5} {
		if err := e.TrimClip("c1", 0, d); !errors.Is(err, ErrInvalidTrim) {
			t.Errorf("TrimClip(duration=%v) error = %v, want ErrInvalidTrim", d, err)
		}
	}

	// Document unchanged after rejection.
	if got := e.Document().Clip("c1").Duration; got != 4 {
		t.Errorf("clip duration after rejected trim = %v, want 4", got)
	}
}

func TestEditor_TrimClip_BothEdges(t *testing.T) {
	e := NewEditor(testDocument())

	if err := e.TrimClip("c1", 1, 2.5); err != nil {
		t.Fatalf("TrimClip() error = %v", err)
	}
	clip := e.Document().Clip("c1")
	if clip.Start != 1 || clip.Duration != 2.5 {
		t.Errorf("clip = start %v duration %v, want 1, 2.5", clip.Start, clip.Duration)
	}
}

func TestEditor_MoveClip_ClampsNegativeStart(t *testing.T) {
	e := NewEditor(testDocument())

	if err := e.MoveClip("c2", -3); err != nil {
		t.Fatalf("MoveClip() error = %v", err)
	}
	if got := e.Document().Clip("c2").Start; got != 0 {
		t.Errorf("clip start = %v, want 0", got)
	}
}

func TestEditor_LockedClipRejectsMutation(t *testing.T) {
	doc := testDocument()
	doc.Clips[0].Locked = true
	e := NewEditor(doc)

	if err := e.MoveClip("c1", 2); !errors.Is(err, ErrClipLocked) {
		t.Errorf("MoveClip() error = %v, want ErrClipLocked", err)
	}
	if err := e.TrimClip("c1", 0, 1); !errors.Is(err, ErrClipLocked) {
		t.Errorf("TrimClip() error = %v, want ErrClipLocked", err)
	}
	if err := e.DeleteClip("c1"); !errors.Is(err, ErrClipLocked) {
		t.Errorf("DeleteClip() error = %v, want ErrClipLocked", err)
	}
}

func TestEditor_LockedTrackRejectsClipMutation(t *testing.T) {
	e := NewEditor(testDocument())

	if err := e.SetTrackLocked("t-video", true); err != nil {
		t.Fatalf("SetTrackLocked() error = %v", err)
	}
	if err := e.MoveClip("c1", 2); !errors.Is(err, ErrTrackLocked) {
		t.Errorf("MoveClip() error = %v, want ErrTrackLocked", err)
	}
	// Audio track untouched, so the audio clip still moves.
	if err := e.MoveClip("c3", 1); err != nil {
		t.Errorf("MoveClip(audio) error = %v", err)
	}
}

func TestEditor_CollisionPolicy(t *testing.T) {
	doc := testDocument()
	doc.Clips[1].Locked = true
	e := NewEditor(doc, WithCollisionPolicy(RejectLockedOverlap))

	// c2 is locked at [4,7); moving c1 to overlap it must be rejected.
	if err := e.MoveClip("c1", 3); !errors.Is(err, ErrCollision) {
		t.Errorf("MoveClip() error = %v, want ErrCollision", err)
	}
	// A non-overlapping move passes.
	if err := e.MoveClip("c1", 8); err != nil {
		t.Errorf("MoveClip() error = %v", err)
	}
}

func TestEditor_UndoRedoRoundTrip(t *testing.T) {
	e := NewEditor(testDocument())
	before := e.Document()

	if err := e.MoveClip("c1", 10); err != nil {
		t.Fatalf("MoveClip() error = %v", err)
	}
	if err := e.TrimClip("c2", 4, 2); err != nil {
		t.Fatalf("TrimClip() error = %v", err)
	}
	if err := e.DeleteClip("c3"); err != nil {
		t.Fatalf("DeleteClip() error = %v", err)
	}
	mutated := e.Document()

	for i := 0; i < 3; i++ {
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo() #%d error = %v", i, err)
		}
	}
	if !reflect.DeepEqual(e.Document(), before) {
		t.Errorf("document after 3 undos differs from initial state")
	}

	for i := 0; i < 3; i++ {
		if err := e.Redo(); err != nil {
			t.Fatalf("Redo() #%d error = %v", i, err)
		}
	}
	if !reflect.DeepEqual(e.Document(), mutated) {
		t.Errorf("document after 3 redos differs from mutated state")
	}
}

func TestEditor_NewEditClearsRedo(t *testing.T) {
	e := NewEditor(testDocument())

	if err := e.MoveClip("c1", 10); err != nil {
		t.Fatalf("MoveClip() error = %v", err)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !e.CanRedo() {
		t.Fatal("CanRedo() = false after undo, want true")
	}

	if err := e.MoveClip("c2", 6); err != nil {
		t.Fatalf("MoveClip() error = %v", err)
	}
	if e.CanRedo() {
		t.Error("CanRedo() = true after new edit, want false")
	}
	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
}

func TestEditor_UndoAtStart(t *testing.T) {
	e := NewEditor(testDocument())
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
}

func TestEditor_AddClips_ValidatesTrack(t *testing.T) {
	e := NewEditor(testDocument())

	err := e.AddClips(Clip{Type: ClipTypeAudio, Start: 0, Duration: 2, TrackID: "t-video"})
	if !errors.Is(err, ErrTrackIncompatible) {
		t.Errorf("AddClips() error = %v, want ErrTrackIncompatible", err)
	}

	err = e.AddClips(Clip{Type: ClipTypeVideo, Start: 0, Duration: 2, TrackID: "missing"})
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("AddClips() error = %v, want ErrTrackNotFound", err)
	}

	if err := e.AddClips(Clip{Type: ClipTypeText, Start: 0, Duration: 2, TrackID: "t-mix"}); err != nil {
		t.Fatalf("AddClips() error = %v", err)
	}
	clips := e.Document().Clips
	if clips[len(clips)-1].ID == "" {
		t.Error("added clip was not assigned an id")
	}
}

func TestDocument_SerializationRoundTrip(t *testing.T) {
	doc := testDocument()
	doc.Clips[0].Metadata = Metadata{
		Prompt:     "neon skyline",
		Scene:      &SceneMeta{SceneID: "s1", Index: 0},
		Transition: &Transition{ID: "tr1", Type: "crossfade", Duration: 0.5, Enabled: true},
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument() error = %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round-tripped document differs from original")
	}
}

func TestDocument_Duration(t *testing.T) {
	doc := testDocument()
	if got := doc.Duration(); got != 7 {
		t.Errorf("Duration() = %v, want 7", got)
	}
	if got := (Document{}).Duration(); got != 0 {
		t.Errorf("empty Duration() = %v, want 0", got)
	}
}
