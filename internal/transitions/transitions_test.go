package transitions

import (
	"math"
	"testing"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

func sequence() []timeline.Clip {
	return []timeline.Clip{
		{ID: "v1", Type: timeline.ClipTypeVideo, Start: 0, Duration: 3},
		{ID: "a1", Type: timeline.ClipTypeAudio, Start: 0, Duration: 10},
		{ID: "i1", Type: timeline.ClipTypeImage, Start: 3, Duration: 3},
		{ID: "v2", Type: timeline.ClipTypeVideo, Start: 6, Duration: 4},
	}
}

func TestApplyAuto_VisualClipsOnly(t *testing.T) {
	out := ApplyAuto(sequence(), TypeCrossfade, DefaultOptions())

	if out[1].Metadata.Transition != nil {
		t.Error("audio clip received a transition")
	}
	for _, i := range []int{0, 2, 3} {
		if out[i].Metadata.Transition == nil {
			t.Fatalf("visual clip %s missing transition", out[i].ID)
		}
	}

	// First visual clip is skipped by default: disabled none-transition.
	first := out[0].Metadata.Transition
	if first.Enabled || first.Type != TypeNone {
		t.Errorf("first transition = %+v, want disabled none", first)
	}
	// Last clip keeps its transition by default.
	last := out[3].Metadata.Transition
	if !last.Enabled || last.Type != TypeCrossfade {
		t.Errorf("last transition = %+v, want enabled crossfade", last)
	}
	if last.Duration != DefaultDuration {
		t.Errorf("transition duration = %v, want %v", last.Duration, DefaultDuration)
	}
}

func TestApplyAuto_SkipLast(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipLast = true
	out := ApplyAuto(sequence(), TypeSlide, opts)

	last := out[3].Metadata.Transition
	if last.Enabled || last.Type != TypeNone {
		t.Errorf("last transition = %+v, want disabled none with SkipLast", last)
	}
}

func TestApplyAuto_DoesNotMutateInput(t *testing.T) {
	in := sequence()
	ApplyAuto(in, TypeFade, DefaultOptions())
	for _, c := range in {
		if c.Metadata.Transition != nil {
			t.Fatalf("input clip %s was mutated", c.ID)
		}
	}
}

func TestSetEnabled_PreservesDescriptor(t *testing.T) {
	clips := ApplyAuto(sequence(), TypeWipe, DefaultOptions())

	disabled := SetEnabled(clips, "v2", false)
	tr := disabled[3].Metadata.Transition
	if tr.Enabled {
		t.Fatal("transition still enabled after disable")
	}
	if tr.Type != TypeWipe || tr.Duration != DefaultDuration {
		t.Errorf("descriptor lost on disable: %+v", tr)
	}

	restored := SetEnabled(disabled, "v2", true)
	tr = restored[3].Metadata.Transition
	if !tr.Enabled || tr.Type != TypeWipe || tr.Duration != DefaultDuration {
		t.Errorf("descriptor not restored on re-enable: %+v", tr)
	}
}

func withTransition(c timeline.Clip, duration float64) timeline.Clip {
	c.Metadata.Transition = &timeline.Transition{
		ID: "tr-" + c.ID, Type: TypeCrossfade, Duration: duration, Enabled: true,
	}
	return c
}

func TestValidate_DurationError(t *testing.T) {
	clips := []timeline.Clip{
		withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Start: 0, Duration: 2}, 3),
	}

	report := Validate(clips)
	if report.OK() {
		t.Fatal("report.OK() = true for transition longer than clip")
	}
	if len(report.Errors) != 1 || report.Errors[0].ClipID != "v1" {
		t.Errorf("errors = %+v, want one error for v1", report.Errors)
	}
}

func TestValidate_HalfDurationWarning(t *testing.T) {
	clips := []timeline.Clip{
		withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Start: 0, Duration: 2}, 1.5),
	}

	report := Validate(clips)
	if !report.OK() {
		t.Fatalf("errors = %+v, want none for 75%% transition", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %+v, want one", report.Warnings)
	}
}

func TestValidate_OverlapWarning(t *testing.T) {
	clips := []timeline.Clip{
		withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Start: 0, Duration: 4}, 1),
		{ID: "v2", Type: timeline.ClipTypeVideo, Start: 3.5, Duration: 2},
	}

	report := Validate(clips)
	if len(report.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want one overlap warning", report.Warnings)
	}
	if len(report.Errors) != 0 {
		t.Errorf("errors = %+v, want none", report.Errors)
	}
}

func TestValidate_DisabledIgnored(t *testing.T) {
	c := withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Start: 0, Duration: 1}, 5)
	c.Metadata.Transition.Enabled = false

	report := Validate([]timeline.Clip{c})
	if !report.OK() || len(report.Warnings) != 0 {
		t.Errorf("disabled transition produced findings: %+v", report)
	}
}

func TestTotalDuration(t *testing.T) {
	clips := []timeline.Clip{
		withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Duration: 3}, 0.5),
		withTransition(timeline.Clip{ID: "v2", Type: timeline.ClipTypeVideo, Duration: 4}, 0.5),
		{ID: "v3", Type: timeline.ClipTypeVideo, Duration: 2},
	}

	if got := TotalDuration(clips); math.Abs(got-8) > 1e-9 {
		t.Errorf("TotalDuration() = %v, want 8", got)
	}
}

func TestTotalDuration_FloorsAtZero(t *testing.T) {
	clips := []timeline.Clip{
		withTransition(timeline.Clip{ID: "v1", Type: timeline.ClipTypeVideo, Duration: 1}, 5),
	}
	if got := TotalDuration(clips); got != 0 {
		t.Errorf("TotalDuration() = %v, want 0", got)
	}
}
