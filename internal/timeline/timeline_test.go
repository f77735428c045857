package timeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/storyrig/internal/camera"
	"github.com/ivlev/storyrig/internal/expression"
	"github.com/ivlev/storyrig/internal/transition"
)

func twoScenes() []Scene {
	return []Scene{
		{ID: "s1", Start: 0, End: 100},
		{ID: "s2", Start: 100, End: 200},
	}
}

func TestSceneBoundaries(t *testing.T) {
	tl, err := New(twoScenes())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tests := []struct {
		frame int
		want  string
	}{
		{0, "s1"},
		{99, "s1"},
		{100, "s2"},
		{199, "s2"},
		{200, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		f := tl.Resolve(tt.frame)
		got := ""
		if f.Active() {
			got = f.Scene.ID
		}
		if got != tt.want {
			t.Errorf("Resolve(%d) scene = %q, want %q", tt.frame, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		scenes []Scene
		want   error
	}{
		{"ok", twoScenes(), nil},
		{"gap is fine", []Scene{{ID: "a", Start: 0, End: 10}, {ID: "b", Start: 20, End: 30}}, nil},
		{"empty", []Scene{{ID: "a", Start: 10, End: 10}}, ErrEmptyInterval},
		{"inverted", []Scene{{ID: "a", Start: 10, End: 5}}, ErrEmptyInterval},
		{"unordered", []Scene{{ID: "b", Start: 100, End: 200}, {ID: "a", Start: 0, End: 100}}, ErrUnordered},
		{"overlap", []Scene{{ID: "a", Start: 0, End: 101}, {ID: "b", Start: 100, End: 200}}, ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.scenes)
			if tt.want == nil {
				if err != nil {
					t.Errorf("New() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUncheckedLaterSceneWins(t *testing.T) {
	tl := Unchecked([]Scene{
		{ID: "base", Start: 0, End: 300},
		{ID: "insert", Start: 100, End: 150},
	})
	for frame, want := range map[int]string{50: "base", 100: "insert", 149: "insert", 150: "base"} {
		if got := tl.Resolve(frame).Scene.ID; got != want {
			t.Errorf("Resolve(%d) = %q, want %q", frame, got, want)
		}
	}
}

func TestExpressionCarryOver(t *testing.T) {
	tl, err := New([]Scene{
		{ID: "s1", Start: 0, End: 100, Characters: []Placement{{ID: "presenter", Emotion: expression.Happy}}},
		{ID: "s2", Start: 100, End: 200, Characters: []Placement{
			{ID: "presenter", Emotion: expression.Sad},
			{ID: "guest", Emotion: expression.Excited},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := tl.Resolve(105)
	presenter, guest := f.Characters[0], f.Characters[1]

	want := expression.Transition{From: expression.Happy, To: expression.Sad, StartFrame: 100}
	if presenter.Expression != want {
		t.Errorf("presenter transition = %+v, want %+v", presenter.Expression, want)
	}
	if math.Abs(presenter.ExpressionProgress-0.5) > 1e-9 {
		t.Errorf("presenter progress = %v, want 0.5", presenter.ExpressionProgress)
	}
	if guest.Expression.From != expression.Excited || guest.ExpressionProgress != 1 {
		t.Errorf("guest = %+v, want settled on excited", guest)
	}

	if p := tl.Resolve(100).Characters[0].ExpressionProgress; p != 0 {
		t.Errorf("progress at scene start = %v, want 0", p)
	}
	if p := tl.Resolve(150).Characters[0].ExpressionProgress; p != 1 {
		t.Errorf("progress long after start = %v, want 1", p)
	}
}

func TestUnknownEmotionFallsBack(t *testing.T) {
	tl := Unchecked([]Scene{{ID: "s", Start: 0, End: 10, Characters: []Placement{{ID: "a", Emotion: "grumpy"}}}})
	if got := tl.Resolve(0).Characters[0].Expression.To; got != expression.Default {
		t.Errorf("emotion = %q, want %q", got, expression.Default)
	}
}

func TestCameraCarryOver(t *testing.T) {
	tl, err := New([]Scene{
		{ID: "s1", Start: 0, End: 100, Camera: &camera.Pose{X: 100, Y: 100, Zoom: 1}},
		{ID: "s2", Start: 100, End: 200, Camera: &camera.Pose{X: 300, Y: 500, Zoom: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := tl.Resolve(50).Camera; got != (camera.Pose{X: 100, Y: 100, Zoom: 1}) {
		t.Errorf("s1 camera = %+v", got)
	}
	if got := tl.Resolve(100).Camera; got != (camera.Pose{X: 100, Y: 100, Zoom: 1}) {
		t.Errorf("camera at cut = %+v, want previous pose", got)
	}
	mid := tl.Resolve(115).Camera
	if math.Abs(mid.X-200) > 1e-9 || math.Abs(mid.Zoom-1.5) > 1e-9 {
		t.Errorf("camera mid-move = %+v, want x=200 zoom=1.5", mid)
	}
	if got := tl.Resolve(130).Camera; got != (camera.Pose{X: 300, Y: 500, Zoom: 2}) {
		t.Errorf("camera after move = %+v", got)
	}
}

func TestTransitionProgress(t *testing.T) {
	tl, err := New([]Scene{{
		ID: "s", Start: 100, End: 200,
		Transition: &transition.Spec{Type: transition.Fade, Duration: 20},
		Exit:       &transition.Spec{Type: transition.Fade, Duration: 10},
	}})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		frame       int
		entry, exit float64
	}{
		{100, 0, 0},
		{110, 0.5, 0},
		{120, 1, 0},
		{189, 1, 0},
		{190, 1, 0.1},
		{199, 1, 1},
	}
	for _, tt := range tests {
		f := tl.Resolve(tt.frame)
		if math.Abs(f.Entry-tt.entry) > 1e-9 || math.Abs(f.Exit-tt.exit) > 1e-9 {
			t.Errorf("Resolve(%d) entry/exit = %v/%v, want %v/%v", tt.frame, f.Entry, f.Exit, tt.entry, tt.exit)
		}
	}
}

func TestPlacementResolution(t *testing.T) {
	x, scale := 400.0, 2.0
	tl := Unchecked([]Scene{{ID: "s", Start: 30, End: 90, Characters: []Placement{
		{ID: "a", Position: "front-left", X: &x, Scale: &scale, GestureStart: 12},
		{ID: "b"},
	}}})
	f := tl.Resolve(40)
	a, b := f.Characters[0], f.Characters[1]
	if a.Position.X != 400 {
		t.Errorf("x override = %v, want 400", a.Position.X)
	}
	if math.Abs(a.Position.Scale-2.1) > 1e-9 {
		t.Errorf("scale = %v, want 2.1", a.Position.Scale)
	}
	if a.GestureStart != 42 {
		t.Errorf("gesture start = %d, want 42", a.GestureStart)
	}
	if b.Placement.AssetID() != "b" {
		t.Errorf("asset id = %q, want b", b.Placement.AssetID())
	}
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	tl, err := New(twoScenes())
	if err != nil {
		t.Fatal(err)
	}
	tl.Scenes[1].Characters = []Placement{{ID: "presenter", Emotion: expression.Happy, Talking: true}}
	tl.Scenes[1].Transition = &transition.Spec{Type: transition.WipeLeft, Duration: 12}

	for _, name := range []string{"timeline.yaml", "timeline.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Write(tl, path); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(got.Scenes) != 2 || got.Scenes[1].Characters[0].Emotion != expression.Happy {
				t.Errorf("round trip lost scenes: %+v", got.Scenes)
			}
			if got.Scenes[1].Transition == nil || got.Scenes[1].Transition.Duration != 12 {
				t.Errorf("round trip lost transition: %+v", got.Scenes[1].Transition)
			}
		})
	}
}

func TestReadRejectsOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	yml := "version: \"1.0\"\nscenes:\n  - {id: a, start: 0, end: 50}\n  - {id: b, start: 40, end: 90}\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrOverlap) {
		t.Errorf("Read() error = %v, want ErrOverlap", err)
	}
	tl, err := ReadUnchecked(path)
	if err != nil {
		t.Fatalf("ReadUnchecked() error = %v", err)
	}
	if got := tl.Resolve(45).Scene.ID; got != "b" {
		t.Errorf("overlap resolves to %q, want b", got)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.yaml")
	newer := filepath.Join(dir, "new.json")
	for _, p := range []string{old, newer, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest() error = %v", err)
	}
	if got != newer {
		t.Errorf("FindLatest() = %s, want %s", got, newer)
	}

	// A dangling link is newer than every real file but cannot be read.
	if err := os.Symlink(filepath.Join(dir, "gone.yaml"), filepath.Join(dir, "broken.yaml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	got, err = FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest() with dangling link error = %v", err)
	}
	if got != newer {
		t.Errorf("FindLatest() with dangling link = %s, want %s", got, newer)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("FindLatest() on empty dir should fail")
	}
}
