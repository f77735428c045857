package transition

import (
	"math"
	"testing"

	"github.com/ivlev/storyrig/internal/scenegraph"
)

func content() *scenegraph.Node {
	return scenegraph.Fill("bg", scenegraph.Canvas(1920, 1080), "#fff")
}

func TestApplyPassthrough(t *testing.T) {
	c := content()
	tests := []struct {
		name     string
		spec     Spec
		progress float64
	}{
		{"complete", Spec{Type: Fade}, 1},
		{"past complete", Spec{Type: WipeLeft}, 3},
		{"none", Spec{Type: None}, 0.2},
		{"empty", Spec{}, 0.2},
		{"unknown", Spec{Type: "spiral"}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(c, tt.spec, tt.progress, 1920, 1080); got != c {
				t.Errorf("Apply() wrapped content, want passthrough")
			}
		})
	}
}

func TestApplyKinds(t *testing.T) {
	c := content()
	for _, k := range Kinds() {
		if k == None {
			continue
		}
		t.Run(string(k), func(t *testing.T) {
			got := Apply(c, Spec{Type: k, Easing: "linear"}, 0.5, 1920, 1080)
			if got == c || len(got.Children) != 1 || got.Children[0] != c {
				t.Fatalf("Apply() did not wrap content")
			}
			if got.Opacity == 1 && got.Clip == nil && got.Transform == nil {
				t.Errorf("wrapper changes nothing: %+v", got)
			}
		})
	}
}

func TestWipeGeometry(t *testing.T) {
	got := Apply(content(), Spec{Type: WipeRight, Easing: "linear"}, 0.25, 1920, 1080)
	if got.Clip == nil || math.Abs(got.Clip.W-480) > 1e-3 || got.Clip.X != 0 {
		t.Errorf("wipe-right clip = %+v, want x=0 w=480", got.Clip)
	}
	got = Apply(content(), Spec{Type: WipeLeft, Easing: "linear"}, 0.25, 1920, 1080)
	if got.Clip == nil || math.Abs(got.Clip.X-1440) > 1e-3 {
		t.Errorf("wipe-left clip = %+v, want x=1440", got.Clip)
	}
}

func TestFadeStartsInvisible(t *testing.T) {
	got := Apply(content(), Spec{Type: Fade}, 0, 1920, 1080)
	if got.Opacity != 0 {
		t.Errorf("fade at 0 opacity = %v, want 0", got.Opacity)
	}
}

func TestEvalEndpoints(t *testing.T) {
	for name := range curves {
		if got := Eval(name, 0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := Eval(name, 1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v", name, got)
		}
	}
	if got := Eval("mystery", 0.5); math.Abs(got-Eval(DefaultEasing, 0.5)) > 1e-9 {
		t.Errorf("unknown easing = %v, want default curve", got)
	}
}

func TestSpecFrames(t *testing.T) {
	if got := (Spec{}).Frames(); got != DefaultFrames {
		t.Errorf("Frames() = %d, want %d", got, DefaultFrames)
	}
	if got := (Spec{Duration: 40}).Frames(); got != 40 {
		t.Errorf("Frames() = %d, want 40", got)
	}
}
