package camera

import (
	"math"
	"testing"

	"github.com/ivlev/storyrig/internal/scenegraph"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformCentresPose(t *testing.T) {
	if m := Transform(Default(1920, 1080), 1920, 1080); !m.IsIdentity() {
		t.Errorf("default pose transform = %v, want identity", m)
	}

	m := Transform(Pose{X: 500, Y: 300, Zoom: 2}, 1920, 1080)
	x, y := m.Apply(500, 300)
	if !near(x, 960) || !near(y, 540) {
		t.Errorf("target maps to (%v, %v), want canvas centre", x, y)
	}
	x, y = m.Apply(510, 300)
	if !near(x, 980) || !near(y, 540) {
		t.Errorf("offset point maps to (%v, %v), want (980, 540)", x, y)
	}
}

func TestMoveClampsOutsideWindow(t *testing.T) {
	m := Move{
		From:       Pose{X: 0, Y: 0, Zoom: 1},
		To:         Pose{X: 100, Y: 200, Zoom: 2},
		StartFrame: 10,
		Duration:   30,
	}
	tests := []struct {
		frame int
		want  Pose
	}{
		{0, m.From},
		{10, m.From},
		{25, Pose{X: 50, Y: 100, Zoom: 1.5}},
		{40, m.To},
		{1000, m.To},
	}
	for _, tt := range tests {
		got := m.At(tt.frame)
		if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Zoom, tt.want.Zoom) {
			t.Errorf("At(%d) = %+v, want %+v", tt.frame, got, tt.want)
		}
	}
}

func TestMoveZeroDuration(t *testing.T) {
	m := Move{From: Pose{Zoom: 1}, To: Pose{X: 5, Zoom: 3}}
	if got := m.At(-100); got != m.To {
		t.Errorf("At() = %+v, want %+v", got, m.To)
	}
}

func TestInterpolateKeyframes(t *testing.T) {
	kfs := []Keyframe{
		{Frame: 0, X: 0, Y: 0, Zoom: 1},
		{Frame: 10, X: 100, Y: 100, Zoom: 2},
	}
	fallback := Default(1920, 1080)

	if got := InterpolateKeyframes(nil, 3, fallback); got != fallback {
		t.Errorf("no keyframes = %+v, want fallback", got)
	}
	if got := InterpolateKeyframes(kfs, -3, fallback); got != kfs[0].Pose() {
		t.Errorf("before first = %+v", got)
	}
	if got := InterpolateKeyframes(kfs, 20, fallback); got != kfs[1].Pose() {
		t.Errorf("after last = %+v", got)
	}
	got := InterpolateKeyframes(kfs, 5, fallback)
	if !near(got.X, 50) || !near(got.Zoom, 1.5) {
		t.Errorf("midpoint = %+v, want x=50 zoom=1.5", got)
	}
}

func TestDirectorOverview(t *testing.T) {
	d := NewDirector(1920, 1080)
	regions := []Region{
		{ID: "right", Rect: scenegraph.Rect{X: 900, Y: 100, W: 400, H: 600}},
		{ID: "left", Rect: scenegraph.Rect{X: 100, Y: 105, W: 400, H: 600}},
	}
	kfs := d.Overview(regions, 300)

	wantFrames := []int{0, 30, 120, 210}
	wantFocus := []string{"full_view", "left", "right", "full_view"}
	if len(kfs) != len(wantFrames) {
		t.Fatalf("got %d keyframes, want %d", len(kfs), len(wantFrames))
	}
	for i, kf := range kfs {
		if kf.Frame != wantFrames[i] || kf.Focus != wantFocus[i] {
			t.Errorf("keyframe %d = %d/%s, want %d/%s", i, kf.Frame, kf.Focus, wantFrames[i], wantFocus[i])
		}
	}
	if kfs[1].Zoom < 1 || kfs[1].Zoom > d.MaxZoom {
		t.Errorf("zoom %v outside [1, %v]", kfs[1].Zoom, d.MaxZoom)
	}
}

func TestDirectorFollow(t *testing.T) {
	d := NewDirector(1920, 1080)
	regions := []Region{
		{ID: "a", Rect: scenegraph.Rect{X: 100, Y: 400, W: 200, H: 400}},
		{ID: "b", Rect: scenegraph.Rect{X: 1400, Y: 400, W: 200, H: 400}, Talking: true},
	}
	p := d.Follow(regions)
	if !near(p.X, 1500) || !near(p.Y, 600) {
		t.Errorf("follow centre = (%v, %v), want (1500, 600)", p.X, p.Y)
	}
	if !near(p.Zoom, d.MaxZoom) {
		t.Errorf("follow zoom = %v, want capped at %v", p.Zoom, d.MaxZoom)
	}

	if got := d.Follow(nil); got != Default(1920, 1080) {
		t.Errorf("Follow(nil) = %+v, want full view", got)
	}
}

func TestEvaluateUnknownMode(t *testing.T) {
	fallback := Pose{X: 1, Y: 2, Zoom: 3}
	if got := Evaluate(Path{Mode: "orbit"}, 0, 100, nil, 1920, 1080, fallback); got != fallback {
		t.Errorf("Evaluate() = %+v, want fallback", got)
	}
}

func TestZoomPanFilter(t *testing.T) {
	if got := ZoomPanFilter(nil, 1920, 1080, 30); got != "" {
		t.Errorf("empty path = %q", got)
	}

	static := ZoomPanFilter([]Keyframe{{X: 960, Y: 540, Zoom: 1}}, 1920, 1080, 30)
	want := "zoompan=z='1.000000':x='(960.000000)-iw/zoom/2':y='(540.000000)-ih/zoom/2':d=1:s=1920x1080:fps=30"
	if static != want {
		t.Errorf("static = %q\nwant %q", static, want)
	}

	got := piecewise([]Keyframe{{Frame: 0, Zoom: 1}, {Frame: 30, Zoom: 2}}, func(k Keyframe) float64 { return k.Zoom })
	wantExpr := "if(lt(on,0),1.000000,if(lte(on,30),1.000000+(on-0)/30*(2.000000-1.000000),2.000000))"
	if got != wantExpr {
		t.Errorf("piecewise = %q\nwant %q", got, wantExpr)
	}
}
