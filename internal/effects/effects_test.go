package effects

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ivlev/storyrig/internal/scenegraph"
)

func scene() *scenegraph.Node {
	return scenegraph.Group("scene",
		scenegraph.Fill("bg", scenegraph.Canvas(1920, 1080), "#88aacc"),
		scenegraph.Text("subtitle", scenegraph.Rect{X: 100, Y: 900, W: 1720, H: 120}, "hello"),
	)
}

func kinds(p Pipeline) []StageKind {
	var out []StageKind
	for _, s := range p.Stages {
		out = append(out, s.Kind)
	}
	return out
}

func graphJSON(t *testing.T, root *scenegraph.Node) []byte {
	t.Helper()
	g := scenegraph.Finalize(&scenegraph.Graph{Frame: 12, Width: 1920, Height: 1080, Root: root})
	data, err := g.JSON()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestNonePassthrough(t *testing.T) {
	bare := graphJSON(t, scene())

	for _, cfg := range []Config{{}, {Preset: "none"}, {Preset: "none", Mood: "night"}, {Preset: "glitter"}} {
		content := scene()
		p := cfg.Resolve("", "warm")
		out := p.Apply(content, 12, 1920, 1080)
		if out != content {
			t.Errorf("%+v: Apply() created nodes", cfg)
		}
		if got := graphJSON(t, out); !bytes.Equal(got, bare) {
			t.Errorf("%+v: tree differs from unwrapped render", cfg)
		}
	}
}

func TestPresetStageOrder(t *testing.T) {
	tests := []struct {
		preset string
		want   []StageKind
	}{
		{"subtle", []StageKind{Warp, Grain, Vignette}},
		{"painted", []StageKind{Smoothing, Warp, Grain, Pigment, Vignette}},
		{"storybook", []StageKind{Smoothing, Warp, Grain, Pigment, Grade, Vignette}},
		{"cinematic", []StageKind{FilmGrain, Grade, Vignette}},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			got := kinds(Build(tt.preset, ""))
			if len(got) != len(tt.want) {
				t.Fatalf("stages = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stages = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestCustomStagesAreReordered(t *testing.T) {
	cfg := Config{Stages: []Stage{
		{Kind: Vignette, Params: vignettePresets["soft"]},
		{Kind: Warp, Params: warpPresets["subtle"]},
		{Kind: "sparkle"},
		{Kind: Grain, Params: grainPresets["paper"]},
		{Kind: Warp, Params: warpPresets["wobbly"]},
	}}
	p := cfg.Resolve("", "")
	got := kinds(p)
	want := []StageKind{Warp, Grain, Vignette}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if p.Stages[0].Params != warpPresets["wobbly"] {
		t.Errorf("duplicate warp: got %+v, want last given", p.Stages[0].Params)
	}
}

func TestApplyLayering(t *testing.T) {
	content := scene()
	out := Build("storybook", "").Apply(content, 40, 1920, 1080)

	if out.ID != "effects" {
		t.Fatalf("root = %q, want effects group", out.ID)
	}
	warp := out.Children[0]
	if warp.Filter == nil || warp.Children[0].Filter == nil || warp.Children[0].Children[0] != content {
		t.Fatalf("content stages not nested smoothing inside warp")
	}
	if warp.Filter.Primitives[2].Op != "displacementMap" {
		t.Errorf("outer content filter = %s, want warp", warp.Filter.Primitives[2].Op)
	}

	var ids []string
	for _, n := range out.Children[1:] {
		ids = append(ids, n.ID)
		if n.Kind != scenegraph.KindOverlay {
			t.Errorf("%s kind = %s, want overlay", n.ID, n.Kind)
		}
	}
	want := "overlay-grain,overlay-pigment,overlay-grade,overlay-vignette"
	if got := strings.Join(ids, ","); got != want {
		t.Errorf("overlays = %s, want %s", got, want)
	}
}

func TestWarpDriftIsSlow(t *testing.T) {
	p := warpPresets["wobbly"]
	p.Drift = 50 // capped at MaxDrift

	dxAt := func(frame int) float64 {
		f := WarpFilter(p, frame)
		return f.Primitives[1].Attrs["dx"].(float64)
	}
	for _, frame := range []int{0, 1, 29, 300, 9000} {
		step := math.Abs(dxAt(frame+1) - dxAt(frame))
		if step > MaxDrift/30+1e-4 {
			t.Errorf("frame %d: drift step %v px", frame, step)
		}
	}
	if perSecond := dxAt(30) - dxAt(0); perSecond >= 1 {
		t.Errorf("drift %v px/s, want < 1", perSecond)
	}
	if seed := WarpFilter(p, 0).Primitives[0].Attrs["seed"]; seed != WarpFilter(p, 999).Primitives[0].Attrs["seed"] {
		t.Errorf("warp noise seed changes with frame")
	}
}

func TestFilmGrainReseedsEveryFrame(t *testing.T) {
	p := filmGrainPresets["fine"]
	a := scenegraph.FilterID(ptr(FilmGrainFilter(p, 10)))
	b := scenegraph.FilterID(ptr(FilmGrainFilter(p, 11)))
	if a == b {
		t.Error("film grain identical on consecutive frames")
	}
	if got := FilmGrainFilter(p, 10).Primitives[0].Attrs["seed"]; got != 10 {
		t.Errorf("seed = %v, want frame", got)
	}

	loud := Stage{Kind: FilmGrain, Params: Params{Frequency: 0.9, Opacity: 0.5}}
	if n := overlay(loud, 0, 100, 100); n.Opacity > MaxFilmGrainOpacity {
		t.Errorf("film grain opacity %v above %v", n.Opacity, MaxFilmGrainOpacity)
	}
}

func ptr(f scenegraph.Filter) *scenegraph.Filter { return &f }

func TestStaticLayersDoNotChange(t *testing.T) {
	pig := pigmentPresets["wash"]
	if scenegraph.FilterID(ptr(PigmentFilter(pig))) != scenegraph.FilterID(ptr(PigmentFilter(pig))) {
		t.Error("pigment filter not stable")
	}
	paper := grainPresets["paper"]
	if scenegraph.FilterID(ptr(GrainFilter(paper, 0))) != scenegraph.FilterID(ptr(GrainFilter(paper, 5000))) {
		t.Error("static grain changes with frame")
	}
}

func TestMoodSelection(t *testing.T) {
	gradeColor := func(p Pipeline) string {
		for _, s := range p.Stages {
			if s.Kind == Grade {
				return s.Params.Color
			}
		}
		return ""
	}
	tests := []struct {
		name      string
		cfg       Config
		sceneMood string
		want      string
	}{
		{"preset default", Config{Preset: "storybook"}, "", "#ffb070"},
		{"scene mood", Config{Preset: "storybook"}, "night", "midnightblue"},
		{"caller override", Config{Preset: "storybook", Mood: "dreamy"}, "night", "plum"},
		{"neutral grades nothing", Config{Preset: "storybook"}, "neutral", ""},
		{"unknown mood", Config{Preset: "subtle"}, "stormy", ""},
		{"mood on preset without default", Config{Preset: "subtle"}, "sepia", "sienna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeColor(tt.cfg.Resolve("", tt.sceneMood)); got != tt.want {
				t.Errorf("grade colour = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScenePresetOverridesConfig(t *testing.T) {
	p := Config{Preset: "cinematic"}.Resolve("none", "")
	if !p.Empty() {
		t.Errorf("scene preset none gave %v", kinds(p))
	}
}

func TestContentOnly(t *testing.T) {
	p := Build("painted", "").Content()
	for _, s := range p.Stages {
		if !s.Kind.IsContent() {
			t.Errorf("content pipeline has %s", s.Kind)
		}
	}
	asset := scenegraph.Fill("hero", scenegraph.Rect{W: 10, H: 10}, "#fff")
	out := p.ApplyContent(asset, 3)
	if out.ID != "warp:hero" || out.Children[0].ID != "smoothing:hero" {
		t.Errorf("wrapper ids = %s/%s", out.ID, out.Children[0].ID)
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]string{
		"goldenrod":  "#daa520",
		"Black":      "#000000",
		"#ABC":       "#aabbcc",
		"#7fa8ff":    "#7fa8ff",
		"not-colour": "#000000",
		"#zzzzzz":    "#000000",
	}
	for in, want := range tests {
		if got := ParseColor(in); got != want {
			t.Errorf("ParseColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFFmpegChain(t *testing.T) {
	if got := FFmpegChain(Build("none", ""), 1920, 1080); got != "" {
		t.Errorf("none chain = %q", got)
	}
	got := FFmpegChain(Build("cinematic", ""), 1920, 1080)
	parts := strings.Split(got, ",")
	if len(parts) != 3 {
		t.Fatalf("chain = %q, want 3 filters", got)
	}
	if !strings.HasPrefix(parts[0], "noise=") || !strings.Contains(parts[0], "allf=t+u") {
		t.Errorf("film grain filter = %q", parts[0])
	}
	if !strings.Contains(parts[1], "color=0x7fa8ff@0.180") {
		t.Errorf("grade filter = %q", parts[1])
	}
	if parts[2] != "vignette=a=0.7069" {
		t.Errorf("vignette filter = %q", parts[2])
	}
}

func TestPipelineJSONStable(t *testing.T) {
	a, _ := json.Marshal(Build("painted", "golden-hour"))
	b, _ := json.Marshal(Build("painted", "golden-hour"))
	if !bytes.Equal(a, b) {
		t.Error("pipeline JSON not deterministic")
	}
}

func TestCompiledVignetteKeepsFalloff(t *testing.T) {
	content := Build("cinematic", "").Apply(scene(), 10, 1920, 1080)
	g := scenegraph.Finalize(&scenegraph.Graph{Frame: 10, Width: 1920, Height: 1080, Root: content})

	var found bool
	for _, c := range scenegraph.Compile(g) {
		if c.NodeID != "overlay-vignette" || c.Op != "overlay" {
			continue
		}
		found = true
		r, ok := c.Config.(Radial)
		if !ok {
			t.Fatalf("vignette config = %T, want Radial", c.Config)
		}
		if r.Shape != "radial" || r.Inner <= 0 || r.Outer != 1 {
			t.Errorf("vignette falloff = %+v", r)
		}
	}
	if !found {
		t.Fatal("cinematic preset compiled without a vignette command")
	}
}

func TestExcept(t *testing.T) {
	asset := Build("painted", "").Content()
	tests := []struct {
		scene string
		want  []StageKind
	}{
		{"none", []StageKind{Smoothing, Warp}},
		{"painted", nil},
		{"subtle", []StageKind{Smoothing}},
		{"cinematic", []StageKind{Smoothing, Warp}},
	}
	for _, tt := range tests {
		got := kinds(asset.Except(Build(tt.scene, "")))
		if strings.Join(kindStrings(got), ",") != strings.Join(kindStrings(tt.want), ",") {
			t.Errorf("painted except %s = %v, want %v", tt.scene, got, tt.want)
		}
	}
}

func kindStrings(ks []StageKind) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}

func TestCustomStagesNonFinite(t *testing.T) {
	cfg := Config{Stages: []Stage{
		{Kind: Warp, Params: Params{Frequency: math.NaN(), Scale: math.Inf(1), Octaves: 2}},
		{Kind: Vignette, Params: Params{Intensity: math.Inf(-1), Radius: 0.4}},
	}}
	p := cfg.Resolve("", "")
	for _, s := range p.Stages {
		for _, v := range []float64{s.Params.Frequency, s.Params.Scale, s.Params.Intensity, s.Params.Radius} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s kept non-finite parameter %v", s.Kind, v)
			}
		}
	}
	g := scenegraph.Finalize(&scenegraph.Graph{Root: p.Apply(scene(), 3, 1920, 1080)})
	if _, err := g.JSON(); err != nil {
		t.Errorf("JSON() error = %v", err)
	}
}
