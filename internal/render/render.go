// Package render composes a finished visual tree for one absolute frame from
// a timeline, the asset registry and an effects configuration.
package render

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/assets"
	"github.com/ivlev/storyrig/internal/camera"
	"github.com/ivlev/storyrig/internal/effects"
	"github.com/ivlev/storyrig/internal/rig"
	"github.com/ivlev/storyrig/internal/scenegraph"
	"github.com/ivlev/storyrig/internal/timeline"
	"github.com/ivlev/storyrig/internal/transition"
)

var log = logrus.WithField("component", "render")

const (
	// InertColor fills frames no scene covers and sits behind transitions.
	InertColor    = "#101014"
	SubtitleColor = "#ffffff"
)

// Engine renders frames. It holds only read-only state and may be shared by
// concurrent workers.
type Engine struct {
	Assets *assets.Registry
}

// New returns an Engine over reg. A nil registry uses assets.Defaults.
func New(reg *assets.Registry) *Engine {
	if reg == nil {
		reg = assets.Defaults()
	}
	return &Engine{Assets: reg}
}

// RenderFrameAt builds the composited tree for frame. The result depends only
// on its arguments: the same inputs give byte-identical trees in any order
// and on any worker.
func (e *Engine) RenderFrameAt(frame int, tl *timeline.Timeline, fx effects.Config) *scenegraph.Graph {
	w, h := tl.Canvas()
	g := &scenegraph.Graph{Frame: frame, Width: w, Height: h}
	canvas := scenegraph.Canvas(w, h)

	rf := tl.Resolve(frame)
	if !rf.Active() {
		g.Root = scenegraph.Group("frame", scenegraph.Fill("inert", canvas, InertColor))
		return scenegraph.Finalize(g)
	}
	scene := rf.Scene
	g.Scene = scene.ID

	world := scenegraph.Group("world", e.background(scene, frame, canvas))
	ground, groundErr := e.groundMetadata(scene)
	pipeline := fx.Resolve(scene.Effects, scene.Mood)

	var regions []camera.Region
	for _, c := range rf.Characters {
		node, bounds := e.character(c, frame, ground, groundErr, pipeline, w, h)
		world.Add(node)
		regions = append(regions, camera.Region{ID: c.Placement.ID, Rect: bounds, Talking: c.Placement.Talking})
	}

	pose := rf.Camera
	if scene.CameraPath != nil {
		target := camera.Evaluate(*scene.CameraPath, rf.Local, scene.Frames(), regions, w, h, rf.CameraMove.To)
		pose = camera.Lerp(rf.CameraMove.From, target, rf.CameraMove.Progress(frame))
	}
	if m := camera.Transform(pose, w, h); !m.IsIdentity() {
		world.Transform = m.Ptr()
	}

	content := world
	inTransition := false
	if s := scene.Transition; s != nil && s.Active() && rf.Entry < 1 {
		content = transition.Apply(content, *s, rf.Entry, w, h)
		inTransition = true
	}
	if s := scene.Exit; s != nil && s.Active() && rf.Exit > 0 {
		content = transition.Apply(content, *s, 1-rf.Exit, w, h)
		inTransition = true
	}

	content = pipeline.Apply(content, frame, w, h)

	root := scenegraph.Group("frame")
	if inTransition {
		root.Add(scenegraph.Fill("backdrop", canvas, InertColor))
	}
	root.Add(content)
	if scene.Subtitle != "" {
		sub := scenegraph.Text("subtitle", scenegraph.Rect{X: 0.1 * float64(w), Y: 0.84 * float64(h), W: 0.8 * float64(w), H: 0.12 * float64(h)}, scene.Subtitle)
		sub.Fill = SubtitleColor
		root.Add(sub)
	}
	g.Root = root
	return scenegraph.Finalize(g)
}

// Resolve exposes the timeline state behind a frame.
func (e *Engine) Resolve(frame int, tl *timeline.Timeline) timeline.Frame {
	return tl.Resolve(frame)
}

func (e *Engine) background(scene *timeline.Scene, frame int, canvas scenegraph.Rect) *scenegraph.Node {
	if scene.Background == "" {
		return scenegraph.Fill("background", canvas, InertColor)
	}
	bounds := canvas
	if m, err := e.Assets.Metadata(scene.Background); err == nil {
		bounds = assets.PlaceOnCanvas(m, canvas.W, canvas.H)
	} else {
		log.WithField("asset", scene.Background).Warn("background has no metadata, filling canvas")
	}
	return e.Assets.Renderer(scene.Background).Render(frame, assets.Config{ID: "background", Asset: scene.Background, Bounds: bounds, Scale: 1})
}

func (e *Engine) groundMetadata(scene *timeline.Scene) (assets.Metadata, error) {
	if scene.Background == "" {
		return assets.Metadata{}, fmt.Errorf("scene %s has no background: %w", scene.ID, assets.ErrNoGroundLine)
	}
	m, err := e.Assets.Metadata(scene.Background)
	if err != nil {
		return assets.Metadata{}, err
	}
	if _, err := assets.GroundY(m, 1); err != nil {
		return assets.Metadata{}, err
	}
	return m, nil
}

// genericCharacter stands in for character assets without metadata.
func genericCharacter(id string) assets.Metadata {
	return assets.Metadata{ID: id, Category: assets.CategoryCharacter, Anchor: assets.AnchorBottomCenter, Width: 0.2, Height: 0.5}
}

func (e *Engine) character(c timeline.Character, frame int, ground assets.Metadata, groundErr error, scenePipeline effects.Pipeline, w, h int) (*scenegraph.Node, scenegraph.Rect) {
	p := c.Placement
	id := p.AssetID()
	meta, err := e.Assets.Metadata(id)
	if err != nil {
		log.WithField("asset", id).Warn("character has no metadata, using generic size")
		meta = genericCharacter(id)
	}

	fw, fh := float64(w), float64(h)
	bounds := assets.Place(meta, c.Position.X, c.Position.Y, c.Position.Scale, fw, fh)
	if p.OnGround {
		if groundErr == nil {
			bounds, _ = assets.PlaceOnGround(ground, meta, c.Position.X, c.Position.Scale, fw, fh)
		} else {
			log.WithError(groundErr).WithField("character", p.ID).Warn("cannot rest on ground, using preset position")
		}
	}

	pose := rig.Compose(c.RigInput(frame))
	node := e.Assets.Renderer(id).Render(frame, assets.Config{ID: p.ID, Asset: id, Bounds: bounds, Scale: c.Position.Scale, Pose: pose})
	// Content stages the scene already applies to the whole world are not
	// repeated on the asset.
	if p.Effects != "" {
		node = effects.Build(p.Effects, "").Content().Except(scenePipeline).ApplyContent(node, frame)
	}
	return scenegraph.Group("character:"+p.ID, node), bounds
}

// Check reports authoring errors that rendering would otherwise paper over:
// ground-anchored characters in scenes whose background has no ground line.
func (e *Engine) Check(tl *timeline.Timeline) error {
	var errs []error
	for i := range tl.Scenes {
		scene := &tl.Scenes[i]
		for _, p := range scene.Characters {
			if !p.OnGround {
				continue
			}
			if _, err := e.groundMetadata(scene); err != nil {
				errs = append(errs, fmt.Errorf("scene %s, character %s: %w", scene.ID, p.ID, err))
				break
			}
		}
	}
	return errors.Join(errs...)
}
