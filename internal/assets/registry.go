package assets

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/storyrig/internal/scenegraph"
)

var log = logrus.WithField("component", "assets")

// Renderer draws one asset. The core never looks inside; it only calls it
// with a frame and the computed placement/pose configuration.
type Renderer interface {
	Render(frame int, cfg Config) *scenegraph.Node
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame int, cfg Config) *scenegraph.Node

// Render calls f.
func (f RendererFunc) Render(frame int, cfg Config) *scenegraph.Node {
	return f(frame, cfg)
}

// Config is what a renderer receives.
type Config struct {
	// ID names the placed instance, Asset the artwork it draws.
	ID     string          `json:"id"`
	Asset  string          `json:"asset"`
	Bounds scenegraph.Rect `json:"bounds"`
	Scale  float64         `json:"scale"`
	// Pose is the character pose for character assets, nil otherwise.
	Pose any `json:"pose,omitempty"`
}

// Placeholder is the renderer used when the host registered none for an
// asset: it emits an asset node carrying the configuration so a downstream
// renderer can still resolve the artwork by id.
var Placeholder Renderer = RendererFunc(func(frame int, cfg Config) *scenegraph.Node {
	b := cfg.Bounds
	asset := cfg.Asset
	if asset == "" {
		asset = cfg.ID
	}
	return &scenegraph.Node{
		ID:      cfg.ID,
		Kind:    scenegraph.KindAsset,
		Opacity: 1,
		Asset:   asset,
		Bounds:  &b,
		Config:  cfg,
	}
})

// Registry maps asset ids to metadata and renderers. It is filled at startup
// and read-only afterwards, so concurrent frame rendering needs no locking.
type Registry struct {
	meta      map[string]Metadata
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		meta:      make(map[string]Metadata),
		renderers: make(map[string]Renderer),
	}
}

// Add registers metadata after validating it.
func (r *Registry) Add(m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.meta[m.ID] = m
	return nil
}

// Handle attaches a renderer to an asset id.
func (r *Registry) Handle(id string, rd Renderer) {
	r.renderers[id] = rd
}

// Metadata returns the metadata for id.
func (r *Registry) Metadata(id string) (Metadata, error) {
	m, ok := r.meta[id]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	return m, nil
}

// Renderer returns the renderer for id, or Placeholder.
func (r *Registry) Renderer(id string) Renderer {
	if rd, ok := r.renderers[id]; ok {
		return rd
	}
	return Placeholder
}

// IDs lists registered asset ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.meta))
	for id := range r.meta {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// metadataFile is the on-disk form read by LoadMetadata.
type metadataFile struct {
	Assets []Metadata `yaml:"assets"`
}

// LoadMetadata reads a YAML asset list into r. Entries without an aspect
// whose Source points at artwork get it probed.
func (r *Registry) LoadMetadata(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f metadataFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, m := range f.Assets {
		if m.Aspect == nil && m.Source != "" {
			aspect, err := ProbeAspect(m.Source)
			if err != nil {
				log.WithError(err).WithField("asset", m.ID).Warn("could not probe aspect")
			} else {
				m.Aspect = &aspect
			}
		}
		if err := r.Add(m); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Defaults returns a registry with generic metadata for the stock asset ids
// used by the bundled example timelines.
func Defaults() *Registry {
	ground := 0.78
	r := NewRegistry()
	for _, m := range []Metadata{
		{ID: "presenter", Category: CategoryCharacter, Anchor: AnchorBottomCenter, Width: 0.22, Height: 0.62},
		{ID: "sidekick", Category: CategoryCharacter, Anchor: AnchorBottomCenter, Width: 0.18, Height: 0.48},
		{ID: "studio", Category: CategoryBackground, Anchor: AnchorTopLeft, Width: 1, Height: 1, GroundLine: &ground},
		{ID: "meadow", Category: CategoryBackground, Anchor: AnchorTopLeft, Width: 1, Height: 1, GroundLine: &ground},
		{ID: "sky", Category: CategorySky, Anchor: AnchorTopLeft, Width: 1, Height: 0.6},
		{ID: "mug", Category: CategoryProp, Anchor: AnchorBottomCenter, Width: 0.04, Height: 0.07},
	} {
		// Stock values are known-good.
		_ = r.Add(m)
	}
	return r
}
