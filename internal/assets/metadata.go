// Package assets describes the visual assets storyrig places but does not
// draw: their declared size and anchor metadata, the geometry derived from
// it, and the registry of external renderers that produce their nodes.
package assets

import (
	"errors"
	"fmt"

	"github.com/ivlev/storyrig/internal/scenegraph"
)

var (
	// ErrNoGroundLine is returned when ground-anchored placement is asked of
	// metadata that declares no ground line. It is an authoring mistake, not
	// something to paper over.
	ErrNoGroundLine = errors.New("asset has no ground line")
	// ErrUnknownAsset is returned for ids missing from the registry.
	ErrUnknownAsset = errors.New("unknown asset")
)

// Category groups assets by role.
type Category string

const (
	CategoryCharacter  Category = "character"
	CategoryProp       Category = "prop"
	CategoryBackground Category = "background"
	CategorySky        Category = "sky"
	CategoryTerrain    Category = "terrain"
)

// Anchor is the point of an asset's box that sits on its placement point.
type Anchor string

const (
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopCenter    Anchor = "top-center"
	AnchorTopRight     Anchor = "top-right"
	AnchorCenterLeft   Anchor = "center-left"
	AnchorCenter       Anchor = "center"
	AnchorCenterRight  Anchor = "center-right"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomCenter Anchor = "bottom-center"
	AnchorBottomRight  Anchor = "bottom-right"
)

// fractions returns the anchor as (fx, fy) within the box.
func (a Anchor) fractions() (float64, float64, bool) {
	switch a {
	case AnchorTopLeft:
		return 0, 0, true
	case AnchorTopCenter:
		return 0.5, 0, true
	case AnchorTopRight:
		return 1, 0, true
	case AnchorCenterLeft:
		return 0, 0.5, true
	case AnchorCenter, "":
		return 0.5, 0.5, true
	case AnchorCenterRight:
		return 1, 0.5, true
	case AnchorBottomLeft:
		return 0, 1, true
	case AnchorBottomCenter:
		return 0.5, 1, true
	case AnchorBottomRight:
		return 1, 1, true
	}
	return 0.5, 0.5, false
}

// Metadata is the declared geometry of one asset. Width and Height are
// fractions of the canvas at scale 1. GroundLine is a canvas fraction (for
// backgrounds: where the ground plane meets the horizon band). Aspect is the
// source width/height ratio; it fills in a zero Height.
type Metadata struct {
	ID         string   `json:"id" yaml:"id"`
	Category   Category `json:"category" yaml:"category"`
	Anchor     Anchor   `json:"anchor" yaml:"anchor"`
	Width      float64  `json:"width" yaml:"width"`
	Height     float64  `json:"height" yaml:"height"`
	GroundLine *float64 `json:"groundLine,omitempty" yaml:"ground_line,omitempty"`
	Aspect     *float64 `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	// Source optionally points at the asset's artwork (PDF, PNG, JPEG) so a
	// missing Aspect can be probed.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Validate checks the declared values.
func (m Metadata) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("asset metadata without id")
	}
	if _, _, ok := m.Anchor.fractions(); !ok {
		return fmt.Errorf("asset %s: unknown anchor %q", m.ID, m.Anchor)
	}
	if m.Width <= 0 {
		return fmt.Errorf("asset %s: width must be positive, got %v", m.ID, m.Width)
	}
	if m.Height <= 0 && (m.Aspect == nil || *m.Aspect <= 0) {
		return fmt.Errorf("asset %s: needs a positive height or aspect", m.ID)
	}
	if m.GroundLine != nil && (*m.GroundLine < 0 || *m.GroundLine > 1) {
		return fmt.Errorf("asset %s: ground line %v outside [0,1]", m.ID, *m.GroundLine)
	}
	return nil
}

// Size returns the asset's natural pixel size on a canvasW×canvasH canvas.
func (m Metadata) Size(canvasW, canvasH float64) (w, h float64) {
	w = m.Width * canvasW
	h = m.Height * canvasH
	if h <= 0 && m.Aspect != nil && *m.Aspect > 0 {
		h = w / *m.Aspect
	}
	return w, h
}

// Place returns the box of the asset scaled by scale with its anchor on
// (x, y).
func Place(m Metadata, x, y, scale, canvasW, canvasH float64) scenegraph.Rect {
	w, h := m.Size(canvasW, canvasH)
	w *= scale
	h *= scale
	fx, fy, _ := m.Anchor.fractions()
	return scenegraph.Rect{X: x - fx*w, Y: y - fy*h, W: w, H: h}
}

// PlaceOnCanvas aligns the asset's anchor with the same point of the canvas,
// so a top-left anchored backdrop starts at the origin and a bottom-center
// one sits centred on the bottom edge.
func PlaceOnCanvas(m Metadata, canvasW, canvasH float64) scenegraph.Rect {
	fx, fy, _ := m.Anchor.fractions()
	return Place(m, fx*canvasW, fy*canvasH, 1, canvasW, canvasH)
}

// GroundY returns the ground line of m in canvas pixels.
func GroundY(m Metadata, canvasH float64) (float64, error) {
	if m.GroundLine == nil {
		return 0, fmt.Errorf("asset %s: %w", m.ID, ErrNoGroundLine)
	}
	return *m.GroundLine * canvasH, nil
}

// PlaceOnGround places item horizontally anchored at x with its base resting
// on ground's ground line.
func PlaceOnGround(ground, item Metadata, x, scale, canvasW, canvasH float64) (scenegraph.Rect, error) {
	gy, err := GroundY(ground, canvasH)
	if err != nil {
		return scenegraph.Rect{}, err
	}
	r := Place(item, x, gy, scale, canvasW, canvasH)
	r.Y = gy - r.H
	return r, nil
}
