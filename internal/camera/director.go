package camera

import (
	"fmt"
	"math"
	"sort"

	"github.com/ivlev/storyrig/internal/motion"
	"github.com/ivlev/storyrig/internal/scenegraph"
)

// Director generates camera framing from the regions placed in a scene.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	MinDwell       int     // minimum frames per region
	MaxDwell       int     // maximum frames per region
	Padding        float64 // share of the viewport a framed region may fill
	MaxZoom        float64
}

// NewDirector creates a Director with default settings.
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		MinDwell:       motion.FPS,
		MaxDwell:       3 * motion.FPS,
		Padding:        0.9,
		MaxZoom:        1.6,
	}
}

func (d *Director) fullView() Pose {
	return Default(d.ViewportWidth, d.ViewportHeight)
}

// Frame returns the pose that fits rect in the padded viewport.
func (d *Director) Frame(rect scenegraph.Rect) Pose {
	cx, cy := rect.Center()
	return Pose{X: cx, Y: cy, Zoom: d.calculateZoom(rect)}
}

// Follow frames the talking regions, or every region when nobody talks.
func (d *Director) Follow(regions []Region) Pose {
	var focus scenegraph.Rect
	for _, r := range regions {
		if r.Talking {
			focus = focus.Union(r.Rect)
		}
	}
	if focus.IsEmpty() {
		for _, r := range regions {
			focus = focus.Union(r.Rect)
		}
	}
	if focus.IsEmpty() {
		return d.fullView()
	}
	return d.Frame(focus)
}

// Overview returns keyframes that start on the full view, visit each region
// in reading order and return to the full view, fitted to sceneFrames.
func (d *Director) Overview(regions []Region, sceneFrames int) []Keyframe {
	full := d.fullView()
	keyframes := []Keyframe{{Frame: 0, Focus: "full_view", X: full.X, Y: full.Y, Zoom: full.Zoom}}
	if len(regions) == 0 {
		return keyframes
	}

	sorted := d.sortRegions(regions)
	dwell := d.calculateDwell(sceneFrames, len(sorted))

	current := motion.FPS // intro on the full view
	for i, r := range sorted {
		p := d.Frame(r.Rect)
		focus := r.ID
		if focus == "" {
			focus = fmt.Sprintf("region_%d", i+1)
		}
		keyframes = append(keyframes, Keyframe{Frame: current, Focus: focus, X: p.X, Y: p.Y, Zoom: p.Zoom})
		current += dwell
	}

	keyframes = append(keyframes, Keyframe{Frame: current, Focus: "full_view", X: full.X, Y: full.Y, Zoom: full.Zoom})
	return keyframes
}

// sortRegions orders regions top-to-bottom, left-to-right.
func (d *Director) sortRegions(regions []Region) []Region {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Regions within 20px vertically share a row.
		const threshold = 20.0
		yDiff := sorted[i].Rect.Y - sorted[j].Rect.Y
		if math.Abs(yDiff) > threshold {
			return sorted[i].Rect.Y < sorted[j].Rect.Y
		}
		return sorted[i].Rect.X < sorted[j].Rect.X
	})
	return sorted
}

// calculateDwell splits the scene minus one second of intro and outro
// between count regions.
func (d *Director) calculateDwell(sceneFrames, count int) int {
	available := sceneFrames - 2*motion.FPS
	if available <= 0 {
		available = sceneFrames
	}
	dwell := available / count
	if dwell < d.MinDwell {
		dwell = d.MinDwell
	}
	if dwell > d.MaxDwell {
		dwell = d.MaxDwell
	}
	return dwell
}

// calculateZoom fits rect in the padded viewport, clamped to [1, MaxZoom].
func (d *Director) calculateZoom(rect scenegraph.Rect) float64 {
	if rect.W <= 0 || rect.H <= 0 {
		return 1
	}
	scaleX := float64(d.ViewportWidth) * d.Padding / rect.W
	scaleY := float64(d.ViewportHeight) * d.Padding / rect.H
	return motion.Clamp(math.Min(scaleX, scaleY), 1, d.MaxZoom)
}
