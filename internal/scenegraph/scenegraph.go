// Package scenegraph is the composited visual tree storyrig hands to a
// renderer: a retained tree of groups, assets, fills, text and full-frame
// overlays, plus the filter definitions those nodes reference.
package scenegraph

import (
	"encoding/json"
)

// Kind tags what a node draws.
type Kind string

const (
	KindGroup   Kind = "group"   // container, draws nothing itself
	KindAsset   Kind = "asset"   // external asset renderer output
	KindRect    Kind = "rect"    // solid fill (backgrounds, fallbacks)
	KindOverlay Kind = "overlay" // full-frame effect layer
	KindText    Kind = "text"    // subtitles
)

// Node is one element of the visual tree. Painter's order: a node draws
// before its children, children draw first to last.
type Node struct {
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"kind"`

	Transform *Matrix `json:"transform,omitempty"`
	Opacity   float64 `json:"opacity"`
	Blend     string  `json:"blend,omitempty"`
	Clip      *Clip   `json:"clip,omitempty"`

	// Filter is set by effect builders. Finalize moves it into the graph's
	// definitions and leaves only FilterRef behind.
	Filter    *Filter `json:"filter,omitempty"`
	FilterRef string  `json:"filterRef,omitempty"`

	Bounds *Rect  `json:"bounds,omitempty"`
	Fill   string `json:"fill,omitempty"`
	Asset  string `json:"asset,omitempty"`
	Config any    `json:"config,omitempty"`
	Text   string `json:"text,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Clip restricts drawing of a node and its children.
type Clip struct {
	Shape string  `json:"shape"` // "rect" or "circle"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	R     float64 `json:"r,omitempty"`
}

// Group returns an opaque container holding children.
func Group(id string, children ...*Node) *Node {
	return &Node{ID: id, Kind: KindGroup, Opacity: 1, Children: children}
}

// Fill returns a solid rectangle.
func Fill(id string, bounds Rect, color string) *Node {
	return &Node{ID: id, Kind: KindRect, Opacity: 1, Bounds: &bounds, Fill: color}
}

// Text returns a text node anchored inside bounds.
func Text(id string, bounds Rect, text string) *Node {
	return &Node{ID: id, Kind: KindText, Opacity: 1, Bounds: &bounds, Text: text}
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Walk visits n and its descendants depth-first in painter's order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// FilterDef is a filter registered in a graph under a compositor-assigned id.
type FilterDef struct {
	ID     string  `json:"id"`
	Filter *Filter `json:"filter"`
}

// Graph is a finished frame.
type Graph struct {
	Frame  int         `json:"frame"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Scene  string      `json:"scene,omitempty"`
	Root   *Node       `json:"root"`
	Defs   []FilterDef `json:"defs,omitempty"`
}

// JSON serializes g. Output is byte-stable for equal graphs.
func (g *Graph) JSON() ([]byte, error) {
	return json.Marshal(g)
}
