package scenegraph

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Primitive is one step of a filter chain, modelled on SVG filter
// primitives (turbulence, displacementMap, gaussianBlur, colorMatrix,
// componentTransfer, composite, flood, blend).
type Primitive struct {
	Op     string         `json:"op"`
	In     string         `json:"in,omitempty"`
	In2    string         `json:"in2,omitempty"`
	Result string         `json:"result,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

// Filter is a pure description of an image-space filter. Builders return
// Filters by value and never name them; ids are assigned by Finalize.
type Filter struct {
	Primitives []Primitive `json:"primitives"`
}

// filterNamespace scopes content-addressed filter ids.
var filterNamespace = uuid.MustParse("6f1c7b1e-3c55-4f0a-9a77-5b2d0c1e8a42")

// FilterID returns the content-addressed id of f: equal filters get equal
// ids in every frame and every process, so renderers can cache compiled
// filters across frames.
func FilterID(f *Filter) string {
	data, err := json.Marshal(Finite(f))
	if err != nil {
		// fmt prints maps with sorted keys, so this stays stable.
		data = []byte(fmt.Sprintf("%#v", *f))
	}
	return "fx-" + uuid.NewSHA1(filterNamespace, data).String()
}

// Finite returns f with NaN and infinite float attributes replaced by 0, so
// the definition can be serialized. f itself is returned when it is clean.
func Finite(f *Filter) *Filter {
	if f == nil || !hasNonFinite(f) {
		return f
	}
	out := &Filter{Primitives: make([]Primitive, len(f.Primitives))}
	for i, p := range f.Primitives {
		if p.Attrs != nil {
			attrs := make(map[string]any, len(p.Attrs))
			for k, v := range p.Attrs {
				if x, ok := v.(float64); ok && !isFinite(x) {
					v = 0.0
				}
				attrs[k] = v
			}
			p.Attrs = attrs
		}
		out.Primitives[i] = p
	}
	return out
}

func hasNonFinite(f *Filter) bool {
	for _, p := range f.Primitives {
		for _, v := range p.Attrs {
			if x, ok := v.(float64); ok && !isFinite(x) {
				return true
			}
		}
	}
	return false
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Finalize assigns ids to every inline filter in g's tree, moves the
// definitions into g.Defs (first-use order, deduplicated) and leaves a
// FilterRef on each node. It is idempotent.
func Finalize(g *Graph) *Graph {
	seen := make(map[string]bool, len(g.Defs))
	for _, d := range g.Defs {
		seen[d.ID] = true
	}
	Walk(g.Root, func(n *Node) bool {
		if n.Filter == nil {
			return true
		}
		f := Finite(n.Filter)
		id := FilterID(f)
		if !seen[id] {
			seen[id] = true
			g.Defs = append(g.Defs, FilterDef{ID: id, Filter: f})
		}
		n.FilterRef = id
		n.Filter = nil
		return true
	})
	return g
}
