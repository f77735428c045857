package scenegraph

// DrawCommand is one operation of a flattened frame. Hosts that prefer an
// immediate-mode canvas execute these in order instead of walking the tree.
type DrawCommand struct {
	Op        string   `json:"op"` // "push", "pop", "rect", "asset", "text", "overlay"
	NodeID    string   `json:"nodeId,omitempty"`
	Transform *Matrix  `json:"transform,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Blend     string   `json:"blend,omitempty"`
	Clip      *Clip    `json:"clip,omitempty"`
	FilterRef string   `json:"filterRef,omitempty"`
	Bounds    *Rect    `json:"bounds,omitempty"`
	Fill      string   `json:"fill,omitempty"`
	Asset     string   `json:"asset,omitempty"`
	Config    any      `json:"config,omitempty"`
	Text      string   `json:"text,omitempty"`
}

// Compile flattens a finalized graph into painter-ordered draw commands.
// Every node that changes drawing state is bracketed by push/pop.
func Compile(g *Graph) []DrawCommand {
	if g == nil || g.Root == nil {
		return nil
	}
	var cmds []DrawCommand
	compileNode(g.Root, &cmds)
	return cmds
}

func compileNode(n *Node, cmds *[]DrawCommand) {
	if n == nil {
		return
	}

	stateful := n.Transform != nil || n.Opacity != 1 || n.Blend != "" || n.Clip != nil || n.FilterRef != ""
	if stateful {
		opacity := n.Opacity
		*cmds = append(*cmds, DrawCommand{
			Op:        "push",
			NodeID:    n.ID,
			Transform: n.Transform,
			Opacity:   &opacity,
			Blend:     n.Blend,
			Clip:      n.Clip,
			FilterRef: n.FilterRef,
		})
	}

	switch n.Kind {
	case KindRect, KindOverlay:
		*cmds = append(*cmds, DrawCommand{Op: string(n.Kind), NodeID: n.ID, Bounds: n.Bounds, Fill: n.Fill, Config: n.Config})
	case KindAsset:
		*cmds = append(*cmds, DrawCommand{Op: "asset", NodeID: n.ID, Bounds: n.Bounds, Asset: n.Asset, Config: n.Config})
	case KindText:
		*cmds = append(*cmds, DrawCommand{Op: "text", NodeID: n.ID, Bounds: n.Bounds, Text: n.Text, Fill: n.Fill})
	}

	for _, c := range n.Children {
		compileNode(c, cmds)
	}

	if stateful {
		*cmds = append(*cmds, DrawCommand{Op: "pop", NodeID: n.ID})
	}
}
