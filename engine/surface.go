package engine

import (
	"image"
	"image/color"
	"sort"

	"skyburst/geom"
)

// NodeID identifies a node on a Surface
type NodeID uint64

// NodeType represents the kind of drawable a node holds
type NodeType int

const (
	NodeTypeLine NodeType = iota
	NodeTypeSprite
	NodeTypeGlow
)

// Layers, drawn lowest first
const (
	LayerFeedback = 10
	LayerParticle = 20
	LayerAvatar   = 30
)

// Node is one drawable on the surface. The renderer reads nodes; the engine
// components that created them are the only writers.
type Node struct {
	ID    NodeID
	Type  NodeType
	Layer int

	// Line endpoints (NodeTypeLine)
	From, To geom.Point
	Width    float64

	// Sprite / glow placement
	Pos      geom.Point
	Size     float64 // base size in pixels before Scale
	Scale    float64
	Rotation float64 // degrees, clockwise
	Opacity  float64
	Hue      float64 // hue rotation in degrees applied to Image

	// Image is nil for synthesised glyph sprites
	Image image.Image
	Glyph string
	Color color.NRGBA

	Visible bool
}

// Surface is a retained drawing surface shared by the engine components.
// The engine creates and removes nodes; the host owns the surface lifecycle.
type Surface struct {
	nodes  map[NodeID]*Node
	nextID NodeID
	width  float64
	height float64
	closed bool

	// HUD state
	HintVisible          bool
	DragIndicatorVisible bool
}

// NewSurface creates a surface covering a width x height viewport
func NewSurface(width, height float64) *Surface {
	return &Surface{
		nodes:       make(map[NodeID]*Node, 256),
		width:       width,
		height:      height,
		HintVisible: true,
	}
}

// Size returns the viewport size
func (s *Surface) Size() (float64, float64) {
	return s.width, s.height
}

// Resize updates the viewport size
func (s *Surface) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// Center returns the viewport center
func (s *Surface) Center() geom.Point {
	return geom.Pt(s.width/2, s.height/2)
}

// Add inserts a node and returns it with its assigned id.
// On a closed surface the node is returned detached and never drawn.
func (s *Surface) Add(n Node) *Node {
	if n.Scale == 0 {
		n.Scale = 1
	}
	if s.closed {
		node := n
		return &node
	}
	s.nextID++
	n.ID = s.nextID
	node := n
	s.nodes[n.ID] = &node
	return &node
}

// Get returns the node with the given id, if it is still on the surface
func (s *Surface) Get(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Remove deletes a node. Removing an unknown node or removing from a closed surface is a no-op.
func (s *Surface) Remove(id NodeID) {
	if s.closed || id == 0 {
		return
	}
	delete(s.nodes, id)
}

// Len returns the number of nodes on the surface
func (s *Surface) Len() int {
	return len(s.nodes)
}

// CountLayer returns the number of nodes on the given layer
func (s *Surface) CountLayer(layer int) int {
	n := 0
	for _, node := range s.nodes {
		if node.Layer == layer {
			n++
		}
	}
	return n
}

// Nodes returns the nodes in draw order (layer, then creation order)
func (s *Surface) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Close tears the surface down. Later Add/Remove calls are no-ops.
func (s *Surface) Close() {
	s.closed = true
	s.nodes = make(map[NodeID]*Node)
}

// Closed reports whether the surface was torn down
func (s *Surface) Closed() bool {
	return s.closed
}
