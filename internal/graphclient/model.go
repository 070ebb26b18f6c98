// Package graphclient keeps an in-memory view of the note graph converged
// with the graph API. Mutations go through the API and the view is updated
// from the authoritative replies.
package graphclient

import (
	"math"

	"notegraph/internal/wire"
)

// NodeType is the view node kind used for every note.
const NodeType = "sub"

// Connection defaults sent with a connect gesture.
const (
	DefaultEdgeStroke      = "hsl(var(--tree-connection))"
	DefaultEdgeStrokeWidth = 2
	DefaultEdgeType        = "default"
)

// Fallback layout for notes without a usable position.
const (
	fallbackX    = 400
	fallbackY    = 350
	fallbackStep = 60
)

// NodeData is the display payload of a node.
type NodeData struct {
	Label       string
	Description string
	Color       string
	Tag         string
	ImageURL    string
}

// Node is a note as held by the view.
type Node struct {
	ID       string
	Type     string
	Position wire.Position
	Width    *float64
	Height   *float64
	Data     NodeData
}

// Edge is a connection as held by the view.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Style    wire.EdgeStyle
	Type     string
	Animated bool
	Label    string
}

// Graph is a copy of the view state.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FallbackPosition is the position given to the index-th note when the API
// does not provide one: stacked vertically at a fixed x.
func FallbackPosition(index int) wire.Position {
	return wire.Position{X: fallbackX, Y: fallbackY + float64(index)*fallbackStep}
}

// DefaultEdgeStyle is the style sent with a connect gesture.
func DefaultEdgeStyle() wire.EdgeStyle {
	return wire.EdgeStyle{
		Stroke:      DefaultEdgeStroke,
		StrokeWidth: DefaultEdgeStrokeWidth,
	}
}

func validPosition(p *wire.Position) bool {
	if p == nil {
		return false
	}
	for _, v := range []float64{p.X, p.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func nodeFromNote(n wire.Note, index int) Node {
	pos := FallbackPosition(index)
	if validPosition(n.Position) {
		pos = *n.Position
	}
	node := Node{
		ID:       n.ID,
		Type:     NodeType,
		Position: pos,
	}
	node.merge(n)
	return node
}

// merge copies the display fields of n. Position stays with the view.
func (node *Node) merge(n wire.Note) {
	node.Data = NodeData{
		Label:       n.Name,
		Description: n.Content,
		Color:       n.Color,
		Tag:         n.Tag,
		ImageURL:    n.ImageURL,
	}
	node.Width = n.Width
	node.Height = n.Height
}

func edgeFromWire(e wire.Edge) Edge {
	return Edge(e)
}
