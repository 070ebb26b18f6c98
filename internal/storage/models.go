package storage

import "time"

const (
	// DefaultColor is assigned to notes created without a color.
	DefaultColor = "blue"

	DefaultEdgeStroke      = "hsl(var(--tree-connection))"
	DefaultEdgeStrokeWidth = 2
	DefaultEdgeType        = "default"
)

// Position is a point on the canvas.
type Position struct {
	X float64
	Y float64
}

// Note represents a graph vertex in the database.
type Note struct {
	ID        string // UUID, assigned on create
	Name      string
	Content   string
	Color     string
	Tag       string
	ImageURL  string // URL into external object storage
	Position  Position
	Width     *float64
	Height    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionPatch updates one or both coordinates of a note position.
type PositionPatch struct {
	X *float64
	Y *float64
}

// NotePatch holds a partial note update. Nil fields are left unchanged.
type NotePatch struct {
	Name     *string
	Content  *string
	Color    *string
	Tag      *string
	ImageURL *string
	Position *PositionPatch
	Width    *float64
	Height   *float64
}

// EdgeStyle is the stroke used to draw an edge.
type EdgeStyle struct {
	Stroke      string
	StrokeWidth float64
}

// Edge represents a directed connection between two notes.
// Key is derived from (Source, Target) with EdgeKey.
type Edge struct {
	Key       string
	Source    string
	Target    string
	Style     EdgeStyle
	Type      string
	Animated  bool
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEdge holds the fields accepted when connecting two notes.
// Nil optional fields take their defaults.
type NewEdge struct {
	Source   string
	Target   string
	Style    *EdgeStyle
	Type     *string
	Animated *bool
	Label    *string
}

// EdgeKey returns the identity of the edge from source to target.
// The reverse direction yields a different key.
func EdgeKey(source, target string) string {
	return "e" + source + "-" + target
}
