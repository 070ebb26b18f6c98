// Package wire holds the JSON contract of the graph API, shared by the
// HTTP handlers and the graph client.
package wire

import "time"

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Note is a note as sent over the wire. The identifier is "_id".
// Position is nil only when a peer omitted it.
type Note struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Tag       string    `json:"tag"`
	ImageURL  string    `json:"imageUrl"`
	Position  *Position `json:"position"`
	Width     *float64  `json:"width,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EdgeStyle is the stroke of an edge.
type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Edge is an edge as sent over the wire. ID is the key derived from
// (Source, Target); Source and Target are note identifiers.
type Edge struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Style    EdgeStyle `json:"style"`
	Type     string    `json:"type"`
	Animated bool      `json:"animated"`
	Label    string    `json:"label"`
}

// CreateNoteRequest is the body of POST /notes.
type CreateNoteRequest struct {
	Name     string    `json:"name"`
	Content  string    `json:"content"`
	Color    string    `json:"color,omitempty"`
	Tag      string    `json:"tag,omitempty"`
	ImageURL string    `json:"imageUrl,omitempty"`
	Position *Position `json:"position,omitempty"`
	Width    *float64  `json:"width,omitempty"`
	Height   *float64  `json:"height,omitempty"`
}

// PositionPatch updates one or both coordinates.
type PositionPatch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// UpdateNoteRequest is the body of PUT /notes/{id}. Absent fields are unchanged.
type UpdateNoteRequest struct {
	Name     *string        `json:"name,omitempty"`
	Content  *string        `json:"content,omitempty"`
	Color    *string        `json:"color,omitempty"`
	Tag      *string        `json:"tag,omitempty"`
	ImageURL *string        `json:"imageUrl,omitempty"`
	Position *PositionPatch `json:"position,omitempty"`
	Width    *float64       `json:"width,omitempty"`
	Height   *float64       `json:"height,omitempty"`
}

// CreateEdgeRequest is the body of POST /notes/edges.
type CreateEdgeRequest struct {
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Style    *EdgeStyle `json:"style,omitempty"`
	Type     *string    `json:"type,omitempty"`
	Animated *bool      `json:"animated,omitempty"`
	Label    *string    `json:"label,omitempty"`
}

// MessageResponse acknowledges a delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse carries the public URL of an uploaded file.
type UploadResponse struct {
	URL string `json:"url"`
}

// ReindexResponse acknowledges a search index rebuild request.
type ReindexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Messages returned by the API.
const (
	MsgNoteDeleted     = "Note and related connections deleted"
	MsgEdgeDeleted     = "Connection deleted successfully"
	MsgNoteNotFound    = "Note not found"
	MsgEdgeNotFound    = "Connection not found"
	MsgEdgeExists      = "Connection already exists"
	MsgEdgeEndpoints   = "Source and target are required"
	MsgEndpointMissing = "One or both notes not found"
	MsgNoFile          = "No file uploaded"
	MsgReindexRunning  = "Reindex already in progress"
)
