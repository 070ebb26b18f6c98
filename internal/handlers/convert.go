package handlers

import (
	"notegraph/internal/service"
	"notegraph/internal/storage"
	"notegraph/internal/wire"
)

func noteToWire(n storage.Note) wire.Note {
	return wire.Note{
		ID:        n.ID,
		Name:      n.Name,
		Content:   n.Content,
		Color:     n.Color,
		Tag:       n.Tag,
		ImageURL:  n.ImageURL,
		Position:  &wire.Position{X: n.Position.X, Y: n.Position.Y},
		Width:     n.Width,
		Height:    n.Height,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func notesToWire(notes []storage.Note) []wire.Note {
	out := make([]wire.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToWire(n))
	}
	return out
}

// edgeToWire shapes an edge for the client: the id is the derived edge key
// and the endpoints are plain note identifiers.
func edgeToWire(e storage.Edge) wire.Edge {
	return wire.Edge{
		ID:       storage.EdgeKey(e.Source, e.Target),
		Source:   e.Source,
		Target:   e.Target,
		Style:    wire.EdgeStyle{Stroke: e.Style.Stroke, StrokeWidth: e.Style.StrokeWidth},
		Type:     e.Type,
		Animated: e.Animated,
		Label:    e.Label,
	}
}

func edgesToWire(edges []storage.Edge) []wire.Edge {
	out := make([]wire.Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeToWire(e))
	}
	return out
}

func createNoteFromWire(req wire.CreateNoteRequest) service.CreateNoteRequest {
	out := service.CreateNoteRequest{
		Name:     req.Name,
		Content:  req.Content,
		Color:    req.Color,
		Tag:      req.Tag,
		ImageURL: req.ImageURL,
		Width:    req.Width,
		Height:   req.Height,
	}
	if req.Position != nil {
		out.Position = &storage.Position{X: req.Position.X, Y: req.Position.Y}
	}
	return out
}

func updateNoteFromWire(req wire.UpdateNoteRequest) service.UpdateNoteRequest {
	out := service.UpdateNoteRequest{
		Name:     req.Name,
		Content:  req.Content,
		Color:    req.Color,
		Tag:      req.Tag,
		ImageURL: req.ImageURL,
		Width:    req.Width,
		Height:   req.Height,
	}
	if req.Position != nil {
		out.Position = &storage.PositionPatch{X: req.Position.X, Y: req.Position.Y}
	}
	return out
}

func createEdgeFromWire(req wire.CreateEdgeRequest) service.CreateEdgeRequest {
	out := service.CreateEdgeRequest{
		Source:   req.Source,
		Target:   req.Target,
		Type:     req.Type,
		Animated: req.Animated,
		Label:    req.Label,
	}
	if req.Style != nil {
		out.Style = &storage.EdgeStyle{Stroke: req.Style.Stroke, StrokeWidth: req.Style.StrokeWidth}
	}
	return out
}
