package indexer

import (
	"notegraph/internal/search"
	"notegraph/internal/storage"
)

// DocumentFromNote projects a note onto its search document.
// Timestamps become epoch milliseconds.
func DocumentFromNote(note storage.Note) search.Document {
	return search.Document{
		ID:        note.ID,
		Name:      note.Name,
		Content:   note.Content,
		Color:     note.Color,
		Tag:       note.Tag,
		PositionX: note.Position.X,
		PositionY: note.Position.Y,
		CreatedAt: note.CreatedAt.UnixMilli(),
		UpdatedAt: note.UpdatedAt.UnixMilli(),
	}
}
