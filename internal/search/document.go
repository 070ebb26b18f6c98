package search

// DefaultSortingField orders unranked results, newest first.
const DefaultSortingField = "createdAt"

// Document is the flattened, searchable projection of a note.
// Timestamps are epoch milliseconds.
type Document struct {
	ID        string
	Name      string
	Content   string
	Color     string
	Tag       string
	PositionX float64
	PositionY float64
	CreatedAt int64
	UpdatedAt int64
}

// FieldKind is the stored type of a schema field.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindFloat  FieldKind = "float"
	KindInt64  FieldKind = "int64"
)

// Field describes one schema field. Facet fields support exact-match filtering,
// full-text fields support token matching.
type Field struct {
	Name     string
	Kind     FieldKind
	Facet    bool
	FullText bool
}

// Schema is the fixed shape of the search collection.
var Schema = []Field{
	{Name: "id", Kind: KindString},
	{Name: "name", Kind: KindString, FullText: true},
	{Name: "content", Kind: KindString, FullText: true},
	{Name: "color", Kind: KindString, Facet: true},
	{Name: "tag", Kind: KindString, Facet: true},
	{Name: "position_x", Kind: KindFloat},
	{Name: "position_y", Kind: KindFloat},
	{Name: "createdAt", Kind: KindInt64},
	{Name: "updatedAt", Kind: KindInt64},
}

// Payload returns the document as a schema-keyed map.
func (d Document) Payload() map[string]any {
	return map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"content":    d.Content,
		"color":      d.Color,
		"tag":        d.Tag,
		"position_x": d.PositionX,
		"position_y": d.PositionY,
		"createdAt":  d.CreatedAt,
		"updatedAt":  d.UpdatedAt,
	}
}

// DocumentFromPayload rebuilds a document from a schema-keyed map.
// Missing or mistyped fields are left at their zero value.
func DocumentFromPayload(id string, payload map[string]any) Document {
	doc := Document{ID: id}
	if s, ok := payload["id"].(string); ok && s != "" {
		doc.ID = s
	}
	doc.Name, _ = payload["name"].(string)
	doc.Content, _ = payload["content"].(string)
	doc.Color, _ = payload["color"].(string)
	doc.Tag, _ = payload["tag"].(string)
	doc.PositionX = toFloat(payload["position_x"])
	doc.PositionY = toFloat(payload["position_y"])
	doc.CreatedAt = toInt(payload["createdAt"])
	doc.UpdatedAt = toInt(payload["updatedAt"])
	return doc
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
