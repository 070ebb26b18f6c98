package search

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
		wantTLS  bool
	}{
		{name: "valid URL", urlStr: "http://localhost:6333", wantHost: "localhost", wantPort: 6334},
		{name: "URL with custom port", urlStr: "http://qdrant:9000", wantHost: "qdrant", wantPort: 9001},
		{name: "URL without port", urlStr: "http://localhost", wantHost: "localhost", wantPort: 6334},
		{name: "URL without hostname", urlStr: "http://:6333", wantHost: "localhost", wantPort: 6334},
		{name: "https enables TLS", urlStr: "https://cloud.example.com:6333", wantHost: "cloud.example.com", wantPort: 6334, wantTLS: true},
		{name: "invalid URL", urlStr: "://invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := parseEndpoint(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("parseEndpoint() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEndpoint() error = %v", err)
			}
			if host != tt.wantHost || port != tt.wantPort || useTLS != tt.wantTLS {
				t.Errorf("parseEndpoint() = (%v, %v, %v), want (%v, %v, %v)",
					host, port, useTLS, tt.wantHost, tt.wantPort, tt.wantTLS)
			}
		})
	}
}

func TestNewQdrantIndex_RequiresCollection(t *testing.T) {
	if _, err := NewQdrantIndex("http://localhost:6333", "", ""); err == nil {
		t.Error("NewQdrantIndex() expected error for empty collection")
	}
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name       string
		q          Query
		wantNil    bool
		wantMust   map[string]string
		wantShould []string
	}{
		{name: "no filters", q: Query{}, wantNil: true},
		{
			name:     "facets",
			q:        Query{Color: "red", Tag: "work"},
			wantMust: map[string]string{"color": "red", "tag": "work"},
		},
		{
			name:       "text matches name or content",
			q:          Query{Text: "graph"},
			wantMust:   map[string]string{},
			wantShould: []string{"name", "content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := buildFilter(tt.q)
			if tt.wantNil {
				if filter != nil {
					t.Errorf("buildFilter() = %v, want nil", filter)
				}
				return
			}

			if len(filter.Must) != len(tt.wantMust) {
				t.Fatalf("buildFilter() Must has %d conditions, want %d", len(filter.Must), len(tt.wantMust))
			}
			for _, cond := range filter.Must {
				field := cond.GetField()
				if want := tt.wantMust[field.GetKey()]; field.GetMatch().GetKeyword() != want {
					t.Errorf("Must %s = %q, want %q", field.GetKey(), field.GetMatch().GetKeyword(), want)
				}
			}

			if len(filter.Should) != len(tt.wantShould) {
				t.Fatalf("buildFilter() Should has %d conditions, want %d", len(filter.Should), len(tt.wantShould))
			}
			for i, cond := range filter.Should {
				field := cond.GetField()
				if field.GetKey() != tt.wantShould[i] || field.GetMatch().GetText() != tt.q.Text {
					t.Errorf("Should[%d] = %s:%q", i, field.GetKey(), field.GetMatch().GetText())
				}
			}
		})
	}
}

func TestBuildQueryPoints(t *testing.T) {
	t.Run("default ordering", func(t *testing.T) {
		req := buildQueryPoints("notes", Query{})
		if req.CollectionName != "notes" {
			t.Errorf("CollectionName = %v, want notes", req.CollectionName)
		}
		if req.GetLimit() != DefaultLimit {
			t.Errorf("Limit = %v, want %v", req.GetLimit(), DefaultLimit)
		}
		orderBy := req.GetQuery().GetOrderBy()
		if orderBy == nil {
			t.Fatal("Query should order by a field")
		}
		if orderBy.GetKey() != DefaultSortingField || orderBy.GetDirection() != qdrant.Direction_Desc {
			t.Errorf("OrderBy = %v %v, want %v desc", orderBy.GetKey(), orderBy.GetDirection(), DefaultSortingField)
		}
	})

	t.Run("near point", func(t *testing.T) {
		req := buildQueryPoints("notes", Query{Near: &Point{X: 3, Y: 4}, Limit: 500})
		if req.GetQuery().GetNearest() == nil {
			t.Error("Query should be a nearest query")
		}
		if req.GetLimit() != MaxLimit {
			t.Errorf("Limit = %v, want %v", req.GetLimit(), MaxLimit)
		}
	})
}

func TestFieldIndexType(t *testing.T) {
	want := map[string]qdrant.FieldType{
		"name":       qdrant.FieldType_FieldTypeText,
		"content":    qdrant.FieldType_FieldTypeText,
		"color":      qdrant.FieldType_FieldTypeKeyword,
		"tag":        qdrant.FieldType_FieldTypeKeyword,
		"position_x": qdrant.FieldType_FieldTypeFloat,
		"position_y": qdrant.FieldType_FieldTypeFloat,
		"createdAt":  qdrant.FieldType_FieldTypeInteger,
		"updatedAt":  qdrant.FieldType_FieldTypeInteger,
	}

	for _, field := range Schema {
		got, ok := fieldIndexType(field)
		if field.Name == "id" {
			if ok {
				t.Error("id should not get a payload index")
			}
			continue
		}
		if !ok || got != want[field.Name] {
			t.Errorf("fieldIndexType(%s) = %v, %v; want %v", field.Name, got, ok, want[field.Name])
		}
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil || len(result) != 0 {
		t.Errorf("convertPayloadToMap(nil) = %v, want empty map", result)
	}
}

func TestDocumentPayloadThroughQdrantValues(t *testing.T) {
	doc := Document{
		ID:        "5f1f7a3e-6a54-4c1e-9a57-6a2a3f0b8c11",
		Name:      "A",
		Content:   "alpha",
		Color:     "blue",
		Tag:       "idea",
		PositionX: 12.5,
		PositionY: -3,
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000005000,
	}

	payload := convertPayloadToMap(qdrant.NewValueMap(doc.Payload()))
	got := DocumentFromPayload(doc.ID, payload)
	if got != doc {
		t.Errorf("DocumentFromPayload() = %+v, want %+v", got, doc)
	}
}

func TestDocumentFromPayload_MissingFields(t *testing.T) {
	got := DocumentFromPayload("id-1", map[string]any{"name": "only"})
	if got.ID != "id-1" || got.Name != "only" || got.CreatedAt != 0 || got.PositionX != 0 {
		t.Errorf("DocumentFromPayload() = %+v", got)
	}
}
