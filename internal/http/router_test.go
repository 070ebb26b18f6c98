package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/mock/gomock"

	"notegraph/internal/service"
	"notegraph/internal/service/mocks"
	"notegraph/internal/storage"
	"notegraph/internal/wire"
)

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{Graph: mocks.NewMockGraphService(ctrl)})

	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGraph := mocks.NewMockGraphService(ctrl)
	mockGraph.EXPECT().ListNotes(gomock.Any()).Return([]storage.Note{}, nil).AnyTimes()
	mockGraph.EXPECT().ListEdges(gomock.Any()).Return([]storage.Edge{}, nil).AnyTimes()
	mockGraph.EXPECT().ListEdgesForNote(gomock.Any(), "n1").Return([]storage.Edge{}, nil).AnyTimes()
	mockGraph.EXPECT().SearchNotes(gomock.Any(), gomock.Any()).Return([]storage.Note{}, nil).AnyTimes()
	mockGraph.EXPECT().GetNote(gomock.Any(), "n1").
		Return(nil, service.WrapError(service.ErrNotFound, "note not found")).AnyTimes()

	reg := prometheus.NewRegistry()
	router := NewRouter(&Deps{
		Graph:   mockGraph,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "list notes", method: http.MethodGet, path: "/notes", wantStatus: http.StatusOK},
		{name: "list edges is not a note id", method: http.MethodGet, path: "/notes/edges", wantStatus: http.StatusOK},
		{name: "edges for note", method: http.MethodGet, path: "/notes/edges/note/n1", wantStatus: http.StatusOK},
		{name: "search is not a note id", method: http.MethodGet, path: "/notes/search?q=x", wantStatus: http.StatusOK},
		{name: "get note", method: http.MethodGet, path: "/notes/n1", wantStatus: http.StatusNotFound},
		{name: "create edge without body", method: http.MethodPost, path: "/notes/edges", wantStatus: http.StatusBadRequest},
		{name: "patch not allowed", method: http.MethodPatch, path: "/notes/n1", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/chat", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{Graph: mocks.NewMockGraphService(ctrl)})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}

// TestRouter_DeleteNoteCascades drives the API against a real database:
// deleting a note leaves no edge pointing at it.
func TestRouter_DeleteNoteCascades(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	graph := service.NewGraphService(storage.NewNoteRepo(db), storage.NewEdgeRepo(db))
	srv := httptest.NewServer(NewRouter(&Deps{Graph: graph, DB: db}))
	t.Cleanup(srv.Close)

	do := func(method, path string, body any, want int, out any) {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("encode: %v", err)
			}
		}
		req, err := http.NewRequest(method, srv.URL+path, &buf)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != want {
			t.Fatalf("%s %s status = %d, want %d", method, path, resp.StatusCode, want)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				t.Fatalf("decode %s %s: %v", method, path, err)
			}
		}
	}

	var a, b wire.Note
	do(http.MethodPost, "/notes", wire.CreateNoteRequest{Name: "A", Content: "a"}, http.StatusCreated, &a)
	do(http.MethodPost, "/notes", wire.CreateNoteRequest{Name: "B", Content: "b"}, http.StatusCreated, &b)

	var edge wire.Edge
	do(http.MethodPost, "/notes/edges", wire.CreateEdgeRequest{Source: a.ID, Target: b.ID}, http.StatusCreated, &edge)
	if edge.ID != "e"+a.ID+"-"+b.ID {
		t.Errorf("edge id = %q, want key derived from endpoints", edge.ID)
	}
	do(http.MethodPost, "/notes/edges", wire.CreateEdgeRequest{Source: a.ID, Target: b.ID}, http.StatusConflict, nil)

	var deleted wire.MessageResponse
	do(http.MethodDelete, "/notes/"+a.ID, nil, http.StatusOK, &deleted)
	if deleted.Message != wire.MsgNoteDeleted {
		t.Errorf("delete message = %q", deleted.Message)
	}

	var edges []wire.Edge
	do(http.MethodGet, "/notes/edges", nil, http.StatusOK, &edges)
	if len(edges) != 0 {
		t.Errorf("edges after delete = %+v, want none", edges)
	}

	var notes []wire.Note
	do(http.MethodGet, "/notes", nil, http.StatusOK, &notes)
	if len(notes) != 1 || notes[0].ID != b.ID {
		t.Errorf("notes after delete = %+v, want only B", notes)
	}

	do(http.MethodPost, "/notes/edges", wire.CreateEdgeRequest{Source: a.ID, Target: b.ID}, http.StatusNotFound, nil)
}
