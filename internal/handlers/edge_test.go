package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"notegraph/internal/service"
	service_mocks "notegraph/internal/service/mocks"
	"notegraph/internal/storage"
	"notegraph/internal/wire"
)

func sampleEdge(source, target string) storage.Edge {
	return storage.Edge{
		Key:    storage.EdgeKey(source, target),
		Source: source,
		Target: target,
		Style:  storage.EdgeStyle{Stroke: storage.DefaultEdgeStroke, StrokeWidth: storage.DefaultEdgeStrokeWidth},
		Type:   storage.DefaultEdgeType,
	}
}

func TestEdgeHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       `{"source":"a","target":"b"}`,
			callsSvc:   true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing target",
			body:       `{"source":"a"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  wire.MsgEdgeEndpoints,
		},
		{
			name:       "blank source",
			body:       `{"source":"  ","target":"b"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  wire.MsgEdgeEndpoints,
		},
		{
			name:       "endpoint missing",
			body:       `{"source":"a","target":"ghost"}`,
			serviceErr: service.WrapError(service.ErrNotFound, "endpoint not found"),
			callsSvc:   true,
			wantStatus: http.StatusNotFound,
			wantError:  wire.MsgEndpointMissing,
		},
		{
			name:       "duplicate",
			body:       `{"source":"a","target":"b"}`,
			serviceErr: service.WrapError(service.ErrConflict, "edge exists"),
			callsSvc:   true,
			wantStatus: http.StatusConflict,
			wantError:  wire.MsgEdgeExists,
		},
		{
			name:       "self loop",
			body:       `{"source":"a","target":"a"}`,
			serviceErr: &service.ValidationError{Field: "target", Message: "must differ from source"},
			callsSvc:   true,
			wantStatus: http.StatusBadRequest,
			wantError:  "target must differ from source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGraph := service_mocks.NewMockGraphService(ctrl)
			if tt.callsSvc {
				mockGraph.EXPECT().CreateEdge(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, req service.CreateEdgeRequest) (*storage.Edge, error) {
						if tt.serviceErr != nil {
							return nil, tt.serviceErr
						}
						e := sampleEdge(req.Source, req.Target)
						return &e, nil
					})
			}

			rr := httptest.NewRecorder()
			NewEdgeHandler(mockGraph).Create(rr, newRequest(http.MethodPost, "/notes/edges", []byte(tt.body), nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantError != "" {
				if got := decodeBody[wire.ErrorResponse](t, rr); got.Error != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, got.Error)
				}
				return
			}
			got := decodeBody[wire.Edge](t, rr)
			if got.ID != "ea-b" || got.Source != "a" || got.Target != "b" {
				t.Errorf("unexpected edge: %+v", got)
			}
			if got.Style.StrokeWidth != storage.DefaultEdgeStrokeWidth {
				t.Errorf("expected default stroke width, got %v", got.Style.StrokeWidth)
			}
		})
	}
}

func TestEdgeHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantBody: wire.MsgEdgeDeleted},
		{name: "not found", err: service.WrapError(service.ErrNotFound, "edge not found"), wantStatus: http.StatusNotFound, wantBody: wire.MsgEdgeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGraph := service_mocks.NewMockGraphService(ctrl)
			mockGraph.EXPECT().DeleteEdge(gomock.Any(), "ea-b").Return(tt.err)

			rr := httptest.NewRecorder()
			NewEdgeHandler(mockGraph).Delete(rr, newRequest(http.MethodDelete, "/notes/edges/ea-b", nil, map[string]string{"id": "ea-b"}))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.err == nil {
				if got := decodeBody[wire.MessageResponse](t, rr); got.Message != tt.wantBody {
					t.Errorf("expected %q, got %q", tt.wantBody, got.Message)
				}
			} else if got := decodeBody[wire.ErrorResponse](t, rr); got.Error != tt.wantBody {
				t.Errorf("expected %q, got %q", tt.wantBody, got.Error)
			}
		})
	}
}

func TestEdgeHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGraph := service_mocks.NewMockGraphService(ctrl)
	mockGraph.EXPECT().ListEdges(gomock.Any()).Return([]storage.Edge{sampleEdge("a", "b"), sampleEdge("b", "a")}, nil)

	rr := httptest.NewRecorder()
	NewEdgeHandler(mockGraph).List(rr, newRequest(http.MethodGet, "/notes/edges", nil, nil))

	edges := decodeBody[[]wire.Edge](t, rr)
	if len(edges) != 2 || edges[1].ID != "eb-a" {
		t.Errorf("unexpected edges: %+v", edges)
	}
}

func TestEdgeHandler_ListForNote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGraph := service_mocks.NewMockGraphService(ctrl)
	gomock.InOrder(
		mockGraph.EXPECT().ListEdgesForNote(gomock.Any(), "a").Return([]storage.Edge{sampleEdge("a", "b")}, nil),
		mockGraph.EXPECT().ListEdgesForNote(gomock.Any(), "b").Return(nil, errors.New("boom")),
	)

	h := NewEdgeHandler(mockGraph)

	rr := httptest.NewRecorder()
	h.ListForNote(rr, newRequest(http.MethodGet, "/notes/edges/note/a", nil, map[string]string{"id": "a"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ListForNote(rr, newRequest(http.MethodGet, "/notes/edges/note/b", nil, map[string]string{"id": "b"}))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}
