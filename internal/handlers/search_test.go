package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"notegraph/internal/service"
	service_mocks "notegraph/internal/service/mocks"
	"notegraph/internal/storage"
	"notegraph/internal/wire"
)

func TestParseSearchQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    service.SearchRequest
		wantMsg string
	}{
		{
			name:  "text and filters",
			query: "q=+graph+&color=red&tag=work&limit=5",
			want:  service.SearchRequest{Query: "graph", Color: "red", Tag: "work", Limit: 5},
		},
		{
			name:  "near",
			query: "near=1.5,-2",
		},
		{name: "bad limit", query: "limit=abc", wantMsg: "limit must be an integer"},
		{name: "near without comma", query: "near=12", wantMsg: "near must be x,y"},
		{name: "near not numeric", query: "near=a,b", wantMsg: "near must be x,y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/notes/search?"+tt.query, nil)
			got, msg := parseSearchQuery(req)
			if msg != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, msg)
			}
			if msg != "" {
				return
			}
			if tt.name == "near" {
				if got.Near == nil || got.Near.X != 1.5 || got.Near.Y != -2 {
					t.Errorf("unexpected near: %+v", got.Near)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSearchHandler_Search(t *testing.T) {
	tests := []struct {
		name       string
		notes      []storage.Note
		err        error
		wantStatus int
	}{
		{name: "results", notes: []storage.Note{sampleNote("a")}, wantStatus: http.StatusOK},
		{name: "index unavailable", err: service.WrapError(service.ErrUpstreamUnavailable, "qdrant down"), wantStatus: http.StatusServiceUnavailable},
		{name: "invalid limit", err: &service.ValidationError{Field: "limit", Message: "must be at most 100"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGraph := service_mocks.NewMockGraphService(ctrl)
			mockGraph.EXPECT().SearchNotes(gomock.Any(), gomock.Any()).Return(tt.notes, tt.err)

			rr := httptest.NewRecorder()
			NewSearchHandler(mockGraph).Search(rr, newRequest(http.MethodGet, "/notes/search?q=x", nil, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if got := decodeBody[[]wire.Note](t, rr); len(got) != 1 {
					t.Errorf("expected 1 note, got %d", len(got))
				}
			}
		})
	}
}

func TestSearchHandler_ReindexRunsInBackground(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	done := make(chan struct{})
	mockGraph := service_mocks.NewMockGraphService(ctrl)
	mockGraph.EXPECT().Reindex(gomock.Any()).DoAndReturn(func(_ any) (int, error) {
		close(done)
		return 3, nil
	})

	rr := httptest.NewRecorder()
	NewSearchHandler(mockGraph).Reindex(rr, newRequest(http.MethodPost, "/notes/search/reindex", nil, nil))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, rr.Code)
	}
	if got := decodeBody[wire.ReindexResponse](t, rr); got.Status != "accepted" {
		t.Errorf("expected accepted, got %q", got.Status)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reindex was not started")
	}
}

func TestSearchHandler_ReindexRejectsConcurrentRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	mockGraph := service_mocks.NewMockGraphService(ctrl)
	gomock.InOrder(
		mockGraph.EXPECT().Reindex(gomock.Any()).DoAndReturn(func(_ any) (int, error) {
			close(started)
			<-release
			return 3, nil
		}),
		mockGraph.EXPECT().Reindex(gomock.Any()).DoAndReturn(func(_ any) (int, error) {
			close(done)
			return 3, nil
		}),
	)

	h := NewSearchHandler(mockGraph)
	reindex := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Reindex(rr, newRequest(http.MethodPost, "/notes/search/reindex", nil, nil))
		return rr
	}

	if rr := reindex(); rr.Code != http.StatusAccepted {
		t.Fatalf("first reindex: expected status %d, got %d", http.StatusAccepted, rr.Code)
	}
	<-started

	rr := reindex()
	if rr.Code != http.StatusConflict {
		t.Fatalf("reindex while running: expected status %d, got %d", http.StatusConflict, rr.Code)
	}
	if got := decodeBody[wire.ErrorResponse](t, rr); got.Error != wire.MsgReindexRunning {
		t.Errorf("expected error %q, got %q", wire.MsgReindexRunning, got.Error)
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for h.reindexing.Load() {
		if time.Now().After(deadline) {
			t.Fatal("reindex did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if rr := reindex(); rr.Code != http.StatusAccepted {
		t.Fatalf("reindex after finish: expected status %d, got %d", http.StatusAccepted, rr.Code)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second reindex was not started")
	}
}
