package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notegraph/internal/indexer"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeSync struct {
	err   error
	stats indexer.SyncStats
}

func (f fakeSync) Ping(context.Context) error { return f.err }
func (f fakeSync) Stats() indexer.SyncStats   { return f.stats }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		sync       SyncMonitor
		wantChecks map[string]string
		wantSync   bool
	}{
		{
			name:       "search disabled",
			db:         fakePinger{},
			wantChecks: map[string]string{"database": "ok", "search": "disabled"},
		},
		{
			name:       "all ok",
			db:         fakePinger{},
			sync:       fakeSync{stats: indexer.SyncStats{Upserted: 4, Breaker: "closed"}},
			wantChecks: map[string]string{"database": "ok", "search": "ok"},
			wantSync:   true,
		},
		{
			name:       "index down still healthy",
			db:         fakePinger{},
			sync:       fakeSync{err: errors.New("connection refused"), stats: indexer.SyncStats{Breaker: "open"}},
			wantChecks: map[string]string{"database": "ok", "search": "error"},
			wantSync:   true,
		},
		{
			name:       "database down",
			db:         fakePinger{err: errors.New("locked")},
			wantChecks: map[string]string{"database": "error", "search": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.sync)
			h.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
			}
			resp := decodeBody[HealthResponse](t, rr)
			if resp.Status != "ok" {
				t.Errorf("expected status ok, got %q", resp.Status)
			}
			if resp.Timestamp != "2025-01-02T03:04:05Z" {
				t.Errorf("unexpected timestamp %q", resp.Timestamp)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("check %s: expected %q, got %q", k, v, resp.Checks[k])
				}
			}
			if (resp.Sync != nil) != tt.wantSync {
				t.Errorf("expected sync stats present=%v, got %+v", tt.wantSync, resp.Sync)
			}
		})
	}
}
