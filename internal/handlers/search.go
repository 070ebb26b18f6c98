package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"notegraph/internal/contextutil"
	"notegraph/internal/search"
	"notegraph/internal/service"
	"notegraph/internal/wire"
)

// SearchHandler handles the search endpoints.
type SearchHandler struct {
	graph service.GraphService

	// reindexing is set while a background rebuild runs.
	reindexing atomic.Bool
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(graph service.GraphService) *SearchHandler {
	return &SearchHandler{graph: graph}
}

// Search handles GET /notes/search?q=&color=&tag=&near=x,y&limit=.
// Replies 503 when the search index cannot be reached.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, msg := parseSearchQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	notes, err := h.graph.SearchNotes(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err, errorMessages{upstream: http.StatusServiceUnavailable})
		return
	}
	writeJSON(ctx, w, http.StatusOK, notesToWire(notes))
}

// Reindex handles POST /notes/search/reindex. The rebuild runs in the
// background and the request returns immediately. Only one rebuild runs at
// a time; further requests get 409 until it finishes.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if !h.reindexing.CompareAndSwap(false, true) {
		logger.InfoContext(ctx, "search reindex already running")
		writeError(w, http.StatusConflict, wire.MsgReindexRunning)
		return
	}
	logger.InfoContext(ctx, "search reindex triggered via API")

	// Detached from the request so the rebuild outlives it; the logger stays.
	reindexCtx := context.WithoutCancel(ctx)
	go func() {
		defer h.reindexing.Store(false)
		n, err := h.graph.Reindex(reindexCtx)
		if err != nil {
			logger.ErrorContext(reindexCtx, "search reindex failed", "queued", n, "error", err)
			return
		}
		logger.InfoContext(reindexCtx, "search reindex queued", "notes", n)
	}()

	writeJSON(ctx, w, http.StatusAccepted, wire.ReindexResponse{
		Message: "Reindex started. Check server logs for progress.",
		Status:  "accepted",
	})
}

func parseSearchQuery(r *http.Request) (service.SearchRequest, string) {
	q := r.URL.Query()
	req := service.SearchRequest{
		Query: strings.TrimSpace(q.Get("q")),
		Color: q.Get("color"),
		Tag:   q.Get("tag"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, "limit must be an integer"
		}
		req.Limit = limit
	}

	if raw := q.Get("near"); raw != "" {
		xs, ys, ok := strings.Cut(raw, ",")
		if !ok {
			return req, "near must be x,y"
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return req, "near must be x,y"
		}
		req.Near = &search.Point{X: x, Y: y}
	}

	return req, ""
}
