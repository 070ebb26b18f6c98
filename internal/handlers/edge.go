package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"notegraph/internal/contextutil"
	"notegraph/internal/service"
	"notegraph/internal/wire"
)

var edgeErrors = errorMessages{
	notFound: wire.MsgEdgeNotFound,
	conflict: wire.MsgEdgeExists,
}

// EdgeHandler handles the edge endpoints under /notes/edges.
type EdgeHandler struct {
	graph service.GraphService
}

// NewEdgeHandler creates a new EdgeHandler.
func NewEdgeHandler(graph service.GraphService) *EdgeHandler {
	return &EdgeHandler{graph: graph}
}

// List handles GET /notes/edges.
func (h *EdgeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	edges, err := h.graph.ListEdges(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, edgeErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, edgesToWire(edges))
}

// Create handles POST /notes/edges.
//
// Replies 400 when an endpoint is missing, 404 when either note does not
// exist and 409 when the directed edge is already present.
func (h *EdgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req wire.CreateEdgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid create edge body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, wire.MsgEdgeEndpoints)
		return
	}

	edge, err := h.graph.CreateEdge(ctx, createEdgeFromWire(req))
	if err != nil {
		handleServiceError(ctx, w, err, errorMessages{
			notFound: wire.MsgEndpointMissing,
			conflict: wire.MsgEdgeExists,
		})
		return
	}
	writeJSON(ctx, w, http.StatusCreated, edgeToWire(*edge))
}

// Delete handles DELETE /notes/edges/{id}.
func (h *EdgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.graph.DeleteEdge(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err, edgeErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, wire.MessageResponse{Message: wire.MsgEdgeDeleted})
}

// ListForNote handles GET /notes/edges/note/{id}.
func (h *EdgeHandler) ListForNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	edges, err := h.graph.ListEdgesForNote(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, edgesToWire(edges))
}
