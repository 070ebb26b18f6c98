package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"notegraph/internal/contextutil"
	"notegraph/internal/service"
	"notegraph/internal/wire"
)

// DefaultMaxUploadBytes limits multipart uploads when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

var noteErrors = errorMessages{notFound: wire.MsgNoteNotFound}

// NoteHandler handles the note endpoints.
type NoteHandler struct {
	graph          service.GraphService
	maxUploadBytes int64
	markdown       goldmark.Markdown
	page           *template.Template
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Name    string
	Color   string
	Tag     string
	Updated string
	Content template.HTML
}

var notePage = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Name}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 820px;
      line-height: 1.6;
    }
    header {
      border-left: 6px solid {{.Color}};
      padding-left: 1rem;
      margin-bottom: 1.5rem;
    }
    .meta {
      color: #64748b;
      font-size: 0.9rem;
    }
    pre {
      background: #f1f5f9;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 8px;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Name}}</h1>
    <p class="meta">{{if .Tag}}#{{.Tag}} &middot; {{end}}updated {{.Updated}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

// NewNoteHandler creates a new NoteHandler. maxUploadBytes <= 0 uses
// DefaultMaxUploadBytes.
func NewNoteHandler(graph service.GraphService, maxUploadBytes int64) *NoteHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &NoteHandler{
		graph:          graph,
		maxUploadBytes: maxUploadBytes,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		page: notePage,
	}
}

// List handles GET /notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notes, err := h.graph.ListNotes(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, notesToWire(notes))
}

// Get handles GET /notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.graph.GetNote(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, noteToWire(*note))
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req wire.CreateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid create note body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.graph.CreateNote(ctx, createNoteFromWire(req))
	if err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, noteToWire(*note))
}

// Update handles PUT /notes/{id}. Only the fields present in the body change.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req wire.UpdateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid update note body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.graph.UpdateNote(ctx, chi.URLParam(r, "id"), updateNoteFromWire(req))
	if err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, noteToWire(*note))
}

// Delete handles DELETE /notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.graph.DeleteNote(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err, noteErrors)
		return
	}
	writeJSON(ctx, w, http.StatusOK, wire.MessageResponse{Message: wire.MsgNoteDeleted})
}

// Upload handles POST /notes/upload with a multipart "file" field.
func (h *NoteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		logger.WarnContext(ctx, "upload without file", "error", err)
		writeError(w, http.StatusBadRequest, wire.MsgNoFile)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	fileURL, err := h.graph.Upload(ctx, service.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		handleServiceError(ctx, w, err, errorMessages{upstream: http.StatusInternalServerError})
		return
	}
	writeJSON(ctx, w, http.StatusOK, wire.UploadResponse{URL: fileURL})
}

// Render handles GET /notes/{id}/render, serving the note content as HTML.
func (h *NoteHandler) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	note, err := h.graph.GetNote(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to load note", "error", err)
		http.Error(w, "failed to load note", http.StatusInternalServerError)
		return
	}

	htmlContent, err := h.renderMarkdown([]byte(note.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "note_id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	err = h.page.Execute(&page, notePageData{
		Name:    note.Name,
		Color:   cssColor(note.Color),
		Tag:     note.Tag,
		Updated: note.UpdatedAt.Format("2006-01-02 15:04"),
		Content: template.HTML(htmlContent),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "note_id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// cssColor keeps simple color names and hex values; anything else falls back.
func cssColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "#3b82f6"
	}
	for _, r := range c {
		if !(r == '#' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "#3b82f6"
		}
	}
	return c
}
