package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks notegraph/internal/service Syncer,Searcher,Uploader
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_graph_service.go -package=mocks notegraph/internal/service GraphService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"notegraph/internal/contextutil"
	"notegraph/internal/indexer"
	"notegraph/internal/search"
	"notegraph/internal/storage"
)

// Syncer mirrors note changes into the search index. Implementations must
// not block and must not report index failures.
type Syncer interface {
	Upsert(ctx context.Context, note storage.Note)
	Remove(ctx context.Context, noteID string)
	Rebuild(ctx context.Context, notes indexer.NoteLister) (int, error)
}

// Searcher queries the search index.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]search.Hit, error)
}

// Uploader stores a file in object storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// CreateNoteRequest holds the fields accepted when creating a note.
type CreateNoteRequest struct {
	Name     string `validate:"required"`
	Content  string `validate:"required"`
	Color    string
	Tag      string
	ImageURL string
	Position *storage.Position
	Width    *float64 `validate:"omitnil,gt=0"`
	Height   *float64 `validate:"omitnil,gt=0"`
}

// UpdateNoteRequest holds a partial note update. Nil fields are unchanged.
type UpdateNoteRequest struct {
	Name     *string
	Content  *string
	Color    *string
	Tag      *string
	ImageURL *string
	Position *storage.PositionPatch
	Width    *float64 `validate:"omitnil,gt=0"`
	Height   *float64 `validate:"omitnil,gt=0"`
}

// CreateEdgeRequest holds the fields accepted when connecting two notes.
type CreateEdgeRequest struct {
	Source   string `validate:"required"`
	Target   string `validate:"required,nefield=Source"`
	Style    *storage.EdgeStyle
	Type     *string
	Animated *bool
	Label    *string
}

// SearchRequest selects notes through the search index.
type SearchRequest struct {
	Query string
	Color string
	Tag   string
	Near  *search.Point
	Limit int `validate:"gte=0,lte=100"`
}

// UploadRequest carries one file to object storage.
type UploadRequest struct {
	Filename    string `validate:"required"`
	ContentType string
	Body        io.Reader
}

// GraphService provides the note graph operations.
type GraphService interface {
	ListNotes(ctx context.Context) ([]storage.Note, error)
	GetNote(ctx context.Context, id string) (*storage.Note, error)
	CreateNote(ctx context.Context, req CreateNoteRequest) (*storage.Note, error)
	UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*storage.Note, error)
	// DeleteNote removes the note together with every edge touching it.
	DeleteNote(ctx context.Context, id string) error

	ListEdges(ctx context.Context) ([]storage.Edge, error)
	CreateEdge(ctx context.Context, req CreateEdgeRequest) (*storage.Edge, error)
	DeleteEdge(ctx context.Context, key string) error
	ListEdgesForNote(ctx context.Context, noteID string) ([]storage.Edge, error)

	// SearchNotes returns the notes matching req, in index order.
	SearchNotes(ctx context.Context, req SearchRequest) ([]storage.Note, error)
	// Reindex replays every note into the search index.
	Reindex(ctx context.Context) (int, error)
	// Upload stores a file in object storage and returns its URL.
	Upload(ctx context.Context, req UploadRequest) (string, error)
}

// graphService implements GraphService.
type graphService struct {
	notes    storage.NoteStore
	edges    storage.EdgeStore
	syncer   Syncer
	searcher Searcher
	uploader Uploader
}

// Option configures optional collaborators of the graph service.
type Option func(*graphService)

// WithSyncer mirrors note changes through s.
func WithSyncer(s Syncer) Option {
	return func(g *graphService) { g.syncer = s }
}

// WithSearcher enables SearchNotes.
func WithSearcher(s Searcher) Option {
	return func(g *graphService) { g.searcher = s }
}

// WithUploader enables Upload.
func WithUploader(u Uploader) Option {
	return func(g *graphService) { g.uploader = u }
}

// NewGraphService creates a new GraphService.
func NewGraphService(notes storage.NoteStore, edges storage.EdgeStore, opts ...Option) GraphService {
	s := &graphService{
		notes: notes,
		edges: edges,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getLogger extracts logger from context or returns default logger.
func (s *graphService) getLogger(ctx context.Context) *slog.Logger {
	return contextutil.LoggerFromContext(ctx)
}

// translate maps store errors onto service errors.
func translate(err error, msg string) error {
	var vErr *storage.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &vErr):
		return &ValidationError{Field: vErr.Field, Message: vErr.Message}
	case errors.Is(err, storage.ErrNotFound):
		return WrapError(ErrNotFound, msg)
	case errors.Is(err, storage.ErrConflict):
		return WrapError(ErrConflict, msg)
	}
	return WrapError(err, msg)
}

func (s *graphService) ListNotes(ctx context.Context) ([]storage.Note, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		s.getLogger(ctx).ErrorContext(ctx, "failed to list notes", "error", err)
		return nil, translate(err, "failed to list notes")
	}
	return notes, nil
}

func (s *graphService) GetNote(ctx context.Context, id string) (*storage.Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("note %s", id))
	}
	return note, nil
}

func (s *graphService) CreateNote(ctx context.Context, req CreateNoteRequest) (*storage.Note, error) {
	logger := s.getLogger(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid create note request", "error", err)
		return nil, err
	}

	note := &storage.Note{
		Name:     req.Name,
		Content:  req.Content,
		Color:    req.Color,
		Tag:      req.Tag,
		ImageURL: req.ImageURL,
		Width:    req.Width,
		Height:   req.Height,
	}
	if req.Position != nil {
		note.Position = *req.Position
	}

	if err := s.notes.Create(ctx, note); err != nil {
		logger.WarnContext(ctx, "failed to create note", "error", err)
		return nil, translate(err, "failed to create note")
	}

	if s.syncer != nil {
		s.syncer.Upsert(ctx, *note)
	}

	logger.InfoContext(ctx, "note created", "note_id", note.ID)
	return note, nil
}

func (s *graphService) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*storage.Note, error) {
	logger := s.getLogger(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid update note request", "note_id", id, "error", err)
		return nil, err
	}

	note, err := s.notes.Update(ctx, id, storage.NotePatch{
		Name:     req.Name,
		Content:  req.Content,
		Color:    req.Color,
		Tag:      req.Tag,
		ImageURL: req.ImageURL,
		Position: req.Position,
		Width:    req.Width,
		Height:   req.Height,
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to update note", "note_id", id, "error", err)
		return nil, translate(err, fmt.Sprintf("note %s", id))
	}

	if s.syncer != nil {
		s.syncer.Upsert(ctx, *note)
	}

	logger.InfoContext(ctx, "note updated", "note_id", id)
	return note, nil
}

func (s *graphService) DeleteNote(ctx context.Context, id string) error {
	logger := s.getLogger(ctx)

	removed, err := s.notes.Delete(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "failed to delete note", "note_id", id, "error", err)
		return translate(err, fmt.Sprintf("note %s", id))
	}

	if s.syncer != nil {
		s.syncer.Remove(ctx, id)
	}

	logger.InfoContext(ctx, "note deleted", "note_id", id, "edges_removed", removed)
	return nil
}

func (s *graphService) ListEdges(ctx context.Context) ([]storage.Edge, error) {
	edges, err := s.edges.List(ctx)
	if err != nil {
		s.getLogger(ctx).ErrorContext(ctx, "failed to list edges", "error", err)
		return nil, translate(err, "failed to list edges")
	}
	return edges, nil
}

func (s *graphService) CreateEdge(ctx context.Context, req CreateEdgeRequest) (*storage.Edge, error) {
	logger := s.getLogger(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid create edge request", "error", err)
		return nil, err
	}

	edge, err := s.edges.Create(ctx, storage.NewEdge{
		Source:   req.Source,
		Target:   req.Target,
		Style:    req.Style,
		Type:     req.Type,
		Animated: req.Animated,
		Label:    req.Label,
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to create edge", "source", req.Source, "target", req.Target, "error", err)
		return nil, translate(err, fmt.Sprintf("edge %s", storage.EdgeKey(req.Source, req.Target)))
	}

	logger.InfoContext(ctx, "edge created", "edge_id", edge.Key)
	return edge, nil
}

func (s *graphService) DeleteEdge(ctx context.Context, key string) error {
	logger := s.getLogger(ctx)

	if err := s.edges.Delete(ctx, key); err != nil {
		logger.WarnContext(ctx, "failed to delete edge", "edge_id", key, "error", err)
		return translate(err, fmt.Sprintf("edge %s", key))
	}

	logger.InfoContext(ctx, "edge deleted", "edge_id", key)
	return nil
}

func (s *graphService) ListEdgesForNote(ctx context.Context, noteID string) ([]storage.Edge, error) {
	edges, err := s.edges.ListForNote(ctx, noteID)
	if err != nil {
		s.getLogger(ctx).ErrorContext(ctx, "failed to list edges for note", "note_id", noteID, "error", err)
		return nil, translate(err, "failed to list edges for note")
	}
	return edges, nil
}

// SearchNotes resolves index hits against the store. Hits whose note no
// longer exists are skipped, since the index may lag behind deletes.
func (s *graphService) SearchNotes(ctx context.Context, req SearchRequest) ([]storage.Note, error) {
	logger := s.getLogger(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.searcher == nil {
		return nil, WrapError(ErrUpstreamUnavailable, "search is not configured")
	}

	hits, err := s.searcher.Search(ctx, search.Query{
		Text:  req.Query,
		Color: req.Color,
		Tag:   req.Tag,
		Near:  req.Near,
		Limit: req.Limit,
	})
	if err != nil {
		logger.WarnContext(ctx, "search index query failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	notes := make([]storage.Note, 0, len(hits))
	for _, hit := range hits {
		note, err := s.notes.Get(ctx, hit.Document.ID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.DebugContext(ctx, "skipping stale search hit", "note_id", hit.Document.ID)
			continue
		}
		if err != nil {
			return nil, translate(err, "failed to load search hit")
		}
		notes = append(notes, *note)
	}

	logger.InfoContext(ctx, "search completed", "hits", len(hits), "notes", len(notes))
	return notes, nil
}

func (s *graphService) Reindex(ctx context.Context) (int, error) {
	if s.syncer == nil {
		return 0, WrapError(ErrUpstreamUnavailable, "search is not configured")
	}
	n, err := s.syncer.Rebuild(ctx, s.notes)
	if err != nil {
		return n, WrapError(err, "failed to rebuild search index")
	}
	return n, nil
}

func (s *graphService) Upload(ctx context.Context, req UploadRequest) (string, error) {
	logger := s.getLogger(ctx)

	if err := validateStruct(req); err != nil {
		return "", err
	}
	if req.Body == nil {
		return "", &ValidationError{Field: "file", Message: "is required"}
	}
	if s.uploader == nil {
		return "", WrapError(ErrUpstreamUnavailable, "uploads are not configured")
	}

	fileURL, err := s.uploader.Upload(ctx, req.Filename, req.ContentType, req.Body)
	if err != nil {
		logger.ErrorContext(ctx, "upload failed", "filename", req.Filename, "error", err)
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return fileURL, nil
}
