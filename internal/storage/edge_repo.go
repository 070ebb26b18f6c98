package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_edge_store.go -package=mocks notegraph/internal/storage EdgeStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// EdgeStore defines the interface for edge storage operations.
type EdgeStore interface {
	// Create connects two existing notes. Returns ErrNotFound if either
	// endpoint is missing and ErrConflict if the directed pair exists.
	Create(ctx context.Context, in NewEdge) (*Edge, error)
	// Get gets an edge by key. Returns ErrNotFound if not found.
	Get(ctx context.Context, key string) (*Edge, error)
	// Delete removes an edge by key. Returns ErrNotFound if not found.
	Delete(ctx context.Context, key string) error
	// List returns all edges.
	List(ctx context.Context) ([]Edge, error)
	// ListForNote returns all edges where noteID is source or target.
	ListForNote(ctx context.Context, noteID string) ([]Edge, error)
}

// EdgeRepo provides methods for edge operations.
// It implements the EdgeStore interface.
type EdgeRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewEdgeRepo creates a new EdgeRepo.
func NewEdgeRepo(db *sql.DB) *EdgeRepo {
	return &EdgeRepo{db: db, now: time.Now}
}

const edgeColumns = "key, source, target, stroke, stroke_width, type, animated, label, created_at, updated_at"

func scanEdge(row rowScanner) (*Edge, error) {
	var (
		edge                 Edge
		createdAt, updatedAt string
	)
	err := row.Scan(&edge.Key, &edge.Source, &edge.Target, &edge.Style.Stroke, &edge.Style.StrokeWidth,
		&edge.Type, &edge.Animated, &edge.Label, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if edge.CreatedAt, err = scanTime(createdAt); err != nil {
		return nil, err
	}
	if edge.UpdatedAt, err = scanTime(updatedAt); err != nil {
		return nil, err
	}
	return &edge, nil
}

func newEdge(in NewEdge, now time.Time) (*Edge, error) {
	in.Source = strings.TrimSpace(in.Source)
	in.Target = strings.TrimSpace(in.Target)
	if in.Source == "" {
		return nil, &ValidationError{Field: "source", Message: "is required"}
	}
	if in.Target == "" {
		return nil, &ValidationError{Field: "target", Message: "is required"}
	}
	if in.Source == in.Target {
		return nil, &ValidationError{Field: "target", Message: "must differ from source"}
	}

	edge := &Edge{
		Key:       EdgeKey(in.Source, in.Target),
		Source:    in.Source,
		Target:    in.Target,
		Style:     EdgeStyle{Stroke: DefaultEdgeStroke, StrokeWidth: DefaultEdgeStrokeWidth},
		Type:      DefaultEdgeType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Style != nil {
		if in.Style.Stroke != "" {
			edge.Style.Stroke = in.Style.Stroke
		}
		if in.Style.StrokeWidth > 0 {
			edge.Style.StrokeWidth = in.Style.StrokeWidth
		}
	}
	if in.Type != nil && *in.Type != "" {
		edge.Type = *in.Type
	}
	if in.Animated != nil {
		edge.Animated = *in.Animated
	}
	if in.Label != nil {
		edge.Label = *in.Label
	}
	return edge, nil
}

// Create checks both endpoints and inserts the edge inside one write
// transaction. Of two concurrent creates for the same pair exactly one
// succeeds; the other gets ErrConflict.
func (r *EdgeRepo) Create(ctx context.Context, in NewEdge) (*Edge, error) {
	edge, err := newEdge(in, r.now().UTC())
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var found int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE id IN (?, ?)", edge.Source, edge.Target,
	).Scan(&found)
	if err != nil {
		return nil, fmt.Errorf("failed to check edge endpoints: %w", err)
	}
	if found != 2 {
		return nil, ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO edges ("+edgeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		edge.Key, edge.Source, edge.Target, edge.Style.Stroke, edge.Style.StrokeWidth,
		edge.Type, edge.Animated, edge.Label, formatTime(edge.CreatedAt), formatTime(edge.UpdatedAt),
	)
	if isConstraint(err, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique) {
		return nil, ErrConflict
	}
	if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit edge insert: %w", err)
	}
	return edge, nil
}

// Get gets an edge by key.
// Returns nil and ErrNotFound if not found.
func (r *EdgeRepo) Get(ctx context.Context, key string) (*Edge, error) {
	edge, err := scanEdge(r.db.QueryRowContext(ctx, "SELECT "+edgeColumns+" FROM edges WHERE key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query edge: %w", err)
	}
	return edge, nil
}

// Delete removes an edge by key.
func (r *EdgeRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM edges WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted edges: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all edges ordered by creation time.
func (r *EdgeRepo) List(ctx context.Context) ([]Edge, error) {
	return r.query(ctx, "SELECT "+edgeColumns+" FROM edges ORDER BY created_at, key")
}

// ListForNote returns the edges incident to noteID in either direction.
// Returns an empty slice for unknown notes.
func (r *EdgeRepo) ListForNote(ctx context.Context, noteID string) ([]Edge, error) {
	return r.query(ctx,
		"SELECT "+edgeColumns+" FROM edges WHERE source = ? OR target = ? ORDER BY created_at, key",
		noteID, noteID,
	)
}

func (r *EdgeRepo) query(ctx context.Context, query string, args ...any) ([]Edge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	edges := []Edge{}
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, *edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}
	return edges, nil
}
