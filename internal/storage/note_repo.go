package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notegraph/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Create inserts a new note, assigning its ID, defaults and timestamps.
	Create(ctx context.Context, note *Note) error
	// Get gets a note by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (*Note, error)
	// Update merges patch into the stored note and refreshes updated_at.
	Update(ctx context.Context, id string, patch NotePatch) (*Note, error)
	// Delete removes the note and every edge that references it.
	// Returns the number of edges removed with it.
	Delete(ctx context.Context, id string) (int64, error)
	// List returns all notes.
	List(ctx context.Context) ([]Note, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, now: time.Now}
}

const noteColumns = "id, name, content, color, tag, image_url, position_x, position_y, width, height, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var (
		note                 Note
		width, height        sql.NullFloat64
		createdAt, updatedAt string
	)
	err := row.Scan(&note.ID, &note.Name, &note.Content, &note.Color, &note.Tag, &note.ImageURL,
		&note.Position.X, &note.Position.Y, &width, &height, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if width.Valid {
		note.Width = &width.Float64
	}
	if height.Valid {
		note.Height = &height.Float64
	}
	if note.CreatedAt, err = scanTime(createdAt); err != nil {
		return nil, err
	}
	if note.UpdatedAt, err = scanTime(updatedAt); err != nil {
		return nil, err
	}
	return &note, nil
}

func validateNote(note *Note) error {
	if strings.TrimSpace(note.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(note.Content) == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	return nil
}

// Create inserts a new note. A caller-supplied ID is ignored.
// Empty color falls back to DefaultColor; created_at and updated_at are equal.
func (r *NoteRepo) Create(ctx context.Context, note *Note) error {
	if err := validateNote(note); err != nil {
		return err
	}

	note.ID = uuid.New().String()
	if note.Color == "" {
		note.Color = DefaultColor
	}
	now := r.now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		note.ID, note.Name, note.Content, note.Color, note.Tag, note.ImageURL,
		note.Position.X, note.Position.Y, note.Width, note.Height,
		formatTime(note.CreatedAt), formatTime(note.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Get gets a note by ID.
// Returns nil and ErrNotFound if not found.
func (r *NoteRepo) Get(ctx context.Context, id string) (*Note, error) {
	note, err := scanNote(r.db.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// Update applies patch to the note with the given ID inside a single
// write transaction, so concurrent partial updates never lose fields.
func (r *NoteRepo) Update(ctx context.Context, id string, patch NotePatch) (*Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	note, err := scanNote(tx.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	applyPatch(note, patch)
	if err := validateNote(note); err != nil {
		return nil, err
	}
	// UpdatedAt strictly increases per note; clients order replies by it.
	now := r.now().UTC()
	if !now.After(note.UpdatedAt) {
		now = note.UpdatedAt.Add(time.Nanosecond)
	}
	note.UpdatedAt = now

	_, err = tx.ExecContext(ctx,
		`UPDATE notes SET name = ?, content = ?, color = ?, tag = ?, image_url = ?,
		 position_x = ?, position_y = ?, width = ?, height = ?, updated_at = ?
		 WHERE id = ?`,
		note.Name, note.Content, note.Color, note.Tag, note.ImageURL,
		note.Position.X, note.Position.Y, note.Width, note.Height, formatTime(note.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit note update: %w", err)
	}
	return note, nil
}

func applyPatch(note *Note, patch NotePatch) {
	if patch.Name != nil {
		note.Name = *patch.Name
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Color != nil {
		note.Color = *patch.Color
	}
	if patch.Tag != nil {
		note.Tag = *patch.Tag
	}
	if patch.ImageURL != nil {
		note.ImageURL = *patch.ImageURL
	}
	if patch.Position != nil {
		if patch.Position.X != nil {
			note.Position.X = *patch.Position.X
		}
		if patch.Position.Y != nil {
			note.Position.Y = *patch.Position.Y
		}
	}
	if patch.Width != nil {
		note.Width = patch.Width
	}
	if patch.Height != nil {
		note.Height = patch.Height
	}
}

// Delete removes the note and its incident edges in one transaction.
// Readers never observe the note gone while an edge still references it.
func (r *NoteRepo) Delete(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM edges WHERE source = ? OR target = ?", id, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete edges for note: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted edges: %w", err)
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted notes: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit note delete: %w", err)
	}
	return removed, nil
}

// List returns all notes ordered by creation time.
// Returns an empty slice if there are no notes.
func (r *NoteRepo) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+noteColumns+" FROM notes ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	notes := []Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
