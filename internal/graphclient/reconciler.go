package graphclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"notegraph/internal/wire"
)

var (
	// ErrStopped is returned once the reconciler loop has exited.
	ErrStopped = errors.New("reconciler stopped")
	// ErrUnknownNote is returned for gestures on a note the view does not hold.
	ErrUnknownNote = errors.New("note not in view")
)

// Reconciler owns the view state. All state changes run on the Run loop;
// gesture methods call the API on the caller's goroutine and post the
// reply back to the loop, so several requests can be in flight at once.
//
// Replies are ordered by the server's updatedAt. A reply older than the last
// one applied for that note is not merged, and replies for notes no longer
// in the view are dropped.
type Reconciler struct {
	api      API
	notifier Notifier
	logger   *slog.Logger

	msgs    chan func()
	stopped chan struct{}

	// Owned by the loop.
	nodes    []Node
	edges    []Edge
	versions map[string]time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) { r.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// NewReconciler creates a Reconciler. Call Run before issuing gestures.
func NewReconciler(api API, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:      api,
		notifier: discardNotifier{},
		logger:   slog.Default(),
		msgs:     make(chan func()),
		stopped:  make(chan struct{}),
		versions: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes state changes until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-r.msgs:
			fn()
		}
	}
}

// exec runs fn on the loop and waits for it.
func (r *Reconciler) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case r.msgs <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopped:
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrStopped
	}
}

// reply posts the outcome of an API call. It is not cancelled with the
// request context, so a reply that arrived is always reconciled.
func (r *Reconciler) reply(ctx context.Context, fn func()) error {
	return r.exec(context.WithoutCancel(ctx), fn)
}

// Snapshot returns a copy of the view state.
func (r *Reconciler) Snapshot(ctx context.Context) (Graph, error) {
	var g Graph
	err := r.exec(ctx, func() {
		g = Graph{
			Nodes: slices.Clone(r.nodes),
			Edges: slices.Clone(r.edges),
		}
	})
	return g, err
}

// Load fetches all notes and edges concurrently and replaces the view.
// On failure the view is left as it was.
func (r *Reconciler) Load(ctx context.Context) error {
	var (
		notes []wire.Note
		edges []wire.Edge
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notes, err = r.api.ListNotes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = r.api.ListEdges(gctx)
		return err
	})
	loadErr := g.Wait()

	err := r.reply(ctx, func() {
		if loadErr != nil {
			r.logger.ErrorContext(ctx, "failed to load graph", "error", loadErr)
			r.notify(KindError, "Load failed", "Could not load notes and connections from database")
			return
		}

		nodes := make([]Node, 0, len(notes))
		versions := make(map[string]time.Time, len(notes))
		for i, n := range notes {
			nodes = append(nodes, nodeFromNote(n, i))
			versions[n.ID] = n.UpdatedAt
		}
		viewEdges := make([]Edge, 0, len(edges))
		for _, e := range edges {
			viewEdges = append(viewEdges, edgeFromWire(e))
		}
		r.nodes = nodes
		r.edges = viewEdges
		r.versions = versions
		r.logger.DebugContext(ctx, "graph loaded", "notes", len(nodes), "edges", len(viewEdges))
	})
	return errors.Join(loadErr, err)
}

// AddNote creates a note and appends the server's copy to the view. Nothing
// is shown until the API confirms. A request without a position is placed
// below the existing nodes.
func (r *Reconciler) AddNote(ctx context.Context, req wire.CreateNoteRequest) (Node, error) {
	if req.Position == nil {
		if err := r.exec(ctx, func() {
			p := FallbackPosition(len(r.nodes))
			req.Position = &p
		}); err != nil {
			return Node{}, err
		}
	}

	note, apiErr := r.api.CreateNote(ctx, req)

	var node Node
	err := r.reply(ctx, func() {
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to add note", "error", apiErr)
			r.notify(KindError, "Add failed", "Could not add the note")
			return
		}
		node = nodeFromNote(*note, len(r.nodes))
		if !validPosition(note.Position) {
			node.Position = *req.Position
		}
		if i := r.nodeIndex(node.ID); i >= 0 {
			r.nodes[i] = node
		} else {
			r.nodes = append(r.nodes, node)
		}
		r.accept(node.ID, note.UpdatedAt)
		r.notify(KindSuccess, "Note added", fmt.Sprintf("Note %q was added successfully.", note.Name))
	})
	return node, errors.Join(apiErr, err)
}

// EditNote updates a note and merges the reply into the view unless a newer
// server state is already shown. On failure the view is left as it was.
func (r *Reconciler) EditNote(ctx context.Context, id string, patch wire.UpdateNoteRequest) error {
	err := r.issue(ctx, id, nil)
	if err != nil {
		return err
	}

	note, apiErr := r.api.UpdateNote(ctx, id, patch)

	err = r.reply(ctx, func() {
		i := r.nodeIndex(id)
		if i < 0 {
			r.logger.DebugContext(ctx, "dropping edit reply for removed note", "note_id", id)
			return
		}
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to update note", "note_id", id, "error", apiErr)
			r.notify(KindError, "Update failed", "Could not update the note")
			return
		}
		if r.accept(id, note.UpdatedAt) {
			r.nodes[i].merge(*note)
		}
		r.notify(KindSuccess, "Note updated", fmt.Sprintf("Note %q was updated successfully.", note.Name))
	})
	return errors.Join(apiErr, err)
}

// DragStop keeps the node at pos and saves the position. A failed save is
// reported as unsaved and the node is not moved back.
func (r *Reconciler) DragStop(ctx context.Context, id string, pos wire.Position) error {
	err := r.issue(ctx, id, func(n *Node) { n.Position = pos })
	if err != nil {
		return err
	}

	note, apiErr := r.api.UpdateNote(ctx, id, wire.UpdateNoteRequest{
		Position: &wire.PositionPatch{X: &pos.X, Y: &pos.Y},
	})

	err = r.reply(ctx, func() {
		i := r.nodeIndex(id)
		if i < 0 {
			return
		}
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to save position", "note_id", id, "error", apiErr)
			r.notify(KindUnsaved, "Position update failed", "Could not save the new position")
			return
		}
		if r.accept(id, note.UpdatedAt) {
			r.nodes[i].merge(*note)
		}
	})
	return errors.Join(apiErr, err)
}

// Connect creates an edge between two nodes in the view. The edge appears
// only once the API returns it.
func (r *Reconciler) Connect(ctx context.Context, source, target string) (Edge, error) {
	var missing string
	if err := r.exec(ctx, func() {
		for _, id := range []string{source, target} {
			if r.nodeIndex(id) < 0 {
				missing = id
				return
			}
		}
	}); err != nil {
		return Edge{}, err
	}
	if missing != "" {
		return Edge{}, fmt.Errorf("%w: %s", ErrUnknownNote, missing)
	}

	style := DefaultEdgeStyle()
	edgeType := DefaultEdgeType
	animated := false
	label := ""
	created, apiErr := r.api.CreateEdge(ctx, wire.CreateEdgeRequest{
		Source:   source,
		Target:   target,
		Style:    &style,
		Type:     &edgeType,
		Animated: &animated,
		Label:    &label,
	})

	var edge Edge
	err := r.reply(ctx, func() {
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to connect notes", "source", source, "target", target, "error", apiErr)
			desc := "Could not create connection"
			var ae *APIError
			if errors.As(apiErr, &ae) && ae.Message != "" {
				desc = ae.Message
			}
			r.notify(KindError, "Connection failed", desc)
			return
		}
		edge = edgeFromWire(*created)
		if r.nodeIndex(edge.Source) < 0 || r.nodeIndex(edge.Target) < 0 {
			r.logger.DebugContext(ctx, "dropping edge for removed note", "edge_id", edge.ID)
			return
		}
		if r.edgeIndex(edge.ID) < 0 {
			r.edges = append(r.edges, edge)
		}
		r.notify(KindSuccess, "Connection created", "Notes have been connected successfully")
	})
	return edge, errors.Join(apiErr, err)
}

// Disconnect deletes the given edges concurrently. The edges leave the view
// whatever the outcome; a notification reports any failure.
func (r *Reconciler) Disconnect(ctx context.Context, ids ...string) error {
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := r.api.DeleteEdge(ctx, id); err != nil {
				return fmt.Errorf("delete edge %s: %w", id, err)
			}
			return nil
		})
	}
	apiErr := g.Wait()

	err := r.reply(ctx, func() {
		r.edges = slices.DeleteFunc(r.edges, func(e Edge) bool {
			return slices.Contains(ids, e.ID)
		})
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to delete connections", "error", apiErr)
			r.notify(KindError, "Delete failed", "Could not delete connection")
			return
		}
		r.notify(KindSuccess, "Connection deleted", "Connection has been removed")
	})
	return errors.Join(apiErr, err)
}

// DeleteNote deletes a note. On success the node and every edge touching it
// leave the view together.
func (r *Reconciler) DeleteNote(ctx context.Context, id string) error {
	apiErr := r.api.DeleteNote(ctx, id)

	err := r.reply(ctx, func() {
		if apiErr != nil {
			r.logger.WarnContext(ctx, "failed to delete note", "note_id", id, "error", apiErr)
			r.notify(KindError, "Delete failed", "Could not delete the note")
			return
		}
		label := id
		if i := r.nodeIndex(id); i >= 0 {
			label = r.nodes[i].Data.Label
			r.nodes = slices.Delete(r.nodes, i, i+1)
		}
		r.edges = slices.DeleteFunc(r.edges, func(e Edge) bool {
			return e.Source == id || e.Target == id
		})
		delete(r.versions, id)
		r.notify(KindSuccess, "Note deleted", fmt.Sprintf("Note %q and its connections were deleted successfully.", label))
	})
	return errors.Join(apiErr, err)
}

// issue checks that a note is in the view before an update request,
// applying local to the node first when set.
func (r *Reconciler) issue(ctx context.Context, id string, local func(*Node)) error {
	var found bool
	err := r.exec(ctx, func() {
		i := r.nodeIndex(id)
		if i < 0 {
			return
		}
		found = true
		if local != nil {
			local(&r.nodes[i])
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownNote, id)
	}
	return nil
}

// accept reports whether a reply with the given server version is not older
// than the last one applied for the note, and records it.
func (r *Reconciler) accept(id string, updated time.Time) bool {
	if last, ok := r.versions[id]; ok && updated.Before(last) {
		r.logger.Debug("skipping older reply", "note_id", id, "updated_at", updated, "applied", last)
		return false
	}
	r.versions[id] = updated
	return true
}

func (r *Reconciler) notify(kind Kind, title, description string) {
	r.notifier.Notify(Notification{Kind: kind, Title: title, Description: description})
}

func (r *Reconciler) nodeIndex(id string) int {
	return slices.IndexFunc(r.nodes, func(n Node) bool { return n.ID == id })
}

func (r *Reconciler) edgeIndex(id string) int {
	return slices.IndexFunc(r.edges, func(e Edge) bool { return e.ID == id })
}
