package indexer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"

	"notegraph/internal/contextutil"
	"notegraph/internal/search"
	"notegraph/internal/storage"
)

// Options configures a Synchronizer. Zero values take the defaults below.
type Options struct {
	// Workers is the number of index workers. Operations for one note
	// always run on the same worker, in the order they were enqueued.
	Workers int
	// QueueSize is the buffer of each worker queue. When full, new
	// operations are dropped rather than blocking the caller.
	QueueSize int
	// Timeout bounds a single index attempt.
	Timeout time.Duration
	// MaxAttempts is the number of tries per operation.
	MaxAttempts int
	// RetryBackoff is the pause between attempts.
	RetryBackoff time.Duration
	// BreakerThreshold is the number of consecutive failed attempts that
	// opens the circuit breaker.
	BreakerThreshold uint32
	// BreakerCooldown is how long the breaker stays open.
	BreakerCooldown time.Duration
	// Registerer receives the synchronizer metrics. Nil disables registration.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 2
	}
	if o.RetryBackoff < 0 {
		o.RetryBackoff = 0
	}
	if o.BreakerThreshold == 0 {
		o.BreakerThreshold = 5
	}
	if o.BreakerCooldown <= 0 {
		o.BreakerCooldown = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type task struct {
	op      string
	id      string
	doc     search.Document
	version time.Time
}

// written is the last state a worker wrote for a note. Note IDs are never
// reused, so a removal is final.
type written struct {
	version time.Time
	removed bool
}

// stale reports whether t would overwrite a newer document or revive a
// removed one.
func (w written) stale(t task) bool {
	if t.op != opUpsert {
		return false
	}
	return w.removed || t.version.Before(w.version)
}

// NoteLister lists every note in the primary store.
type NoteLister interface {
	List(ctx context.Context) ([]storage.Note, error)
}

// Synchronizer mirrors notes into the search index in the background.
// Index failures are logged and counted, never returned to callers.
type Synchronizer struct {
	index   search.Index
	opts    Options
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker
	metrics *metrics
	stats   counters

	shards []chan task

	mu      sync.RWMutex
	started bool
	closed  bool
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSynchronizer creates a synchronizer for index. Call Start to run workers.
func NewSynchronizer(index search.Index, opts Options) *Synchronizer {
	opts = opts.withDefaults()

	s := &Synchronizer{
		index:  index,
		opts:   opts,
		logger: opts.Logger,
		shards: make([]chan task, opts.Workers),
	}
	for i := range s.shards {
		s.shards[i] = make(chan task, opts.QueueSize)
	}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-index",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("search index circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	s.metrics = newMetrics(opts.Registerer, func() float64 {
		return float64(s.queued())
	})

	return s
}

// Bootstrap makes sure the search collection exists, creating it from the
// fixed schema when absent.
func (s *Synchronizer) Bootstrap(ctx context.Context) error {
	if err := s.index.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure search collection: %w", err)
	}
	return nil
}

// Start launches the workers. They run until Stop is called or ctx is done.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.runCtx, s.cancel = context.WithCancel(ctx)

	s.logger.Debug("starting search synchronizer", "workers", len(s.shards), "queue_size", s.opts.QueueSize)
	for i, ch := range s.shards {
		s.wg.Add(1)
		go s.worker(s.runCtx, i, ch)
	}
}

// Stop stops accepting operations and waits for queued ones to finish.
// If ctx expires first, in-flight attempts are cancelled and ctx.Err is returned.
func (s *Synchronizer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, ch := range s.shards {
		close(ch)
	}
	cancel := s.cancel
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		<-done
		return ctx.Err()
	}
}

// Upsert schedules the search document for note to be written.
// It never blocks; ctx is only used for logging.
func (s *Synchronizer) Upsert(ctx context.Context, note storage.Note) {
	s.enqueue(ctx, upsertTask(note))
}

// Remove schedules the search document for noteID to be deleted.
// It never blocks; ctx is only used for logging.
func (s *Synchronizer) Remove(ctx context.Context, noteID string) {
	s.enqueue(ctx, task{op: opRemove, id: noteID})
}

// Rebuild replays every note through the synchronizer. Unlike Upsert it
// waits for queue space, so a full rebuild is not dropped. Returns the
// number of notes scheduled.
func (s *Synchronizer) Rebuild(ctx context.Context, notes NoteLister) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	all, err := notes.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list notes: %w", err)
	}

	logger.InfoContext(ctx, "rebuilding search index", "total_notes", len(all))

	scheduled := 0
	for _, note := range all {
		if err := s.enqueueWait(ctx, upsertTask(note)); err != nil {
			logger.WarnContext(ctx, "search index rebuild interrupted", "scheduled", scheduled, "error", err)
			return scheduled, err
		}
		scheduled++
	}

	logger.InfoContext(ctx, "search index rebuild scheduled", "scheduled", scheduled)
	return scheduled, nil
}

// Stats returns a snapshot of synchronizer counters.
func (s *Synchronizer) Stats() SyncStats {
	return SyncStats{
		Enqueued: s.stats.enqueued.Load(),
		Upserted: s.stats.upserted.Load(),
		Removed:  s.stats.removed.Load(),
		Failed:   s.stats.failed.Load(),
		Dropped:  s.stats.dropped.Load(),
		Skipped:  s.stats.skipped.Load(),
		Queued:   s.queued(),
		Breaker:  s.breaker.State().String(),
	}
}

// Ping reports whether the search index is reachable.
func (s *Synchronizer) Ping(ctx context.Context) error {
	return s.index.Ping(ctx)
}

func (s *Synchronizer) queued() int {
	n := 0
	for _, ch := range s.shards {
		n += len(ch)
	}
	return n
}

func (s *Synchronizer) shardFor(id string) chan task {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (s *Synchronizer) enqueue(ctx context.Context, t task) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logger := contextutil.LoggerFromContext(ctx)
	if s.closed {
		s.drop(ctx, logger, t, "synchronizer stopped")
		return
	}

	select {
	case s.shardFor(t.id) <- t:
		s.stats.enqueued.Add(1)
	default:
		s.drop(ctx, logger, t, "queue full")
	}
}

func (s *Synchronizer) enqueueWait(ctx context.Context, t task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errors.New("synchronizer stopped")
	}

	select {
	case s.shardFor(t.id) <- t:
		s.stats.enqueued.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Synchronizer) drop(ctx context.Context, logger *slog.Logger, t task, reason string) {
	s.stats.dropped.Add(1)
	s.metrics.operations.WithLabelValues(t.op, resultDropped).Inc()
	logger.WarnContext(ctx, "search index operation dropped", "op", t.op, "note_id", t.id, "reason", reason)
}

func (s *Synchronizer) worker(ctx context.Context, workerID int, tasks <-chan task) {
	defer s.wg.Done()
	logger := s.logger.With("worker_id", workerID)

	// Per-note write state. A note always hashes to this worker.
	last := make(map[string]written)
	for t := range tasks {
		taskLogger := logger.With("op", t.op, "note_id", t.id)
		if w, ok := last[t.id]; ok && w.stale(t) {
			s.stats.skipped.Add(1)
			s.metrics.operations.WithLabelValues(t.op, resultSkipped).Inc()
			taskLogger.Debug("skipping outdated search document", "version", t.version, "written", w.version, "removed", w.removed)
			continue
		}

		ok := s.process(ctx, taskLogger, t)
		switch {
		case t.op == opRemove:
			last[t.id] = written{removed: true}
		case ok:
			last[t.id] = written{version: t.version}
		}
	}
	logger.Debug("search synchronizer worker stopped")
}

// process runs t with a bounded number of timed attempts and reports
// whether it was applied.
func (s *Synchronizer) process(ctx context.Context, logger *slog.Logger, t task) bool {
	var err error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			s.metrics.operations.WithLabelValues(t.op, resultRetried).Inc()
			if !sleepCtx(ctx, s.opts.RetryBackoff) {
				break
			}
		}

		err = s.attempt(ctx, t)
		if err == nil {
			s.succeeded(t)
			logger.Debug("search index operation applied", "attempt", attempt)
			return true
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		logger.Warn("search index attempt failed", "attempt", attempt, "max_attempts", s.opts.MaxAttempts, "error", err)
	}

	s.stats.failed.Add(1)
	s.metrics.operations.WithLabelValues(t.op, resultFailed).Inc()
	logger.Error("search index operation abandoned", "error", err)
	return false
}

func (s *Synchronizer) attempt(ctx context.Context, t task) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		s.metrics.duration.WithLabelValues(t.op).Observe(time.Since(start).Seconds())
	}()

	_, err := s.breaker.Execute(func() (interface{}, error) {
		switch t.op {
		case opUpsert:
			return nil, s.index.Upsert(attemptCtx, t.doc)
		case opRemove:
			return nil, s.index.Delete(attemptCtx, t.id)
		}
		return nil, fmt.Errorf("unknown search index operation %q", t.op)
	})
	return err
}

func upsertTask(note storage.Note) task {
	return task{op: opUpsert, id: note.ID, doc: DocumentFromNote(note), version: note.UpdatedAt}
}

func (s *Synchronizer) succeeded(t task) {
	switch t.op {
	case opUpsert:
		s.stats.upserted.Add(1)
	case opRemove:
		s.stats.removed.Add(1)
	}
	s.metrics.operations.WithLabelValues(t.op, resultOK).Inc()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
