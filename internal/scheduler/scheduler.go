// Package scheduler owns the collection session lifecycle: it starts and
// stops sessions, fires recurring cycles, autosaves snapshots, and enforces
// the maximum session duration.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// ErrAlreadyRunning is returned by Start while a session is active.
var ErrAlreadyRunning = errors.New("collection session already running")

// CycleRunner executes one collection cycle and holds the term filters.
type CycleRunner interface {
	RunCycle(ctx context.Context) (int, error)
	SetRegionFilter(tag string) error
	SetCategoryFilter(name string) error
	Filters() (region, category string)
}

// Config carries the session timing knobs.
type Config struct {
	CyclePeriod time.Duration
	MaxSession  time.Duration
	Autosave    time.Duration
	StatsWindow time.Duration
}

// Scheduler is the single owner of the session state machine. At most one
// session runs at a time; all cycle work happens on the session's run loop
// goroutine, so cycles never overlap.
type Scheduler struct {
	cfg        Config
	runner     CycleRunner
	collection *harvest.Collection
	store      harvest.EntryStore
	archive    harvest.BlobStore
	notifier   harvest.Notifier
	reports    harvest.ReportSink
	clock      harvest.Clock
	logger     *zap.Logger

	mu   sync.Mutex
	sess *session
}

type session struct {
	cancel    context.CancelFunc
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
	startedAt time.Time
}

func (s *session) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// New creates a Scheduler. The archive may be nil to disable snapshot
// archiving.
func New(
	cfg Config,
	runner CycleRunner,
	collection *harvest.Collection,
	store harvest.EntryStore,
	archive harvest.BlobStore,
	notifier harvest.Notifier,
	reports harvest.ReportSink,
	clock harvest.Clock,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		runner:     runner,
		collection: collection,
		store:      store,
		archive:    archive,
		notifier:   notifier,
		reports:    reports,
		clock:      clock,
		logger:     logger,
	}
}

// Start begins a new collection session. The first cycle runs immediately;
// further cycles fire on the configured period until Stop is called or the
// maximum session duration elapses.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		cancel:    cancel,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		startedAt: s.clock.Now(),
	}
	s.sess = sess
	go s.run(ctx, sess)
	return nil
}

// Stop ends the active session and blocks until the in-flight cycle, if any,
// has completed and the final snapshot has been persisted. Stopping an idle
// scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return
	}
	sess.requestStop()
	<-sess.done
}

// Running reports whether a session is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess != nil
}

// Stats summarizes the current collection.
func (s *Scheduler) Stats() harvest.Stats {
	return harvest.Snapshot(s.collection.Snapshot(), s.clock.Now(), s.cfg.StatsWindow)
}

// ExportReport renders the current collection through the report sink and
// returns the artifact path. An empty name gets a timestamped default. It
// works whether or not a session is running.
func (s *Scheduler) ExportReport(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = "report-" + s.clock.Now().UTC().Format("20060102T150405Z") + ".docx"
	}
	return s.reports.Export(ctx, s.collection.Snapshot(), name)
}

// SetRegionFilter narrows term generation to one region. Takes effect on the
// next cycle.
func (s *Scheduler) SetRegionFilter(tag string) error {
	return s.runner.SetRegionFilter(tag)
}

// SetCategoryFilter narrows term generation to one category. Takes effect on
// the next cycle.
func (s *Scheduler) SetCategoryFilter(name string) error {
	return s.runner.SetCategoryFilter(name)
}

// Filters returns the active term filters.
func (s *Scheduler) Filters() (region, category string) {
	return s.runner.Filters()
}

// run is the session loop. It owns the cycle ticker, the autosave ticker, and
// the max-duration timer; everything the session does happens here.
func (s *Scheduler) run(ctx context.Context, sess *session) {
	defer close(sess.done)
	defer sess.cancel()

	s.logger.Info("session started", zap.Time("started_at", sess.startedAt))
	s.notify(ctx, harvest.EventSessionStarted, map[string]any{
		"started_at": sess.startedAt,
	})

	cycles := time.NewTicker(s.cfg.CyclePeriod)
	defer cycles.Stop()

	var autosave <-chan time.Time
	if s.cfg.Autosave > 0 {
		t := time.NewTicker(s.cfg.Autosave)
		defer t.Stop()
		autosave = t.C
	}

	expiry := time.NewTimer(s.cfg.MaxSession)
	defer expiry.Stop()

	s.cycle(ctx)

	// Cycles run on this goroutine, so a stop request or expiry is observed
	// only between select iterations: an in-flight cycle always completes
	// before teardown.
	auto := false
loop:
	for {
		select {
		case <-sess.stop:
			break loop
		case <-expiry.C:
			auto = true
			break loop
		case <-cycles.C:
			s.cycle(ctx)
		case <-autosave:
			s.persist(context.Background(), true)
		}
	}

	s.teardown(context.Background(), sess, auto)
}

func (s *Scheduler) cycle(ctx context.Context) {
	appended, err := s.runner.RunCycle(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("collection cycle failed", zap.Error(err))
		}
		return
	}
	size := s.collection.Len()
	s.logger.Info("cycle completed",
		zap.Int("new_entries", appended),
		zap.Int("collection_size", size))
	s.notify(ctx, harvest.EventCycleCompleted, map[string]any{
		"new_entries":     appended,
		"collection_size": size,
	})
}

// persist writes the current collection through the entry store and, when
// configured, archives a JSON snapshot. Failures are logged and the session
// continues; the next autosave gets another chance.
func (s *Scheduler) persist(ctx context.Context, announce bool) {
	entries := s.collection.Snapshot()
	if err := s.store.Save(ctx, entries); err != nil {
		s.logger.Error("save snapshot", zap.Error(err))
		return
	}
	if s.archive != nil {
		data, err := json.Marshal(entries)
		if err != nil {
			s.logger.Error("encode snapshot archive", zap.Error(err))
		} else {
			name := s.clock.Now().UTC().Format("20060102T150405Z") + ".json"
			uri, err := s.archive.PutObject(ctx, name, "application/json", data)
			if err != nil {
				s.logger.Warn("archive snapshot", zap.Error(err))
			} else {
				s.logger.Debug("snapshot archived", zap.String("uri", uri))
			}
		}
	}
	if announce {
		s.notify(ctx, harvest.EventSnapshotSaved, map[string]any{
			"entries": len(entries),
		})
	}
}

func (s *Scheduler) teardown(ctx context.Context, sess *session, auto bool) {
	// A final retention pass so the persisted snapshot honors the size and
	// uniqueness bounds even when entries landed outside a completed cycle.
	s.collection.Reconcile()
	s.persist(ctx, false)

	kind := harvest.EventSessionStopped
	if auto {
		kind = harvest.EventSessionAutoStopped
	}
	s.notify(ctx, kind, map[string]any{
		"started_at": sess.startedAt,
		"entries":    s.collection.Len(),
	})
	s.logger.Info("session ended",
		zap.Bool("auto", auto),
		zap.Int("entries", s.collection.Len()))

	s.mu.Lock()
	if s.sess == sess {
		s.sess = nil
	}
	s.mu.Unlock()
}

func (s *Scheduler) notify(ctx context.Context, kind harvest.EventKind, payload map[string]any) {
	evt := harvest.Event{
		Kind:       kind,
		OccurredAt: s.clock.Now(),
		Payload:    payload,
	}
	if err := s.notifier.Notify(ctx, evt); err != nil {
		s.logger.Warn("publish notification",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
