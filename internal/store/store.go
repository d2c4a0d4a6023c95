// Package store holds the normalized events of the active dataset as an
// immutable snapshot that is replaced wholesale on every rescan.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pable/go-bb-metrics/internal/ingest"
	"github.com/pable/go-bb-metrics/internal/model"
)

// Store publishes the current Snapshot. Readers call Snapshot and keep the
// returned value for the whole query; Rebuild swaps in a new one only after
// it is complete.
type Store struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes rebuilds
	opts    []ingest.Option
	logger  *zap.Logger
}

// New returns a Store holding an empty snapshot. opts are passed to
// ingest.Load on every rebuild.
func New(logger *zap.Logger, opts ...ingest.Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append(append([]ingest.Option(nil), opts...), ingest.WithLogger(logger))
	s := &Store{opts: opts, logger: logger}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the current snapshot. It never blocks.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Rebuild loads paths into a fresh snapshot and publishes it. On error the
// previous snapshot stays current.
func (s *Store) Rebuild(ctx context.Context, paths []string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	events, reports, err := ingest.Load(ctx, paths, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}
	snap := NewSnapshot(events, reports)
	s.current.Store(snap)

	s.logger.Info("event store rebuilt",
		zap.String("scan_id", snap.ID()),
		zap.Int("files", len(paths)),
		zap.Int("skipped", snap.Skipped()),
		zap.Int("events", snap.Len()),
		zap.Duration("took", time.Since(start)))
	return snap, nil
}

// Snapshot is an immutable view over one ingestion run.
type Snapshot struct {
	id      string
	events  []model.Event
	reports []ingest.SourceReport
	builtAt time.Time
}

// NewSnapshot wraps events. The slices are owned by the snapshot afterwards.
func NewSnapshot(events []model.Event, reports []ingest.SourceReport) *Snapshot {
	return &Snapshot{id: uuid.NewString(), events: events, reports: reports, builtAt: time.Now()}
}

// ID identifies the scan that produced the snapshot; empty for the initial one.
func (s *Snapshot) ID() string { return s.id }

// Len is the number of events.
func (s *Snapshot) Len() int { return len(s.events) }

// Empty reports whether nothing was ingested.
func (s *Snapshot) Empty() bool { return len(s.events) == 0 }

// BuiltAt is when the snapshot was assembled; zero for the initial one.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Reports returns a copy of the per-file ingestion reports.
func (s *Snapshot) Reports() []ingest.SourceReport {
	return append([]ingest.SourceReport(nil), s.reports...)
}

// Skipped counts files that could not be read.
func (s *Snapshot) Skipped() int {
	n := 0
	for _, r := range s.reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Events returns a copy of every event in ingestion order.
func (s *Snapshot) Events() []model.Event {
	return append([]model.Event(nil), s.events...)
}

// Filter returns the events matching every filter, in ingestion order.
func (s *Snapshot) Filter(filters ...Filter) []model.Event {
	return Apply(s.events, filters...)
}

// Dates returns the distinct dates of matching events in ascending order.
// Events without a date are left out.
func (s *Snapshot) Dates(filters ...Filter) []model.Date {
	return DistinctDates(s.Filter(filters...))
}

// Subjects returns the distinct subjects of kind, sorted by name.
func (s *Snapshot) Subjects(kind model.Kind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range s.events {
		if e.Kind != kind {
			continue
		}
		if _, ok := seen[e.Subject]; ok {
			continue
		}
		seen[e.Subject] = struct{}{}
		out = append(out, e.Subject)
	}
	sort.Strings(out)
	return out
}

// DistinctDates returns the distinct non-zero dates of events, ascending.
func DistinctDates(events []model.Event) []model.Date {
	seen := make(map[model.Date]struct{})
	var out []model.Date
	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		out = append(out, e.Date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
