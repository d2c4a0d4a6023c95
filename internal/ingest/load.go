package ingest

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-bb-metrics/internal/model"
)

// SourceReport describes the outcome of ingesting one file. A non-nil Err
// means the file was skipped as a whole.
type SourceReport struct {
	Path   string
	Format Format
	Kind   model.Kind
	Stats  Stats
	Err    error
}

type loader struct {
	workers int
	kind    model.Kind
	logger  *zap.Logger
}

// Option configures Load.
type Option func(*loader)

// WithWorkers bounds how many files are parsed at once.
func WithWorkers(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithKind forces every file to be read as kind instead of detecting it.
func WithKind(kind model.Kind) Option {
	return func(l *loader) {
		l.kind = kind
	}
}

// WithLogger sets the logger used for skipped files and rejected rows.
func WithLogger(logger *zap.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load reads and normalizes every path. Files that cannot be read are
// skipped and reported; they never fail the load. Events come back in path
// order, rows in file order. The only error is ctx's.
func Load(ctx context.Context, paths []string, opts ...Option) ([]model.Event, []SourceReport, error) {
	l := &loader{workers: runtime.NumCPU(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}

	perFile := make([][]model.Event, len(paths))
	reports := make([]SourceReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i], reports[i] = l.loadOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var total int
	for _, evs := range perFile {
		total += len(evs)
	}
	events := make([]model.Event, 0, total)
	for _, evs := range perFile {
		events = append(events, evs...)
	}
	return events, reports, nil
}

func (l *loader) loadOne(path string) ([]model.Event, SourceReport) {
	rep := SourceReport{Path: path, Format: FormatOf(path)}
	t, err := ReadFile(path)
	if err != nil {
		rep.Err = err
		l.logger.Warn("skipping source", zap.String("path", path), zap.Error(err))
		return nil, rep
	}

	rep.Kind = l.kind
	if rep.Kind == model.KindUnknown {
		rep.Kind = DetectKind(t.Header)
	}
	events, stats := Normalize(t, rep.Kind)
	rep.Stats = stats
	if stats.Rejected > 0 {
		l.logger.Debug("rows rejected",
			zap.String("path", path),
			zap.Int("rejected", stats.Rejected),
			zap.Int("rows", stats.Rows))
	}
	l.logger.Debug("source loaded",
		zap.String("path", path),
		zap.Stringer("kind", rep.Kind),
		zap.Int("events", len(events)))
	return events, rep
}
