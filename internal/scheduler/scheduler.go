// Package scheduler runs one table comparison per file pair concurrently and
// aggregates the outcomes into a results.Set.
//
// Each pair is handled by its own goroutine which loads private copies of
// both tables, so values never depend on how many pairs run at once. Failures
// are recorded against their case and never stop sibling pairs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lehigh-university-libraries/h5diff/internal/match"
	"github.com/lehigh-university-libraries/h5diff/internal/metric"
	"github.com/lehigh-university-libraries/h5diff/internal/results"
	"github.com/lehigh-university-libraries/h5diff/internal/tables"
	"golang.org/x/sync/errgroup"
)

// Discipline selects how outcomes are collected.
type Discipline string

const (
	// Completion drains a shared channel in completion order. This is the
	// default.
	Completion Discipline = "completion"
	// DispatchOrder fires batches of workers and waits on each worker in the
	// order it was started. A slow early pair holds back the collection of
	// the whole batch.
	DispatchOrder Discipline = "dispatch"
)

// ParseDiscipline accepts "completion" and "dispatch".
func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(s) {
	case "", Completion:
		return Completion, nil
	case DispatchOrder, "ordered":
		return DispatchOrder, nil
	default:
		return "", fmt.Errorf("unknown discipline %q (supported: completion, dispatch)", s)
	}
}

// Scheduler compares file pairs.
type Scheduler struct {
	loader      tables.Loader
	metric      metric.Options
	concurrency int
	discipline  Discipline
	detail      bool
	logger      *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConcurrency bounds the number of pairs in flight. Zero or less means
// one goroutine per pair with no bound.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		s.concurrency = n
	}
}

// WithDiscipline selects the collection discipline.
func WithDiscipline(d Discipline) Option {
	return func(s *Scheduler) {
		s.discipline = d
	}
}

// WithMetric sets the norm and epsilon.
func WithMetric(opts metric.Options) Option {
	return func(s *Scheduler) {
		s.metric = opts
	}
}

// WithDetail turns on per-column errors.
func WithDetail(on bool) Option {
	return func(s *Scheduler) {
		s.detail = on
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a scheduler reading tables through loader.
func New(loader tables.Loader, opts ...Option) *Scheduler {
	s := &Scheduler{
		loader:     loader,
		metric:     metric.DefaultOptions(),
		discipline: Completion,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// outcome is what a worker reports for one pair.
type outcome struct {
	name     string
	value    float64
	columns  []metric.ColumnError
	failure  *results.Failure
	canceled bool
}

// Run compares every pair and returns once each dispatched pair has reported.
//
// If ctx is cancelled no further pairs are dispatched, outcomes still in
// flight are discarded, and the set of pairs completed so far is returned
// together with the context error.
func (s *Scheduler) Run(ctx context.Context, pairs map[string]match.Pair, tableID string) (*results.Set, error) {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	s.logger.Info("Comparing pairs",
		"pairs", len(names),
		"table", tableID,
		"concurrency", s.concurrency,
		"discipline", s.discipline)

	set := results.NewSet()
	if len(names) == 0 {
		return set, nil
	}

	var err error
	switch s.discipline {
	case DispatchOrder:
		err = s.runDispatchOrder(ctx, names, pairs, tableID, set)
	default:
		err = s.runCompletion(ctx, names, pairs, tableID, set)
	}

	s.logger.Info("Comparison finished",
		"values", len(set.Values),
		"failures", len(set.Failures),
		"skipped", len(names)-set.Len())

	return set, err
}

// runCompletion starts every pair (bounded by the concurrency limit) and
// collects outcomes from one channel as they finish.
func (s *Scheduler) runCompletion(ctx context.Context, names []string, pairs map[string]match.Pair, tableID string, set *results.Set) error {
	// Buffered so workers never block on a collector that has given up.
	done := make(chan outcome, len(names))

	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	dispatched := make(chan int, 1)
	go func() {
		n := 0
		for _, name := range names {
			if ctx.Err() != nil {
				break
			}
			pair := pairs[name]
			g.Go(func() error {
				done <- s.compare(ctx, name, pair, tableID)
				return nil
			})
			n++
		}
		dispatched <- n
		_ = g.Wait()
	}()

	expected := -1
	received := 0
	for expected < 0 || received < expected {
		select {
		case <-ctx.Done():
			s.logger.Warn("Comparison interrupted", "completed", set.Len(), "pairs", len(names))
			return ctx.Err()
		case n := <-dispatched:
			expected = n
		case o := <-done:
			received++
			s.collect(set, o)
		}
	}

	return ctx.Err()
}

// runDispatchOrder starts up to concurrency pairs at a time and waits on each
// in dispatch order before starting the next batch.
func (s *Scheduler) runDispatchOrder(ctx context.Context, names []string, pairs map[string]match.Pair, tableID string, set *results.Set) error {
	batch := s.concurrency
	if batch <= 0 {
		batch = len(names)
	}

	for start := 0; start < len(names); start += batch {
		if ctx.Err() != nil {
			break
		}
		end := min(start+batch, len(names))

		slots := make([]chan outcome, 0, end-start)
		for _, name := range names[start:end] {
			slot := make(chan outcome, 1)
			slots = append(slots, slot)
			pair := pairs[name]
			go func() {
				slot <- s.compare(ctx, name, pair, tableID)
			}()
		}

		for _, slot := range slots {
			select {
			case <-ctx.Done():
				s.logger.Warn("Comparison interrupted", "completed", set.Len(), "pairs", len(names))
				return ctx.Err()
			case o := <-slot:
				s.collect(set, o)
			}
		}
	}

	return ctx.Err()
}

func (s *Scheduler) collect(set *results.Set, o outcome) {
	if o.canceled {
		return
	}

	var err error
	if o.failure != nil {
		s.logger.Warn("Pair failed", "case", o.name, "kind", o.failure.Kind, "err", o.failure.Message)
		err = set.AddFailure(o.name, *o.failure)
	} else {
		s.logger.Debug("Pair compared", "case", o.name, "value", o.value)
		err = set.AddValue(o.name, o.value, o.columns)
	}
	if err != nil {
		s.logger.Error("Dropping outcome", "case", o.name, "err", err)
	}
}

// compare loads both tables and computes the rounded relative error. A panic
// in a loader or in the metric becomes a failure of this pair only.
func (s *Scheduler) compare(ctx context.Context, name string, pair match.Pair, tableID string) (o outcome) {
	o.name = name

	defer func() {
		if r := recover(); r != nil {
			o = outcome{name: name, failure: &results.Failure{Kind: results.FailureMetric, Message: fmt.Sprintf("panic: %v", r)}}
		}
	}()

	if ctx.Err() != nil {
		o.canceled = true
		return o
	}

	oldTable, err := s.loader.Load(pair.Old, tableID)
	if err != nil {
		return failed(name, results.FailureLoad, err)
	}
	newTable, err := s.loader.Load(pair.New, tableID)
	if err != nil {
		return failed(name, results.FailureLoad, err)
	}

	if ctx.Err() != nil {
		o.canceled = true
		return o
	}

	value, err := metric.RelativeError(oldTable.Data, newTable.Data, s.metric)
	if err != nil {
		return failed(name, kindOf(err), err)
	}
	o.value = metric.Round(value, metric.Precision)

	if s.detail {
		cols, err := metric.ColumnErrors(oldTable.Data, newTable.Data, s.metric, oldTable.ColumnName)
		if err != nil {
			return failed(name, kindOf(err), err)
		}
		o.columns = cols
	}

	return o
}

func failed(name, kind string, err error) outcome {
	return outcome{name: name, failure: &results.Failure{Kind: kind, Message: err.Error()}}
}

func kindOf(err error) string {
	var shapeErr *metric.ShapeMismatchError
	if errors.As(err, &shapeErr) {
		return results.FailureShape
	}
	var loadErr *tables.LoadError
	if errors.As(err, &loadErr) {
		return results.FailureLoad
	}
	return results.FailureMetric
}
