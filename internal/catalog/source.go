package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/observability"
)

// ErrNotStarted is returned by Wait before Start has been called.
var ErrNotStarted = errors.New("catalog source not started")

// State is the lifecycle state of a Snapshot.
type State string

// Snapshot states.
const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Snapshot is a point-in-time view of the product list. Only ready
// snapshots carry products; only failed snapshots carry a message.
type Snapshot struct {
	State     State            `json:"state"`
	Products  []models.Product `json:"products"`
	Message   string           `json:"message,omitempty"`
	FetchedAt time.Time        `json:"fetched_at,omitzero"`
}

// Pending reports whether the fetch has not settled yet.
func (s Snapshot) Pending() bool { return s.State == StatePending }

// Ready reports whether products are available.
func (s Snapshot) Ready() bool { return s.State == StateReady }

// Failed reports whether the last fetch failed.
func (s Snapshot) Failed() bool { return s.State == StateFailed }

// Source performs the one catalog fetch of the process in the background and
// hands out snapshots of its result. The fetch goroutine is the only writer.
type Source struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu      sync.RWMutex
	snap    Snapshot
	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	wg      sync.WaitGroup
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLogger sets the source logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records fetch outcomes in m.
func WithMetrics(m *observability.Metrics) SourceOption {
	return func(s *Source) {
		s.metrics = m
	}
}

// NewSource creates a pending Source. No fetch happens until Start.
func NewSource(fetcher Fetcher, opts ...SourceOption) *Source {
	s := &Source{
		fetcher: fetcher,
		logger:  slog.Default(),
		now:     time.Now,
		snap:    Snapshot{State: StatePending},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start issues the fetch in the background. Only the first call has any
// effect. Cancelling ctx or calling Close aborts an in-flight fetch.
func (s *Source) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseCtx != nil {
		return
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.launchLocked()
}

// Retry re-issues the fetch after a failure, resetting the snapshot to
// pending. It does nothing and returns false unless the source has failed.
func (s *Source) Retry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.State != StateFailed || s.baseCtx == nil {
		return false
	}
	s.snap = Snapshot{State: StatePending}
	s.launchLocked()
	return true
}

func (s *Source) launchLocked() {
	ctx := s.baseCtx
	done := make(chan struct{})
	s.done = done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.run(ctx)
	}()
}

func (s *Source) run(ctx context.Context) {
	start := s.now()

	var err error
	finish := observability.TimedOperationWithError(ctx, s.logger, "catalog_fetch", &err)
	products, err := s.fetcher.Fetch(ctx)
	finish()

	s.metrics.ObserveCatalogFetch(s.now().Sub(start), len(products), err)

	next := Snapshot{State: StateReady, Products: products, FetchedAt: s.now()}
	if err != nil {
		s.logger.WarnContext(ctx, "product fetch failed", slog.String("error", err.Error()))
		next = Snapshot{State: StateFailed, Message: MessageFor(err), FetchedAt: s.now()}
	} else {
		s.logger.InfoContext(ctx, "products loaded", slog.Int("count", len(products)))
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
}

// Snapshot returns the current state. The product slice is a copy.
func (s *Source) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.Products = slices.Clone(s.snap.Products)
	return snap
}

// Wait blocks until the current fetch settles or ctx is done.
func (s *Source) Wait(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	if done == nil {
		return s.Snapshot(), ErrNotStarted
	}

	select {
	case <-done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Close cancels any in-flight fetch and waits for its goroutine to exit.
func (s *Source) Close() {
	s.mu.RLock()
	cancel := s.cancel
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
