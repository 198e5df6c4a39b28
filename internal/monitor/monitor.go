// Package monitor reports session statistics. Store changes are queued by
// a dispatcher handler and drained on a ticker; each sweep writes the
// per-category counts and the operation tally to InfluxDB.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pyroplan/siteplan/internal/dispatcher"
	"github.com/pyroplan/siteplan/internal/influx"
	"github.com/pyroplan/siteplan/internal/queue"
	"github.com/pyroplan/siteplan/internal/store"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Store     *store.Store
	Influx    *influx.Manager
	Logger    *slog.Logger
	SessionID string
	Interval  time.Duration
}

// Service drains queued store changes and ships statistics.
type Service struct {
	deps      Dependencies
	changes   *queue.Queue[store.Change]
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 30 * time.Second
	}
	return &Service{
		deps:     deps,
		changes:  queue.New[store.Change](),
		stopChan: make(chan struct{}),
	}
}

// RegisterHandlers subscribes the monitor to every store change kind. The
// handlers only enqueue, so they never slow a store mutation down.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	kinds := []store.ChangeKind{
		store.ChangeAdded,
		store.ChangeUpdated,
		store.ChangeRemoved,
		store.ChangeCleared,
		store.ChangeRenumbered,
		store.ChangeSettings,
		store.ChangeCamera,
	}
	for _, kind := range kinds {
		d.Register(kind, func(e dispatcher.Event) error {
			s.changes.Push(e.Change)
			return nil
		})
	}
}

// IsRunning returns whether the statistics monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// PendingChanges returns the number of queued, unshipped changes.
func (s *Service) PendingChanges() int {
	return s.changes.Len()
}

// Start starts the statistics goroutine
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go s.run()
}

// Stop stops the statistics goroutine after a final sweep.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	s.mu.Unlock()
}

func (s *Service) run() {
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.sweep()
			return
		}
	}
}

// sweep drains queued changes and writes one stats point plus one activity
// point per change.
func (s *Service) sweep() {
	now := time.Now()
	ctx := context.Background()

	drained := s.changes.GetAndEmpty()
	for _, c := range drained {
		point := influx.ActivityPoint(s.deps.SessionID, c, now)
		if err := s.deps.Influx.WritePoint(ctx, influx.BucketPlanActivity, point); err != nil {
			s.deps.Logger.Error("failed to write activity point", "error", err)
		}
	}

	counts := s.deps.Store.Counts()
	point := influx.SessionStatsPoint(s.deps.SessionID, counts, now)
	if err := s.deps.Influx.WritePoint(ctx, influx.BucketSessionStats, point); err != nil {
		s.deps.Logger.Error("failed to write session stats", "error", err)
	}

	s.deps.Logger.Debug("statistics sweep complete",
		"changes", len(drained), "total", counts.Total)
}
