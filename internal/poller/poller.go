// Package poller refreshes the state tree on an interval and runs the idle-table check after each
// successful table fetch.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/state"
	"comanda-dashboard-backend/internal/upstream"
)

// Alerter inspects the refreshed tables.
type Alerter interface {
	Check(tables []model.Table, areas []upstream.Area) int
}

// Service drives the periodic refresh.
type Service struct {
	cfg     config.PollerConfig
	root    *state.Root
	alerter Alerter
	logger  *zap.Logger

	mu        sync.Mutex
	onRefresh []func()
}

// NewService creates a poller. alerter may be nil.
func NewService(cfg config.PollerConfig, root *state.Root, alerter Alerter, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, root: root, alerter: alerter, logger: logger}
}

// OnRefresh registers fn to run after every refresh cycle, whatever its outcome.
func (s *Service) OnRefresh(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = append(s.onRefresh, fn)
}

func (s *Service) notify() {
	s.mu.Lock()
	hooks := append([]func(){}, s.onRefresh...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Run refreshes once immediately, then every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("poller is disabled, not starting")
		return
	}
	s.logger.Info("starting poller", zap.Duration("interval", s.cfg.Interval))

	s.RunOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("poller shutting down")
			return
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// RunOnce performs a single refresh cycle.
func (s *Service) RunOnce(ctx context.Context) {
	started := time.Now()
	s.root.Refresh(ctx)
	s.notify()

	tables := s.root.Tables.Lifecycle()
	tabs := s.root.Tabs.Lifecycle()
	s.logger.Debug("refresh cycle finished",
		zap.String("tables", string(tables.Phase)),
		zap.String("tabs", string(tabs.Phase)),
		zap.Duration("took", time.Since(started)))

	if tables.Phase != model.PhaseReady {
		s.logger.Warn("table refresh failed, skipping idle check", zap.String("error", tables.Error))
		return
	}
	if s.alerter == nil {
		return
	}
	if n := s.alerter.Check(s.root.Tables.Tables(), s.root.Tables.Areas()); n > 0 {
		s.logger.Info("idle alerts dispatched", zap.Int("tables", n))
	}
}
