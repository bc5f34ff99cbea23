package infra

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reaper is the housekeeping the scheduler drives.
type Reaper interface {
	CleanupStaleRounds(maxAge time.Duration) int
}

// SessionPruner drops revoked sessions once their tokens have expired.
type SessionPruner interface {
	PruneRevoked(now time.Time) int
}

// LimiterPruner drops rate limit buckets that have gone idle.
type LimiterPruner interface {
	PruneIdle(now time.Time) int
}

// Scheduler manages scheduled housekeeping tasks
type Scheduler struct {
	cron     *cron.Cron
	reaper   Reaper
	sessions SessionPruner
	limiters LimiterPruner
	maxAge   time.Duration
	logger   *zap.Logger
}

func NewScheduler(reaper Reaper, sessions SessionPruner, limiters LimiterPruner, maxAge time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		reaper:   reaper,
		sessions: sessions,
		limiters: limiters,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1m", s.reapStaleRounds)
	if err != nil {
		return fmt.Errorf("failed to schedule round reaper: %w", err)
	}

	if s.sessions != nil || s.limiters != nil {
		_, err = s.cron.AddFunc("@hourly", s.pruneSessions)
		if err != nil {
			return fmt.Errorf("failed to schedule session pruning: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Duration("stale_round_age", s.maxAge))
	return nil
}

func (s *Scheduler) reapStaleRounds() {
	if n := s.reaper.CleanupStaleRounds(s.maxAge); n > 0 {
		s.logger.Warn("crashed stale rounds", zap.Int("count", n))
	}
}

func (s *Scheduler) pruneSessions() {
	now := time.Now()
	if s.sessions != nil {
		if n := s.sessions.PruneRevoked(now); n > 0 {
			s.logger.Debug("pruned revoked sessions", zap.Int("count", n))
		}
	}
	if s.limiters != nil {
		if n := s.limiters.PruneIdle(now); n > 0 {
			s.logger.Debug("pruned idle rate limiters", zap.Int("count", n))
		}
	}
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
