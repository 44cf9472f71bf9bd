package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/mediasorter/internal/config"
)

type action int

const (
	actionNone action = iota
	actionRunPass
)

type Sorter interface {
	SortAll(ctx context.Context) error
}

// Scheduler triggers sort passes on a fixed poll tick while enforcing a
// minimum interval between passes. The loop itself is single-goroutine, so a
// pass in flight blocks the next tick from starting another. There is no
// timeout on a pass: a hang on filesystem I/O stalls the whole scheduler.
type Scheduler struct {
	sorter       Sorter
	pollInterval time.Duration
	minInterval  time.Duration

	lastRun time.Time
	now     func() time.Time

	log *slog.Logger
}

func New(sorter Sorter, cfg *config.SchedulerConfig, log *slog.Logger) *Scheduler {
	return &Scheduler{
		sorter:       sorter,
		pollInterval: cfg.PollInterval.Value(),
		minInterval:  cfg.MinInterval.Value(),
		now:          time.Now,
		log:          log.With(slog.String("item", "Scheduler")),
	}
}

// tick is the pure scheduling decision. The zero lastRun of a fresh
// scheduler lies far enough in the past to force an immediate first pass.
func (s *Scheduler) tick(now time.Time) action {
	if now.Sub(s.lastRun) >= s.minInterval {
		return actionRunPass
	}

	return actionNone
}

// Run evaluates the schedule once at start and then on every poll tick,
// until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.log.Info("Started",
		slog.Duration("poll_interval", s.pollInterval), slog.Duration("min_interval", s.minInterval))

	for {
		if s.tick(s.now()) == actionRunPass {
			s.runPass(ctx)
		}

		select {
		case <-ctx.Done():
			s.log.Info("Stopped")

			return
		case <-ticker.C:
		}
	}
}

// runPass awaits one full sort pass. Whatever escapes the pass, including a
// panic, is logged here and never terminates the loop.
func (s *Scheduler) runPass(ctx context.Context) {
	log := s.log.With(slog.String("pass_id", uuid.NewString()))

	defer func() {
		s.lastRun = s.now()

		if r := recover(); r != nil {
			log.Error("Sort pass panicked", slog.Any("panic", r))
		}
	}()

	log.Info("Sort pass started")

	started := s.now()
	if err := s.sorter.SortAll(ctx); err != nil {
		log.Error("Sort pass failed", slog.Any("error", err))

		return
	}

	log.Info("Sort pass complete", slog.Duration("elapsed", s.now().Sub(started)))
}
