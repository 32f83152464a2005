// Package scheduler runs a late-evening Knowledge Fusion Score recompute so
// a day without interactive use still leaves a baseline for the next day's
// delta. A day that already has a snapshot is left alone.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/aicred/internal/report"
)

// DefaultAt is the default local time of the daily run. It sits at the end
// of the day so the first dashboard view of the next day compares against
// this day's total.
const DefaultAt = "23:55"

// Seeder produces a dashboard summary, recording the KFS snapshot only when
// the day has none.
type Seeder interface {
	Seed(ctx context.Context) (*report.Summary, bool, error)
}

// Scheduler manages the daily recompute job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	seeder    Seeder
	at        string

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// New creates a scheduler that runs the recompute every day at "HH:MM" in
// loc. A nil loc means time.Local.
func New(seeder Seeder, at string, loc *time.Location) (*Scheduler, error) {
	if at == "" {
		at = DefaultAt
	}
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("invalid schedule time %q, want HH:MM", at)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		seeder:    seeder,
		at:        at,
	}, nil
}

// Start schedules the daily job and runs the scheduler in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("KFS recompute failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule KFS recompute: %w", err)
	}
	s.scheduler.StartAsync()
	log.Printf("KFS recompute scheduled daily at %s (%s)", s.at, s.scheduler.Location())
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextRun returns the time of the next scheduled run.
func (s *Scheduler) NextRun() time.Time {
	_, t := s.scheduler.NextRun()
	return t
}

// RunOnce recomputes the dashboard immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	summary, seeded, err := s.seeder.Seed(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		return err
	}
	switch {
	case !summary.Fusion.IsEligible:
		log.Printf("KFS recomputed: not yet eligible (%d assessments)", summary.Assessments)
	case seeded:
		log.Printf("KFS baseline recorded: %.2f (%s) from %d assessments",
			summary.Fusion.Total, summary.Fusion.Level, summary.Assessments)
	default:
		log.Printf("KFS recomputed: %.2f (%s), today's baseline already recorded",
			summary.Fusion.Total, summary.Fusion.Level)
	}
	return nil
}

// LastRun reports when the job last ran and its error.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
