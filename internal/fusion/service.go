package fusion

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/aicred/internal/proficiency"
)

// SnapshotStore persists the day-delta snapshot. Get returns nil when no
// snapshot has been stored.
type SnapshotStore interface {
	Get(ctx context.Context) (*Snapshot, error)
	Set(ctx context.Context, s Snapshot) error
}

// Service computes the KFS against a persisted snapshot.
type Service struct {
	store SnapshotStore
	now   func() time.Time
}

// NewService creates a Service. A nil clock uses time.Now.
func NewService(store SnapshotStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Compute reads the last snapshot, calculates the KFS and writes the new
// snapshot. Concurrent callers may overwrite each other's snapshot.
func (s *Service) Compute(ctx context.Context, scores []proficiency.Score) (Score, error) {
	prev, err := s.store.Get(ctx)
	if err != nil {
		return Score{}, fmt.Errorf("read kfs snapshot: %w", err)
	}

	kfs, next := Calculate(scores, prev, s.now())
	if next != nil {
		if err := s.store.Set(ctx, *next); err != nil {
			return kfs, fmt.Errorf("write kfs snapshot: %w", err)
		}
	}
	return kfs, nil
}

// Seed writes a baseline snapshot only when none exists for the current
// day, so it never replaces the value the day's views compare against.
// It reports whether a snapshot was written.
func (s *Service) Seed(ctx context.Context, scores []proficiency.Score) (Score, bool, error) {
	prev, err := s.store.Get(ctx)
	if err != nil {
		return Score{}, false, fmt.Errorf("read kfs snapshot: %w", err)
	}

	now := s.now()
	kfs, next := Calculate(scores, prev, now)
	if next == nil || (prev != nil && sameDay(prev.UpdatedAt, now)) {
		return kfs, false, nil
	}
	if err := s.store.Set(ctx, *next); err != nil {
		return kfs, false, fmt.Errorf("write kfs snapshot: %w", err)
	}
	return kfs, true, nil
}

// MemorySnapshotStore keeps the snapshot in memory.
type MemorySnapshotStore struct {
	snap *Snapshot
}

func (m *MemorySnapshotStore) Get(_ context.Context) (*Snapshot, error) {
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	return &cp, nil
}

func (m *MemorySnapshotStore) Set(_ context.Context, s Snapshot) error {
	m.snap = &s
	return nil
}
