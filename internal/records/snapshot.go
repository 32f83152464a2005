package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/aicred/internal/fusion"
	"github.com/abhisek/aicred/internal/store"
)

// SnapshotStore keeps the KFS day-delta snapshot under KeyKFSSnapshot.
type SnapshotStore struct {
	kv store.KV
}

var _ fusion.SnapshotStore = (*SnapshotStore)(nil)

// Snapshots returns the KFS snapshot store sharing this Repo's KV.
func (r *Repo) Snapshots() *SnapshotStore {
	return &SnapshotStore{kv: r.kv}
}

// Get returns the stored snapshot, or nil when none is stored or the stored
// value is unreadable.
func (s *SnapshotStore) Get(ctx context.Context) (*fusion.Snapshot, error) {
	raw, err := s.kv.Load(ctx, KeyKFSSnapshot)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyKFSSnapshot, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var snap fusion.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil || snap.UpdatedAt.IsZero() {
		fmt.Fprintf(warnOut, "warning: discarding unreadable %s\n", KeyKFSSnapshot)
		return nil, nil
	}
	return &snap, nil
}

// Set overwrites the stored snapshot.
func (s *SnapshotStore) Set(ctx context.Context, snap fusion.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyKFSSnapshot, err)
	}
	if err := s.kv.Save(ctx, KeyKFSSnapshot, raw); err != nil {
		return fmt.Errorf("save %s: %w", KeyKFSSnapshot, err)
	}
	return nil
}
