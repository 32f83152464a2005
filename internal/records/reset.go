package records

import (
	"context"
	"fmt"
)

// LearnerKeys hold a learner's own data: results, the KFS baseline and the
// links sharing them.
var LearnerKeys = []string{KeyAssessments, KeyKFSSnapshot, KeyLinks}

// AllKeys adds teams and invites to LearnerKeys.
var AllKeys = append(append([]string(nil), LearnerKeys...), KeyTeams, KeyInvites)

// Reset empties the collections under keys. The share secret is never
// cleared so links issued later keep the same signer.
func (r *Repo) Reset(ctx context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		if key == KeyShareSecret {
			continue
		}
		if err := r.kv.Save(ctx, key, nil); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}
