package records

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
)

const shareSecretSize = 32

// ShareSecret returns the key used to sign share tokens, generating and
// storing a random one on first use.
func (r *Repo) ShareSecret(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.kv.Load(ctx, KeyShareSecret)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyShareSecret, err)
	}
	if len(raw) > 0 {
		var secret []byte
		if err := json.Unmarshal(raw, &secret); err == nil && len(secret) >= shareSecretSize {
			return secret, nil
		}
		fmt.Fprintf(warnOut, "warning: regenerating unreadable %s; existing share tokens stop working\n", KeyShareSecret)
	}

	secret := make([]byte, shareSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate share secret: %w", err)
	}
	encoded, err := json.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", KeyShareSecret, err)
	}
	if err := r.kv.Save(ctx, KeyShareSecret, encoded); err != nil {
		return nil, fmt.Errorf("save %s: %w", KeyShareSecret, err)
	}
	return secret, nil
}
