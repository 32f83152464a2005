package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// KV is a key/value snapshot store for JSON documents. Load returns nil
// when the key has never been saved. Save replaces the whole document.
type KV interface {
	Load(ctx context.Context, key string) (json.RawMessage, error)
	Save(ctx context.Context, key string, value json.RawMessage) error
}

// sqlKV implements KV on the kv_entries table.
type sqlKV struct {
	s *Store
}

func (k *sqlKV) Load(ctx context.Context, key string) (json.RawMessage, error) {
	query, args := k.s.builder().
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("name", key)).
		Query()

	var value string
	err := k.s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (k *sqlKV) Save(ctx context.Context, key string, value json.RawMessage) error {
	query, args := k.s.builder().
		Insert(kvTable).
		Columns("name", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := k.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-process KV, used in tests and when no database is
// configured.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]json.RawMessage)}
}

func (m *MemoryKV) Load(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), v...), nil
}

func (m *MemoryKV) Save(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append(json.RawMessage(nil), value...)
	return nil
}
