package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{kvTable, eventsTable} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Save(ctx, "k", json.RawMessage(`[1,2,3]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.KV().Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Errorf("value = %s, want [1,2,3]", got)
	}
}

func testKV(t *testing.T, kv KV) {
	ctx := context.Background()

	got, err := kv.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if got != nil {
		t.Fatalf("load missing = %s, want nil", got)
	}

	if err := kv.Save(ctx, "aice_teams", json.RawMessage(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = kv.Load(ctx, "aice_teams")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("load = %s", got)
	}

	// Save replaces the previous document.
	if err := kv.Save(ctx, "aice_teams", json.RawMessage(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = kv.Load(ctx, "aice_teams")
	if string(got) != `[]` {
		t.Errorf("after overwrite = %s, want []", got)
	}

	// Keys are independent.
	if err := kv.Save(ctx, "other", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("save other: %v", err)
	}
	got, _ = kv.Load(ctx, "aice_teams")
	if string(got) != `[]` {
		t.Errorf("aice_teams changed to %s", got)
	}
}

func TestSQLKV(t *testing.T) {
	testKV(t, openTestStore(t).KV())
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	v := json.RawMessage(`"abc"`)
	if err := kv.Save(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[1] = 'x'

	got, _ := kv.Load(ctx, "k")
	if string(got) != `"abc"` {
		t.Errorf("stored value mutated: %s", got)
	}
}

func TestMemoryKV_Concurrent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kv.Save(ctx, "k", json.RawMessage(`1`))
			_, _ = kv.Load(ctx, "k")
		}()
	}
	wg.Wait()
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "assessment-questions", InputTokens: 100, OutputTokens: 50, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "learning-outcome", InputTokens: 80, OutputTokens: 30, LatencyMs: 700, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "assessment-questions", InputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Model != "gpt-4o" || all[2].ResponseBody != "resp" {
		t.Errorf("events not newest first: %+v", all)
	}
	if all[0].Success || all[0].ErrorMessage != "rate limited" {
		t.Errorf("failure not recorded: %+v", all[0])
	}
	if time.Since(all[0].Timestamp) > time.Minute {
		t.Errorf("timestamp = %v, want recent", all[0].Timestamp)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "assessment-questions"})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Model != "gpt-4o" {
		t.Errorf("limited = %+v", limited)
	}

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "learning-outcome"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(byPurpose) != 1 {
		t.Errorf("purpose filter returned %d events", len(byPurpose))
	}
}

func TestEventRepo_Get(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "learning-outcome",
		Success: true, RequestBody: strings.Repeat("x", 10000),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	e, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.Model != "gemini-2.5-flash" || len(e.RequestBody) != 10000 {
		t.Errorf("get = %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "m1", Purpose: "a", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Model: "m1", Purpose: "a", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Model: "m2", Purpose: "b", InputTokens: 7, OutputTokens: 1, LatencyMs: 50, Success: true},
		{Model: "m2", Purpose: "b", InputTokens: 1000, OutputTokens: 1000, Success: false},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	purposes, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(purposes) != 2 {
		t.Fatalf("purposes = %+v", purposes)
	}
	a := purposes[0]
	if a.Purpose != "a" || a.Calls != 2 || a.InputTokens != 30 || a.OutputTokens != 10 || a.AvgLatencyMs != 200 {
		t.Errorf("purpose a = %+v", a)
	}
	if purposes[1].Calls != 2 {
		t.Errorf("purpose b calls = %d, want 2", purposes[1].Calls)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("models = %+v", models)
	}
	// Failed calls are excluded from cost accounting.
	if models[1].Model != "m2" || models[1].Calls != 1 || models[1].InputTokens != 7 {
		t.Errorf("model m2 = %+v", models[1])
	}
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
	}{
		{"/tmp/aicred.db", "sqlite", "/tmp/aicred.db"},
		{"file::memory:?cache=shared", "sqlite", "file::memory:?cache=shared"},
		{"postgres://u:p@localhost:5432/aicred?sslmode=disable", "postgres", "postgres://u:p@localhost:5432/aicred?sslmode=disable"},
		{"postgresql://localhost/aicred", "postgres", "postgresql://localhost/aicred"},
		{"mysql://u:p@db:3306/aicred", "mysql", "u:p@tcp(db:3306)/aicred?"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, _, source, err := parseDSN(tt.dsn)
			if err != nil {
				t.Fatalf("parseDSN: %v", err)
			}
			if driver != tt.wantDriver {
				t.Errorf("driver = %q, want %q", driver, tt.wantDriver)
			}
			if !strings.HasPrefix(source, tt.wantSource) {
				t.Errorf("source = %q, want prefix %q", source, tt.wantSource)
			}
			if driver == "mysql" && !strings.Contains(source, "parseTime=true") {
				t.Errorf("mysql source %q lacks parseTime", source)
			}
		})
	}
}

func TestIsNetworkDSN(t *testing.T) {
	if IsNetworkDSN("/tmp/x.db") {
		t.Error("sqlite path reported as network DSN")
	}
	if !IsNetworkDSN("postgres://localhost/x") || !IsNetworkDSN("mysql://localhost/x") {
		t.Error("server DSN not reported as network DSN")
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("AICRED_DB", filepath.Join(dir, "nested", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "nested", "custom.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("AICRED_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "aicred", "aicred.db") {
		t.Errorf("path = %q", p)
	}
}
