package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/fusion"
	"github.com/abhisek/aicred/internal/llm"
	"github.com/abhisek/aicred/internal/notify"
	"github.com/abhisek/aicred/internal/records"
	"github.com/abhisek/aicred/internal/report"
	"github.com/abhisek/aicred/internal/sharing"
	"github.com/abhisek/aicred/internal/store"
	"github.com/abhisek/aicred/internal/teams"
)

// env bundles the collaborators a subcommand needs. Close releases the
// database.
type env struct {
	store *store.Store
	repo  *records.Repo
	out   io.Writer
	in    io.Reader
}

// openEnv opens the configured database.
func openEnv(cmd *cobra.Command) (*env, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{
		store: s,
		repo:  records.New(s.KV()),
		out:   cmd.OutOrStdout(),
		in:    cmd.InOrStdin(),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// newProvider builds the LLM provider and records every call in the event
// log.
var newProvider = func(ctx context.Context, e *env) (llm.Provider, error) {
	if err := appConfig.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("llm configuration: %w", err)
	}
	return llm.NewProvider(ctx, appConfig.LLM, e.store.EventRepo())
}

func (e *env) sharing(ctx context.Context) (*sharing.Service, error) {
	secret := []byte(appConfig.Share.Secret)
	if len(secret) == 0 {
		var err error
		secret, err = e.repo.ShareSecret(ctx)
		if err != nil {
			return nil, fmt.Errorf("load share secret: %w", err)
		}
	}
	return sharing.NewService(e.repo, secret, sharing.WithTTL(appConfig.Share.TTL)), nil
}

func (e *env) teams(ctx context.Context) (*teams.Service, error) {
	n, err := notify.NewEmailNotifier(ctx, appConfig.Email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: email notifications unavailable: %v\n", err)
		return teams.NewService(e.repo, nil, teams.WithTaxonomy(appConfig.Taxonomy())), nil
	}
	return teams.NewService(e.repo, n, teams.WithTaxonomy(appConfig.Taxonomy())), nil
}

// dashboard returns a builder that records the daily KFS baseline.
func (e *env) dashboard() *report.Builder {
	fs := fusion.NewService(e.repo.Snapshots(), time.Now)
	return report.NewBuilder(e.repo, appConfig.Taxonomy(), fs)
}

// viewer returns a builder whose snapshot never touches the stored
// baseline. Used when rendering someone else's results.
func viewer() *report.Builder {
	fs := fusion.NewService(&fusion.MemorySnapshotStore{}, time.Now)
	return report.NewBuilder(nil, appConfig.Taxonomy(), fs)
}
