// Package records stores typed collections as JSON documents in a store.KV.
//
// Every collection lives under one key and is rewritten as a whole on each
// change. A document that fails to decode is treated as empty and reported
// on stderr, so one corrupt key never blocks the rest of the application.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/sharing"
	"github.com/abhisek/aicred/internal/store"
	"github.com/abhisek/aicred/internal/teams"
)

// Storage keys.
const (
	KeyAssessments = "aice_assessments"
	KeyTeams       = "aice_teams"
	KeyInvites     = "aice_invites"
	KeyLinks       = "aice_shareable_links"
	KeyKFSSnapshot = "aice_kfs_snapshot"
	KeyShareSecret = "aice_share_secret"
)

// warnOut receives decode-or-default warnings.
var warnOut io.Writer = os.Stderr

// Repo is the typed view over a KV store. It implements teams.Repository
// and sharing.Repository.
type Repo struct {
	kv store.KV

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

var (
	_ teams.Repository   = (*Repo)(nil)
	_ sharing.Repository = (*Repo)(nil)
)

// New creates a Repo over kv.
func New(kv store.KV) *Repo {
	return &Repo{kv: kv}
}

// loadList decodes the collection under key. Missing keys yield nil.
func loadList[T any](ctx context.Context, kv store.KV, key string) ([]T, error) {
	raw, err := kv.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		fmt.Fprintf(warnOut, "warning: discarding unreadable %s: %v\n", key, err)
		return nil, nil
	}
	return out, nil
}

func saveList[T any](ctx context.Context, kv store.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SaveResult stores a finalized result ahead of all earlier ones.
func (r *Repo) SaveResult(ctx context.Context, res assessment.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := loadList[assessment.Result](ctx, r.kv, KeyAssessments)
	if err != nil {
		return err
	}
	results = append([]assessment.Result{res}, results...)
	return saveList(ctx, r.kv, KeyAssessments, results)
}

// Results returns every stored result, newest first.
func (r *Repo) Results(ctx context.Context) ([]assessment.Result, error) {
	return loadList[assessment.Result](ctx, r.kv, KeyAssessments)
}

// ReplaceResults overwrites the whole result collection.
func (r *Repo) ReplaceResults(ctx context.Context, results []assessment.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveList(ctx, r.kv, KeyAssessments, results)
}

// ImportResults prepends results whose certificate id is not stored yet,
// keeping their order, and returns how many were added.
func (r *Repo) ImportResults(ctx context.Context, incoming []assessment.Result) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := loadList[assessment.Result](ctx, r.kv, KeyAssessments)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, res := range existing {
		seen[res.CertificateID] = true
	}

	var added []assessment.Result
	for _, res := range incoming {
		if res.CertificateID != "" && seen[res.CertificateID] {
			continue
		}
		seen[res.CertificateID] = true
		added = append(added, res)
	}
	if len(added) == 0 {
		return 0, nil
	}
	if err := saveList(ctx, r.kv, KeyAssessments, append(added, existing...)); err != nil {
		return 0, err
	}
	return len(added), nil
}

// ResultsByEmail returns results whose learner email equals email, ignoring
// case like invites and team membership do.
func (r *Repo) ResultsByEmail(ctx context.Context, email string) ([]assessment.Result, error) {
	all, err := r.Results(ctx)
	if err != nil {
		return nil, err
	}
	var out []assessment.Result
	for _, res := range all {
		if strings.EqualFold(res.UserInfo.Email, email) {
			out = append(out, res)
		}
	}
	return out, nil
}

// SaveTeam appends a team.
func (r *Repo) SaveTeam(ctx context.Context, t teams.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadList[teams.Team](ctx, r.kv, KeyTeams)
	if err != nil {
		return err
	}
	return saveList(ctx, r.kv, KeyTeams, append(all, t))
}

// UpdateTeam replaces the team with the same id. Unknown ids are ignored.
func (r *Repo) UpdateTeam(ctx context.Context, t teams.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadList[teams.Team](ctx, r.kv, KeyTeams)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == t.ID {
			all[i] = t
			return saveList(ctx, r.kv, KeyTeams, all)
		}
	}
	return nil
}

// Team returns the team with id, or nil.
func (r *Repo) Team(ctx context.Context, id string) (*teams.Team, error) {
	all, err := r.Teams(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Teams returns all teams in creation order.
func (r *Repo) Teams(ctx context.Context) ([]teams.Team, error) {
	return loadList[teams.Team](ctx, r.kv, KeyTeams)
}

// SaveInvite appends an invite.
func (r *Repo) SaveInvite(ctx context.Context, inv teams.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadList[teams.Invite](ctx, r.kv, KeyInvites)
	if err != nil {
		return err
	}
	return saveList(ctx, r.kv, KeyInvites, append(all, inv))
}

// UpdateInvite replaces the invite with the same id. Unknown ids are ignored.
func (r *Repo) UpdateInvite(ctx context.Context, inv teams.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadList[teams.Invite](ctx, r.kv, KeyInvites)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == inv.ID {
			all[i] = inv
			return saveList(ctx, r.kv, KeyInvites, all)
		}
	}
	return nil
}

// Invite returns the invite with id, or nil.
func (r *Repo) Invite(ctx context.Context, id string) (*teams.Invite, error) {
	all, err := r.Invites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Invites returns all invites.
func (r *Repo) Invites(ctx context.Context) ([]teams.Invite, error) {
	return loadList[teams.Invite](ctx, r.kv, KeyInvites)
}

// InvitesFor returns invites addressed to email, ignoring case.
func (r *Repo) InvitesFor(ctx context.Context, email string) ([]teams.Invite, error) {
	all, err := r.Invites(ctx)
	if err != nil {
		return nil, err
	}
	var out []teams.Invite
	for _, inv := range all {
		if strings.EqualFold(inv.Email, email) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// SaveLink appends a shared link.
func (r *Repo) SaveLink(ctx context.Context, l sharing.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadList[sharing.Link](ctx, r.kv, KeyLinks)
	if err != nil {
		return err
	}
	return saveList(ctx, r.kv, KeyLinks, append(all, l))
}

// Link returns the shared link with id, or nil.
func (r *Repo) Link(ctx context.Context, id string) (*sharing.Link, error) {
	all, err := r.Links(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Links returns all shared links.
func (r *Repo) Links(ctx context.Context) ([]sharing.Link, error) {
	return loadList[sharing.Link](ctx, r.kv, KeyLinks)
}
