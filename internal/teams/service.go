package teams

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/proficiency"
	"github.com/abhisek/aicred/internal/subject"
)

// Service creates teams and handles invite responses.
type Service struct {
	repo     Repository
	notifier Notifier
	taxonomy *subject.Taxonomy
	now      func() time.Time
	newID    func(prefix string) string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTaxonomy sets the subject taxonomy used by Dashboard.
func WithTaxonomy(t *subject.Taxonomy) Option {
	return func(s *Service) { s.taxonomy = t }
}

// NewService creates a Service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notifier,
		taxonomy: subject.Default(),
		now:      func() time.Time { return time.Now().UTC() },
		newID: func(prefix string) string {
			return prefix + "_" + uuid.NewString()
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ValidateTeam checks a team name and member email list.
func ValidateTeam(name string, emails []string) error {
	if len(strings.TrimSpace(name)) < MinNameLength {
		return &assessment.ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("team name must be at least %d characters", MinNameLength),
		}
	}

	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" || !strings.Contains(e, "@") {
			return &assessment.ValidationError{Field: "members", Message: fmt.Sprintf("invalid email address %q", e)}
		}
		key := strings.ToLower(e)
		if seen[key] {
			return &assessment.ValidationError{Field: "members", Message: fmt.Sprintf("duplicate email %q", e)}
		}
		seen[key] = true
	}
	return nil
}

// Create stores a new team with every member pending and one pending invite
// per member. Invite delivery failures are reported as warnings and do not
// fail the call.
func (s *Service) Create(ctx context.Context, name string, creator assessment.UserInfo, emails []string) (*Team, []Invite, error) {
	if err := ValidateTeam(name, emails); err != nil {
		return nil, nil, err
	}

	now := s.now()
	team := Team{
		ID:        s.newID("team"),
		Name:      strings.TrimSpace(name),
		CreatedBy: creator,
		Members:   make([]Member, 0, len(emails)),
		CreatedAt: now,
	}
	for _, e := range emails {
		team.Members = append(team.Members, Member{Email: strings.TrimSpace(e), Status: MemberPending})
	}

	if err := s.repo.SaveTeam(ctx, team); err != nil {
		return nil, nil, fmt.Errorf("save team: %w", err)
	}

	invites := make([]Invite, 0, len(team.Members))
	for _, m := range team.Members {
		inv := Invite{
			ID:        s.newID("invite"),
			TeamID:    team.ID,
			Email:     m.Email,
			Status:    InvitePending,
			CreatedAt: now,
		}
		if err := s.repo.SaveInvite(ctx, inv); err != nil {
			return &team, invites, fmt.Errorf("save invite for %s: %w", m.Email, err)
		}
		invites = append(invites, inv)

		if s.notifier != nil {
			if err := s.notifier.NotifyInvite(ctx, team, inv); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to send invite to %s: %v\n", m.Email, err)
			}
		}
	}

	return &team, invites, nil
}

// Respond accepts or declines a pending invite and updates the matching
// team member.
func (s *Service) Respond(ctx context.Context, inviteID string, accept bool) (*Invite, error) {
	inv, err := s.repo.Invite(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("load invite: %w", err)
	}
	if inv == nil {
		return nil, ErrInviteNotFound
	}
	if inv.Status != InvitePending {
		return nil, ErrInviteClosed
	}

	team, err := s.repo.Team(ctx, inv.TeamID)
	if err != nil {
		return nil, fmt.Errorf("load team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	now := s.now()
	status, memberStatus := InviteDeclined, MemberDeclined
	if accept {
		status, memberStatus = InviteAccepted, MemberActive
	}
	inv.Status = status

	for i := range team.Members {
		if !strings.EqualFold(team.Members[i].Email, inv.Email) {
			continue
		}
		team.Members[i].Status = memberStatus
		if accept {
			team.Members[i].JoinedAt = &now
		}
	}

	if err := s.repo.UpdateInvite(ctx, *inv); err != nil {
		return nil, fmt.Errorf("update invite: %w", err)
	}
	if err := s.repo.UpdateTeam(ctx, *team); err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	return inv, nil
}

// PendingInvites lists open invites addressed to email.
func (s *Service) PendingInvites(ctx context.Context, email string) ([]Invite, error) {
	all, err := s.repo.InvitesFor(ctx, email)
	if err != nil {
		return nil, err
	}
	var out []Invite
	for _, inv := range all {
		if inv.Status == InvitePending {
			out = append(out, inv)
		}
	}
	return out, nil
}

// MemberSummary is one member's line on the team dashboard.
type MemberSummary struct {
	Email       string              `json:"email"`
	Status      MemberStatus        `json:"status"`
	Assessments int                 `json:"assessments"`
	TotalPoints float64             `json:"totalPoints"`
	Scores      []proficiency.Score `json:"scores,omitempty"`
}

// Dashboard is the combined proficiency view of a team.
type Dashboard struct {
	Team    Team                `json:"team"`
	Members []MemberSummary     `json:"members"`
	Scores  []proficiency.Score `json:"scores"`
}

// Dashboard aggregates the results of active members. Pending and declined
// members are listed without scores.
func (s *Service) Dashboard(ctx context.Context, teamID string) (*Dashboard, error) {
	team, err := s.repo.Team(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	d := &Dashboard{Team: *team}
	var combined []assessment.Result
	for _, m := range team.Members {
		sum := MemberSummary{Email: m.Email, Status: m.Status}
		if m.Status == MemberActive {
			results, err := s.repo.ResultsByEmail(ctx, m.Email)
			if err != nil {
				return nil, fmt.Errorf("load results for %s: %w", m.Email, err)
			}
			sum.Assessments = len(results)
			sum.Scores = proficiency.Calculate(results, s.taxonomy)
			sum.TotalPoints = proficiency.Total(sum.Scores)
			combined = append(combined, results...)
		}
		d.Members = append(d.Members, sum)
	}
	d.Scores = proficiency.Calculate(combined, s.taxonomy)
	return d, nil
}
