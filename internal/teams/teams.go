// Package teams manages learning teams, their invitations and the combined
// proficiency view of active members.
package teams

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/aicred/internal/assessment"
)

// MinNameLength is the shortest accepted team name.
const MinNameLength = 3

// MemberStatus is a team member's membership state.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberActive   MemberStatus = "active"
	MemberDeclined MemberStatus = "declined"
)

// InviteStatus is the state of a team invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// Team is a named group of learners.
type Team struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedBy assessment.UserInfo `json:"createdBy"`
	Members   []Member            `json:"members"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Member is one invited or joined learner.
type Member struct {
	Email    string       `json:"email"`
	Status   MemberStatus `json:"status"`
	JoinedAt *time.Time   `json:"joinedAt,omitempty"`
}

// Invite asks one email address to join a team.
type Invite struct {
	ID           string       `json:"id"`
	TeamID       string       `json:"teamId"`
	Email        string       `json:"email"`
	Status       InviteStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	AssessmentID string       `json:"assessmentId,omitempty"`
}

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteClosed   = errors.New("invite already answered")
)

// Repository persists teams and invites. Lookups return nil when the record
// does not exist.
type Repository interface {
	SaveTeam(ctx context.Context, t Team) error
	UpdateTeam(ctx context.Context, t Team) error
	Team(ctx context.Context, id string) (*Team, error)
	Teams(ctx context.Context) ([]Team, error)

	SaveInvite(ctx context.Context, inv Invite) error
	UpdateInvite(ctx context.Context, inv Invite) error
	Invite(ctx context.Context, id string) (*Invite, error)
	InvitesFor(ctx context.Context, email string) ([]Invite, error)

	ResultsByEmail(ctx context.Context, email string) ([]assessment.Result, error)
}

// Notifier delivers an invitation to its recipient.
type Notifier interface {
	NotifyInvite(ctx context.Context, t Team, inv Invite) error
}
