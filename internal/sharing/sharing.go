// Package sharing issues password-protected links to a learner's results.
package sharing

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/aicred/internal/assessment"
)

// DefaultTTL is how long a shared link stays valid.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrLinkNotFound  = errors.New("shared link not found")
	ErrLinkExpired   = errors.New("shared link has expired")
	ErrWrongPassword = errors.New("wrong password")
	ErrInvalidToken  = errors.New("invalid share token")
	ErrEmptyPassword = errors.New("password is required")
)

// Link grants access to the results of UserID. Password holds a bcrypt hash.
type Link struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Password  string    `json:"password"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository persists links and looks up the results they expose. Link
// returns nil when the id is unknown.
type Repository interface {
	SaveLink(ctx context.Context, l Link) error
	Link(ctx context.Context, id string) (*Link, error)
	ResultsByEmail(ctx context.Context, email string) ([]assessment.Result, error)
}

// Service creates and opens shared links.
type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service that signs tokens with secret.
func NewService(repo Repository, secret []byte, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		secret: secret,
		ttl:    DefaultTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create stores a new link for userID and returns it with a signed token
// that encodes the link id and expiry.
func (s *Service) Create(ctx context.Context, userID, password string) (*Link, string, error) {
	if password == "" {
		return nil, "", ErrEmptyPassword
	}
	if strings.TrimSpace(userID) == "" {
		return nil, "", &assessment.ValidationError{Field: "userId", Message: "required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	link := Link{
		ID:        "share_" + uuid.NewString(),
		UserID:    userID,
		Password:  string(hash),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	token, err := s.sign(link)
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, "", fmt.Errorf("save link: %w", err)
	}
	return &link, token, nil
}

// Check verifies that the link exists, has not expired and that password
// matches.
func (s *Service) Check(ctx context.Context, linkID, password string) (*Link, error) {
	link, err := s.repo.Link(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if link.ExpiresAt.Before(s.now()) {
		return nil, ErrLinkExpired
	}
	if !passwordMatches(link.Password, password) {
		return nil, ErrWrongPassword
	}
	return link, nil
}

// Validate reports whether linkID can be opened with password.
func (s *Service) Validate(ctx context.Context, linkID, password string) bool {
	_, err := s.Check(ctx, linkID, password)
	return err == nil
}

// OpenLink returns the shared results after checking the link.
func (s *Service) OpenLink(ctx context.Context, linkID, password string) (*Link, []assessment.Result, error) {
	link, err := s.Check(ctx, linkID, password)
	if err != nil {
		return nil, nil, err
	}
	results, err := s.repo.ResultsByEmail(ctx, link.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load shared results: %w", err)
	}
	return link, results, nil
}

// Open verifies a share token and returns the shared results.
func (s *Service) Open(ctx context.Context, token, password string) (*Link, []assessment.Result, error) {
	linkID, err := s.parse(token)
	if err != nil {
		return nil, nil, err
	}
	return s.OpenLink(ctx, linkID, password)
}

func (s *Service) sign(l Link) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        l.ID,
		Subject:   l.UserID,
		IssuedAt:  jwt.NewNumericDate(l.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(l.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return token, nil
}

func (s *Service) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrLinkExpired
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing link id", ErrInvalidToken)
	}
	return claims.ID, nil
}

// passwordMatches compares against a bcrypt hash, or in constant time
// against a plain-text password from imported legacy links. A value is a
// hash only if bcrypt can read its cost, so plain text that merely starts
// with "$2" still compares as plain text.
func passwordMatches(stored, password string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
