package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase is a step of the assessment lifecycle.
type Phase int

const (
	PhaseContentCollected   Phase = iota // Source text captured, no questions yet
	PhaseQuestionsPresented              // Waiting for responses
	PhasePassed                          // Scored at or above PassThreshold
	PhaseFailed                          // Scored below PassThreshold
	PhaseIdentityCaptured                // Learner details attached, awaiting verification
	PhaseFinalized                       // Result issued
)

func (p Phase) String() string {
	switch p {
	case PhaseContentCollected:
		return "content-collected"
	case PhaseQuestionsPresented:
		return "questions-presented"
	case PhasePassed:
		return "passed"
	case PhaseFailed:
		return "failed"
	case PhaseIdentityCaptured:
		return "identity-captured"
	case PhaseFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Attempt drives one learner through an assessment. It is not safe for
// concurrent use.
type Attempt struct {
	phase     Phase
	content   string
	generated Generated
	responses []Response
	score     float64
	userInfo  UserInfo
	result    *Result

	now   func() time.Time
	newID func() string
}

// Option configures an Attempt.
type Option func(*Attempt)

// WithClock overrides the time source used for the result date.
func WithClock(now func() time.Time) Option {
	return func(a *Attempt) { a.now = now }
}

// WithIDGenerator overrides certificate ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(a *Attempt) { a.newID = newID }
}

// NewCertificateID returns a fresh unique certificate identifier.
func NewCertificateID() string {
	return "CERT-" + strings.ToUpper(uuid.NewString())
}

// NewAttempt starts an assessment for the given source content.
func NewAttempt(content string, opts ...Option) *Attempt {
	a := &Attempt{
		phase:   PhaseContentCollected,
		content: content,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   NewCertificateID,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Phase returns the current lifecycle phase.
func (a *Attempt) Phase() Phase { return a.phase }

// Content returns the source text the attempt was started with.
func (a *Attempt) Content() string { return a.content }

// Questions returns the presented questions.
func (a *Attempt) Questions() []Question { return a.generated.Questions }

// Generated returns the generated assessment being taken.
func (a *Attempt) Generated() Generated { return a.generated }

// Score returns the last computed score, 0 before submission or after a retake.
func (a *Attempt) Score() float64 { return a.score }

// Passed reports whether the last submission reached PassThreshold.
func (a *Attempt) Passed() bool { return a.score >= PassThreshold && len(a.responses) > 0 }

// UserInfo returns the captured learner identity.
func (a *Attempt) UserInfo() UserInfo { return a.userInfo }

// Result returns the issued result, nil until finalized.
func (a *Attempt) Result() *Result { return a.result }

// Present moves the attempt to QuestionsPresented once generated questions
// are available.
func (a *Attempt) Present(g Generated) error {
	if a.phase != PhaseContentCollected {
		return &TransitionError{Op: "present questions", Phase: a.phase}
	}
	if len(g.Questions) == 0 {
		return ErrNoQuestions
	}
	a.generated = g
	a.phase = PhaseQuestionsPresented
	return nil
}

// Submit scores a complete response set and moves to Passed or Failed.
// Exactly one response per question is required.
func (a *Attempt) Submit(responses []Response) (float64, bool, error) {
	if a.phase != PhaseQuestionsPresented {
		return 0, false, &TransitionError{Op: "submit responses", Phase: a.phase}
	}
	if len(responses) != len(a.generated.Questions) {
		return 0, false, &ValidationError{
			Field:   "responses",
			Message: fmt.Sprintf("got %d answers for %d questions", len(responses), len(a.generated.Questions)),
		}
	}

	score, passed := ScoreResponses(a.generated.Questions, responses)
	a.responses = append([]Response(nil), responses...)
	a.score = score
	if passed {
		a.phase = PhasePassed
	} else {
		a.phase = PhaseFailed
	}
	return score, passed, nil
}

// Retake discards the scored responses and presents the questions again.
func (a *Attempt) Retake() error {
	if a.phase != PhasePassed && a.phase != PhaseFailed {
		return &TransitionError{Op: "retake", Phase: a.phase}
	}
	a.responses = nil
	a.score = 0
	a.phase = PhaseQuestionsPresented
	return nil
}

// ValidateUserInfo checks the identity fields required for a certificate.
func ValidateUserInfo(info UserInfo) error {
	switch {
	case strings.TrimSpace(info.FirstName) == "":
		return &ValidationError{Field: "firstName", Message: "required"}
	case strings.TrimSpace(info.LastName) == "":
		return &ValidationError{Field: "lastName", Message: "required"}
	case strings.TrimSpace(info.Email) == "":
		return &ValidationError{Field: "email", Message: "required"}
	case !strings.Contains(info.Email, "@"):
		return &ValidationError{Field: "email", Message: "must contain @"}
	}
	return nil
}

// CaptureIdentity attaches learner details to a passed attempt. Failed
// attempts have no identity path.
func (a *Attempt) CaptureIdentity(info UserInfo) error {
	if a.phase != PhasePassed {
		return &TransitionError{Op: "capture identity", Phase: a.phase}
	}
	if err := ValidateUserInfo(info); err != nil {
		return err
	}
	a.userInfo = info
	a.phase = PhaseIdentityCaptured
	return nil
}

// Finalize issues the result. verified records the outcome of the external
// identity check; a skipped check finalizes with verified=false.
func (a *Attempt) Finalize(verified bool) (*Result, error) {
	if a.phase != PhaseIdentityCaptured {
		return nil, &TransitionError{Op: "finalize", Phase: a.phase}
	}

	r := &Result{
		Score:           a.score,
		Passed:          true,
		Responses:       append([]Response(nil), a.responses...),
		Topic:           a.generated.Topic,
		UserName:        a.userInfo.FullName(),
		UserInfo:        a.userInfo,
		Date:            a.now(),
		CertificateID:   a.newID(),
		LearningOutcome: a.generated.LearningOutcome,
		Verified:        verified,
	}
	a.result = r
	a.phase = PhaseFinalized
	return r, nil
}
