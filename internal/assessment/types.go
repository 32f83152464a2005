package assessment

import "time"

// PassThreshold is the minimum fractional score that passes an assessment.
const PassThreshold = 0.80

// Difficulty is the generator's label for a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a multiple-choice question. CorrectAnswer indexes Options.
type Question struct {
	ID            int        `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Response is a learner's answer to one question.
type Response struct {
	QuestionID     int `json:"questionId"`
	SelectedAnswer int `json:"selectedAnswer"`
}

// LearningOutcome describes the credit value of the assessed material.
// CPDPoints always equals LearningTime.
type LearningOutcome struct {
	Title         string  `json:"title"`
	KIUAllocation float64 `json:"kiuAllocation"`
	CPDPoints     float64 `json:"cpdPoints"`
	Summary       string  `json:"summary"`
	AcademicLevel string  `json:"academicLevel"`
	LearningTime  float64 `json:"learningTime"`
}

// UserInfo identifies the learner a certificate is issued to.
type UserInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName joins first and last name.
func (u UserInfo) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Generated is the output of content generation: the questions to present
// plus the topic and credit value of the source material.
type Generated struct {
	Questions       []Question      `json:"questions"`
	Topic           string          `json:"topic"`
	LearningOutcome LearningOutcome `json:"learningOutcome"`
}

// Result is a finalized assessment. It is never mutated after Finalize.
type Result struct {
	Score           float64         `json:"score"`
	Passed          bool            `json:"passed"`
	Responses       []Response      `json:"responses"`
	Topic           string          `json:"topic"`
	UserName        string          `json:"userName"`
	UserInfo        UserInfo        `json:"userInfo"`
	Date            time.Time       `json:"date"`
	CertificateID   string          `json:"certificateId"`
	LearningOutcome LearningOutcome `json:"learningOutcome"`
	Verified        bool            `json:"verified,omitempty"`
	TeamID          string          `json:"teamId,omitempty"`
	InvitedBy       string          `json:"invitedBy,omitempty"`
}
