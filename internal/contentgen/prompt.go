package contentgen

import (
	"fmt"
	"strings"
)

const questionsSystemPrompt = `You write multiple-choice comprehension questions about learning material. Always respond with valid JSON.`

const outcomeSystemPrompt = `You analyze educational content and assign continuing-education credit. Always respond with valid JSON and keep calculations consistent.`

const outcomeRules = `Rules:
1. Learning time: estimate the realistic study time in hours from the length and complexity of the material. For video transcripts use the video length as a base; for text use reading and comprehension time.
2. CPD points equal the learning time in hours exactly. The academic level does not change CPD points.
3. AiCE points are the learning time multiplied by the level rate: Middle School 2 per hour, High School 4, Undergraduate 6, Master's 8, PhD 10. Example: 2 hours at Undergraduate level is 12 AiCE points.
4. Academic level: judge the vocabulary, concepts and assumed background knowledge objectively and consistently.`

// buildQuestionsMessage asks for cfg.QuestionCount questions split between
// easy and hard.
func buildQuestionsMessage(text string, cfg Config) string {
	easy := (cfg.QuestionCount + 1) / 2
	hard := cfg.QuestionCount - easy

	var b strings.Builder
	fmt.Fprintf(&b, "Create %d multiple-choice questions about the text below:\n", cfg.QuestionCount)
	fmt.Fprintf(&b, "- %d easy\n", easy)
	if hard > 0 {
		fmt.Fprintf(&b, "- %d hard\n", hard)
	}
	fmt.Fprintf(&b, "Each question has exactly %d options with one correct answer. ", cfg.OptionCount)
	fmt.Fprintf(&b, "correctAnswer is the zero-based index of that option (0-%d). ", cfg.OptionCount-1)
	b.WriteString("Number the questions from 1 and name the main topic of the text.\n\n")
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}

func buildOutcomeMessage(text string) string {
	var b strings.Builder
	b.WriteString(outcomeRules)
	b.WriteString("\n\nAnalyze this material:\n")
	b.WriteString(text)
	return b.String()
}
