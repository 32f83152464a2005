package assessment

// ScoreResponses grades responses against questions.
//
// A response is correct when its SelectedAnswer equals the CorrectAnswer of
// the first question with the same ID. The score is the correct count over
// the number of questions, so unanswered or duplicated questions count
// against the learner. An empty question set scores 0.
func ScoreResponses(questions []Question, responses []Response) (float64, bool) {
	if len(questions) == 0 {
		return 0, false
	}

	answers := make(map[int]int, len(questions))
	for _, q := range questions {
		if _, seen := answers[q.ID]; !seen {
			answers[q.ID] = q.CorrectAnswer
		}
	}

	correct := 0
	for _, r := range responses {
		if want, ok := answers[r.QuestionID]; ok && want == r.SelectedAnswer {
			correct++
		}
	}

	score := float64(correct) / float64(len(questions))
	return score, score >= PassThreshold
}
