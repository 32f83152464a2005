package contentgen

import "github.com/abhisek/aicred/internal/llm"

// QuestionsSchema is the structured output for question generation.
var QuestionsSchema = &llm.Schema{
	Name:        "assessment-questions",
	Description: "Multiple-choice questions testing comprehension of the supplied text, plus its main topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "Sequential question number starting at 1",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
					},
					"required":             []any{"id", "text", "options", "correctAnswer", "difficulty"},
					"additionalProperties": false,
				},
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "Main topic of the text",
			},
		},
		"required":             []any{"questions", "topic"},
		"additionalProperties": false,
	},
}

// LearningOutcomeSchema is the structured output for credit analysis.
var LearningOutcomeSchema = &llm.Schema{
	Name:        "learning-outcome",
	Description: "Title, summary, academic level and study time of the supplied learning material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Clear, descriptive title of the learning material",
			},
			"kiuAllocation": map[string]any{
				"type":        "number",
				"description": "AiCE points: learning time multiplied by the level rate",
			},
			"cpdPoints": map[string]any{
				"type":        "number",
				"description": "CPD points, equal to learning time in hours",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Concise summary of the material",
			},
			"academicLevel": map[string]any{
				"type": "string",
				"enum": []any{"Middle School", "High School", "Undergraduate", "Master's", "PhD"},
			},
			"learningTime": map[string]any{
				"type":        "number",
				"description": "Estimated study time in hours",
			},
		},
		"required":             []any{"title", "kiuAllocation", "cpdPoints", "summary", "academicLevel", "learningTime"},
		"additionalProperties": false,
	},
}
