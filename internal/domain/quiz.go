package domain

import (
	"strings"
	"time"
)

// Difficulty is the tone label the quiz is written in.
type Difficulty string

const (
	DifficultySimple Difficulty = "Simple"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the labels offered by the form, in display order.
var Difficulties = []Difficulty{DifficultySimple, DifficultyMedium, DifficultyHard}

// ParseDifficulty matches a label case-insensitively against the fixed set.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

const (
	MinQuestionCount     = 3
	MaxQuestionCount     = 15
	DefaultQuestionCount = 5
	MaxSubjectLength     = 60
)

// QuizSpec is everything the generation prompt is built from.
type QuizSpec struct {
	Subject    string
	Count      int
	Difficulty Difficulty
	Text       string
}

// TableRow is one displayed question: text, joined choices and the correct letter.
type TableRow struct {
	MCQ     string `json:"mcq"`
	Choices string `json:"choices"`
	Correct string `json:"correct"`
}

// ChainOutput holds the raw text of both prompt stages.
type ChainOutput struct {
	Quiz   string
	Review string
}

// QuizResult is what a session keeps after a successful generation.
type QuizResult struct {
	Rows        []TableRow `json:"rows"`
	Review      string     `json:"review"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	Count       int        `json:"count"`
	GeneratedAt time.Time  `json:"generated_at"`
}
