package dto

import (
	"time"

	"mcq-generator/internal/domain"
)

// GenerateQuizForm holds the raw multipart form fields of a quiz submission.
type GenerateQuizForm struct {
	Filename string
	FileSize int64
	MCQCount string
	Subject  string
	Tone     string
}

// QuizRowResponse is one row of the generated quiz table
// @Description One question with its joined choices and correct letter
type QuizRowResponse struct {
	MCQ     string `json:"mcq"`
	Choices string `json:"choices"`
	Correct string `json:"correct"`
}

// QuizResultResponse represents a generated quiz in the API response
// @Description Generated quiz table and review
type QuizResultResponse struct {
	Subject     string            `json:"subject"`
	Difficulty  string            `json:"difficulty"`
	Count       int               `json:"count"`
	Rows        []QuizRowResponse `json:"rows"`
	Review      string            `json:"review"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// HealthResponse represents the health check result
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

// NewQuizResultResponse converts a domain result into its API shape.
func NewQuizResultResponse(r *domain.QuizResult) *QuizResultResponse {
	rows := make([]QuizRowResponse, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, QuizRowResponse{MCQ: row.MCQ, Choices: row.Choices, Correct: row.Correct})
	}
	return &QuizResultResponse{
		Subject:     r.Subject,
		Difficulty:  string(r.Difficulty),
		Count:       r.Count,
		Rows:        rows,
		Review:      r.Review,
		GeneratedAt: r.GeneratedAt,
	}
}
