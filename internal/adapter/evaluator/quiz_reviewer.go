package evaluator

import (
	"context"
	"fmt"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

// ReviewWordLimit caps the complexity analysis the reviewer is asked for.
const ReviewWordLimit = 50

const reviewTemplate = `
You are an expert english grammarian and writer. Given a Multiple Choice Quiz for {{.subject}} students.
You need to evaluate the complexity of the question and give a complete analysis of the quiz. Only use at max {{.word_limit}} words for complexity analysis.
if the quiz is not at per with the cognitive and analytical abilities of the students,
update the quiz questions which needs to be changed and change the tone such that it perfectly fits the student abilities
Quiz_MCQs:
{{.quiz}}

Check from an expert English Writer of the above quiz:
`

// QuizReviewer runs the second chain stage: it critiques a generated quiz
// for the stated audience. Its output is free text and is never parsed.
type QuizReviewer struct {
	llm         llms.Model
	prompt      prompts.PromptTemplate
	temperature float64
}

func NewQuizReviewer(llm llms.Model, temperature float64) *QuizReviewer {
	return &QuizReviewer{
		llm:         llm,
		prompt:      prompts.NewPromptTemplate(reviewTemplate, []string{"subject", "quiz", "word_limit"}),
		temperature: temperature,
	}
}

// BuildPrompt renders the review prompt for a quiz written for subject students.
func (r *QuizReviewer) BuildPrompt(subject, quiz string) (string, error) {
	return r.prompt.Format(map[string]any{
		"subject":    subject,
		"quiz":       quiz,
		"word_limit": ReviewWordLimit,
	})
}

// Review returns the model's critique of quiz.
func (r *QuizReviewer) Review(ctx context.Context, subject, quiz string) (string, error) {
	l := logger.Get()

	prompt, err := r.BuildPrompt(subject, quiz)
	if err != nil {
		return "", domain.NewInternalError("failed to build quiz review prompt", err)
	}

	l.Info("Reviewing generated quiz with LLM", zap.String("subject", subject))

	review, err := llms.GenerateFromSinglePrompt(ctx, r.llm, prompt, llms.WithTemperature(r.temperature))
	if err != nil {
		l.Error("Quiz review call failed", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("quiz review: %w", err))
	}

	l.Debug("Raw quiz review output", zap.String("raw_review", review))
	return review, nil
}
