// Package quizgen runs the two-stage prompt chain: quiz generation followed
// by a review of the generated quiz.
package quizgen

import (
	"context"

	"mcq-generator/internal/adapter/evaluator"
	"mcq-generator/internal/domain"

	"github.com/tmc/langchaingo/llms"
)

// Chain is the fixed generation -> review pipeline. The review prompt is
// built from the generation output, so the stages always run in order.
type Chain struct {
	generator *QuizGenerator
	reviewer  *evaluator.QuizReviewer
}

// NewChain wires both stages to the same model client.
func NewChain(llm llms.Model, temperature float64) *Chain {
	return &Chain{
		generator: NewQuizGenerator(llm, temperature),
		reviewer:  evaluator.NewQuizReviewer(llm, temperature),
	}
}

// Run implements domain.QuizChain.
func (c *Chain) Run(ctx context.Context, spec domain.QuizSpec, responseJSON string) (*domain.ChainOutput, error) {
	quiz, err := c.generator.Generate(ctx, spec, responseJSON)
	if err != nil {
		return nil, err
	}

	review, err := c.reviewer.Review(ctx, spec.Subject, quiz)
	if err != nil {
		return nil, err
	}

	return &domain.ChainOutput{Quiz: quiz, Review: review}, nil
}

var _ domain.QuizChain = (*Chain)(nil)
