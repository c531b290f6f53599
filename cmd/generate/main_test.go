package main

import (
	"bytes"
	"testing"

	"mcq-generator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &domain.QuizResult{
		Rows: []domain.TableRow{
			{MCQ: "What color is the sky?", Choices: "a-> Red || b-> Blue || c-> Green || d-> Yellow", Correct: "b"},
			{MCQ: "Which is wet?", Choices: "a-> Water || b-> Sand", Correct: "a"},
		},
		Review: "Simple enough.",
	})

	out := buf.String()
	assert.Contains(t, out, "MCQ")
	assert.Contains(t, out, "Choices")
	assert.Contains(t, out, "1  What color is the sky?")
	assert.Contains(t, out, "a-> Red || b-> Blue || c-> Green || d-> Yellow")
	assert.Contains(t, out, "2  Which is wet?")
	assert.Contains(t, out, "Review:\nSimple enough.")
}

func TestPrintResult_NoReview(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &domain.QuizResult{Rows: []domain.TableRow{{MCQ: "Q", Choices: "", Correct: ""}}})
	assert.NotContains(t, buf.String(), "Review:")
}
