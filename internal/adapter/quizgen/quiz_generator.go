package quizgen

import (
	"context"
	"fmt"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

const generationTemplate = `
Text: {{.text}}
You are an expert MCQ maker. Given the above text, it is your job to
create a quiz of {{.number}} multiple choice questions for {{.subject}} students in {{.tone}} tone.
Make sure the questions are not repeated and check all the questions to be conforming the text as well.
Make sure to format your response like RESPONSE_JSON below and use it as a guide.
Ensure to make {{.number}} MCQs
### RESPONSE_JSON
{{.response_json}}
`

// QuizGenerator runs the first chain stage: source text in, quiz text out.
type QuizGenerator struct {
	llm         llms.Model
	prompt      prompts.PromptTemplate
	temperature float64
}

// NewQuizGenerator creates the generation stage around an already constructed model client.
func NewQuizGenerator(llm llms.Model, temperature float64) *QuizGenerator {
	return &QuizGenerator{
		llm:         llm,
		prompt:      prompts.NewPromptTemplate(generationTemplate, []string{"text", "number", "subject", "tone", "response_json"}),
		temperature: temperature,
	}
}

// BuildPrompt renders the generation prompt for spec.
func (g *QuizGenerator) BuildPrompt(spec domain.QuizSpec, responseJSON string) (string, error) {
	return g.prompt.Format(map[string]any{
		"text":          spec.Text,
		"number":        spec.Count,
		"subject":       spec.Subject,
		"tone":          string(spec.Difficulty),
		"response_json": responseJSON,
	})
}

// Generate returns the model's raw quiz text.
func (g *QuizGenerator) Generate(ctx context.Context, spec domain.QuizSpec, responseJSON string) (string, error) {
	l := logger.Get()

	prompt, err := g.BuildPrompt(spec, responseJSON)
	if err != nil {
		return "", domain.NewInternalError("failed to build quiz generation prompt", err)
	}

	l.Info("Generating quiz with LLM",
		zap.String("subject", spec.Subject),
		zap.Int("count", spec.Count),
		zap.String("difficulty", string(spec.Difficulty)),
		zap.Int("text_length", len(spec.Text)))

	output, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		l.Error("Quiz generation call failed", zap.Error(err), zap.String("prompt_part", prompt[:min(200, len(prompt))]))
		return "", domain.NewLLMServiceError(fmt.Errorf("quiz generation: %w", err))
	}

	l.Debug("Raw quiz generation output", zap.String("raw_output", output))
	return output, nil
}
