package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"mcq-generator/internal/adapter/llm"
	"mcq-generator/internal/adapter/quizgen"
	"mcq-generator/internal/config"
	"mcq-generator/internal/document"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	file := flag.String("file", "", "path to a .pdf or .txt document")
	count := flag.Int("count", domain.DefaultQuestionCount, "number of questions (3-15)")
	subject := flag.String("subject", "", "quiz subject")
	tone := flag.String("tone", string(domain.DifficultySimple), "difficulty: Simple, Medium or Hard")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	var size int64
	if info, err := os.Stat(*file); err == nil {
		size = info.Size()
	}
	spec, fieldErrs := validation.NewValidator(int64(cfg.Server.BodyLimit)).ValidateGenerateQuizForm(dto.GenerateQuizForm{
		Filename: *file,
		FileSize: size,
		MCQCount: fmt.Sprint(*count),
		Subject:  *subject,
		Tone:     *tone,
	})
	if len(fieldErrs) > 0 {
		fmt.Fprintln(os.Stderr, fieldErrs.Error())
		flag.Usage()
		return 2
	}
	if !document.SupportedExtension(*file) {
		fmt.Fprintln(os.Stderr, domain.UserMessage(domain.NewUnsupportedFormatError(*file)))
		return 2
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(domain.NewFileReadError(*file, err)))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.LLM.Timeout+time.Minute)
	defer cancel()

	model, err := llm.NewModel(ctx, cfg.LLM)
	if err != nil {
		logger.Get().Error("Failed to create LLM client", zap.Error(err))
		fmt.Fprintln(os.Stderr, domain.UserMessage(domain.NewLLMServiceError(err)))
		return 1
	}

	quizService := service.NewQuizGenerationService(
		document.NewReader(),
		quizgen.NewChain(model, cfg.LLM.Temperature),
		service.NewSessionResultStore(nil, 0),
	)

	result, err := quizService.Generate(ctx, "", service.GenerateRequest{
		Filename:   filepath.Base(*file),
		Content:    content,
		Subject:    spec.Subject,
		Count:      spec.Count,
		Difficulty: spec.Difficulty,
	})
	if err != nil {
		logger.Get().Error("Quiz generation failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.NewQuizResultResponse(result)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
			return 1
		}
		return 0
	}

	printResult(os.Stdout, result)
	return 0
}

func printResult(w io.Writer, result *domain.QuizResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tMCQ\tChoices\tCorrect")
	for i, row := range result.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, row.MCQ, row.Choices, row.Correct)
	}
	tw.Flush()

	if result.Review != "" {
		fmt.Fprintf(w, "\nReview:\n%s\n", result.Review)
	}
}
