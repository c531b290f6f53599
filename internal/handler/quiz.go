package handler

import (
	"errors"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles the JSON quiz API
type QuizHandler struct {
	service service.QuizGenerationService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizGenerationService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a document
// @Description Uploads a PDF or TXT document and generates multiple choice questions with a review. The result replaces the session's current quiz.
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Source document (.pdf or .txt)"
// @Param mcq_count formData int true "Number of questions (3-15)"
// @Param subject formData string true "Quiz subject"
// @Param tone formData string true "Difficulty" Enums(Simple, Medium, Hard)
// @Success 200 {object} dto.QuizResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 415 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	spec, ok := c.Locals(middleware.ValidatedSpecKey).(domain.QuizSpec)
	if !ok {
		return domain.NewInternalError("quiz form was not validated", nil)
	}

	filename, content, err := readUpload(c)
	if err != nil {
		return err
	}

	result, err := h.service.Generate(c.UserContext(), middleware.SessionID(c), service.GenerateRequest{
		Filename:   filename,
		Content:    content,
		Subject:    spec.Subject,
		Count:      spec.Count,
		Difficulty: spec.Difficulty,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResultResponse(result))
}

// GetCurrentQuiz godoc
// @Summary Get the session's current quiz
// @Description Returns the last quiz generated in this session
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/quizzes/current [get]
func (h *QuizHandler) GetCurrentQuiz(c *fiber.Ctx) error {
	result, err := h.service.Current(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionResultNotFound) {
			return domain.NewNotFoundError("no quiz has been generated in this session")
		}
		return err
	}
	return c.JSON(dto.NewQuizResultResponse(result))
}

// ClearCurrentQuiz godoc
// @Summary Clear the session's current quiz
// @Tags quiz
// @Success 204
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/quizzes/current [delete]
func (h *QuizHandler) ClearCurrentQuiz(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.SessionID(c)); err != nil {
		logger.Get().Error("Failed to clear session result", zap.Error(err))
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
