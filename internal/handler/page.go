package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"strconv"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const successMessage = "Your quiz has been generated successfully!"

// Message kinds map to CSS classes in the page.
const (
	MessageSuccess = "success"
	MessageWarning = "warning"
	MessageError   = "error"
)

// PageMessage is the one-line notice shown under the form.
type PageMessage struct {
	Kind string
	Text string
}

// PageData is everything the index template renders.
type PageData struct {
	Form         dto.GenerateQuizForm
	Difficulties []domain.Difficulty
	MinCount     int
	MaxCount     int
	MaxSubject   int
	Message      *PageMessage
	FieldErrors  domain.ValidationErrors
	Result       *domain.QuizResult
}

// PageHandler serves the server-rendered form and result page.
type PageHandler struct {
	service   service.QuizGenerationService
	validator *validation.Validator
	index     *template.Template
}

// NewPageHandler creates a new PageHandler instance
func NewPageHandler(service service.QuizGenerationService, validator *validation.Validator) *PageHandler {
	return &PageHandler{
		service:   service,
		validator: validator,
		index:     template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/index.html")),
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	data := h.newPageData()
	data.Result = h.current(c)
	return h.render(c, fiber.StatusOK, data)
}

// Submit handles POST /quiz. The page is re-rendered with either the new
// result or a message for the failed step; a failure keeps the previous
// result on screen.
func (h *PageHandler) Submit(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	form := middleware.FormFromRequest(c)

	data := h.newPageData()
	data.Form = form
	if data.Form.MCQCount == "" {
		data.Form.MCQCount = strconv.Itoa(domain.DefaultQuestionCount)
	}

	spec, fieldErrs := h.validator.ValidateGenerateQuizForm(form)
	if len(fieldErrs) > 0 {
		data.Message = &PageMessage{Kind: MessageWarning, Text: domain.UserMessage(fieldErrs)}
		data.FieldErrors = fieldErrs
		data.Result = h.current(c)
		return h.render(c, fiber.StatusBadRequest, data)
	}

	data.Form.Tone = string(spec.Difficulty)

	filename, content, err := readUpload(c)
	if err != nil {
		return h.renderFailure(c, data, err)
	}

	result, err := h.service.Generate(c.UserContext(), sessionID, service.GenerateRequest{
		Filename:   filename,
		Content:    content,
		Subject:    spec.Subject,
		Count:      spec.Count,
		Difficulty: spec.Difficulty,
	})
	if err != nil {
		return h.renderFailure(c, data, err)
	}

	data.Message = &PageMessage{Kind: MessageSuccess, Text: successMessage}
	data.Result = result
	return h.render(c, fiber.StatusOK, data)
}

// Clear handles POST /quiz/clear
func (h *PageHandler) Clear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.SessionID(c)); err != nil {
		logger.Get().Error("Failed to clear session result", zap.Error(err))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *PageHandler) renderFailure(c *fiber.Ctx, data PageData, err error) error {
	logger.Get().Warn("Quiz generation failed",
		zap.String("code", string(domain.ErrorCodeOf(err))),
		zap.Error(err),
	)
	data.Message = &PageMessage{Kind: MessageError, Text: domain.UserMessage(err)}
	data.Result = h.current(c)
	return h.render(c, middleware.StatusForCode(domain.ErrorCodeOf(err)), data)
}

func (h *PageHandler) current(c *fiber.Ctx) *domain.QuizResult {
	result, err := h.service.Current(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		if !errors.Is(err, service.ErrSessionResultNotFound) {
			logger.Get().Warn("Failed to load session result", zap.Error(err))
		}
		return nil
	}
	return result
}

func (h *PageHandler) newPageData() PageData {
	return PageData{
		Form:         dto.GenerateQuizForm{MCQCount: strconv.Itoa(domain.DefaultQuestionCount), Tone: string(domain.DifficultySimple)},
		Difficulties: domain.Difficulties,
		MinCount:     domain.MinQuestionCount,
		MaxCount:     domain.MaxQuestionCount,
		MaxSubject:   domain.MaxSubjectLength,
	}
}

func (h *PageHandler) render(c *fiber.Ctx, status int, data PageData) error {
	var buf bytes.Buffer
	if err := h.index.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return domain.NewInternalError("failed to render page", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
