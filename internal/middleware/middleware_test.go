package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/util"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func decode(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewUnsupportedFormatError("a.docx"), http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"},
		{domain.NewFileReadError("a.pdf", errors.New("eof")), http.StatusUnprocessableEntity, "FILE_READ_ERROR"},
		{domain.NewLLMServiceError(errors.New("401")), http.StatusBadGateway, "LLM_SERVICE_ERROR"},
		{domain.NewQuizParseError(), http.StatusUnprocessableEntity, "QUIZ_PARSE_ERROR"},
		{domain.NewQuizFormatError(errors.New("x")), http.StatusUnprocessableEntity, "QUIZ_FORMAT_ERROR"},
		{domain.NewGenerationInProgressError(), http.StatusConflict, "GENERATION_IN_PROGRESS"},
		{domain.NewNotFoundError("none"), http.StatusNotFound, "NOT_FOUND"},
		{domain.NewInternalError("boom", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := newApp()
			handlerErr := tt.err
			app.Get("/", func(c *fiber.Ctx) error { return handlerErr })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body middleware.ErrorResponse
			decode(t, resp.Body, &body)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("subject")}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "subject", body.Errors[0].Field)
}

func TestRequestLogger_PassesStatusThrough(t *testing.T) {
	app := newApp()
	app.Use(middleware.RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/fail", func(c *fiber.Ctx) error { return domain.NewQuizParseError() })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func sessionApp() *fiber.App {
	app := newApp()
	app.Use(middleware.Session(config.SessionConfig{CookieName: "mcqgen_session", TTL: time.Hour}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(middleware.SessionID(c)) })
	return app
}

func TestSession_IssuesCookie(t *testing.T) {
	resp, err := sessionApp().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, util.IsValidULID(string(body)))

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mcqgen_session", cookies[0].Name)
	assert.Equal(t, string(body), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestSession_KeepsValidCookie(t *testing.T) {
	existing := util.NewULID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mcqgen_session", Value: existing})

	resp, err := sessionApp().Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, existing, string(body))
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mcqgen_session", Value: "../../etc/passwd"})

	resp, err := sessionApp().Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, "../../etc/passwd", string(body))
	assert.True(t, util.IsValidULID(string(body)))
}

func multipartRequest(t *testing.T, fields map[string]string, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("The sky is blue."))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestValidateGenerateQuiz(t *testing.T) {
	vm := middleware.NewValidationMiddleware(validation.NewValidator(0))
	app := newApp()
	app.Post("/", vm.ValidateGenerateQuiz(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(middleware.ValidatedSpecKey).(domain.QuizSpec))
	})

	t.Run("Valid", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"mcq_count": "4", "subject": "Physics", "tone": "Hard"}, "notes.txt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var spec domain.QuizSpec
		decode(t, resp.Body, &spec)
		assert.Equal(t, domain.QuizSpec{Subject: "Physics", Count: 4, Difficulty: domain.DifficultyHard}, spec)
	})

	t.Run("Missing file and subject", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"mcq_count": "4", "tone": "Hard"}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decode(t, resp.Body, &body)
		require.Len(t, body.Errors, 2)
		assert.Equal(t, "file", body.Errors[0].Field)
		assert.Equal(t, "subject", body.Errors[1].Field)
	})
}
