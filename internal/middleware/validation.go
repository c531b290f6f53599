package middleware

import (
	"mcq-generator/internal/dto"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedSpecKey is the key for storing the validated quiz parameters in fiber.Ctx locals.
const ValidatedSpecKey = "validated_quiz_spec"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

// ValidateGenerateQuiz validates the multipart quiz form and stores the
// parsed domain.QuizSpec under ValidatedSpecKey.
func (vm *ValidationMiddleware) ValidateGenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, errors := vm.validator.ValidateGenerateQuizForm(FormFromRequest(c))
		if len(errors) > 0 {
			return errors // handled by ErrorHandler
		}

		c.Locals(ValidatedSpecKey, spec)
		return c.Next()
	}
}

// FormFromRequest collects the quiz form fields of a multipart request.
// A missing file leaves Filename empty.
func FormFromRequest(c *fiber.Ctx) dto.GenerateQuizForm {
	form := dto.GenerateQuizForm{
		MCQCount: c.FormValue("mcq_count"),
		Subject:  c.FormValue("subject"),
		Tone:     c.FormValue("tone"),
	}
	if fh, err := c.FormFile("file"); err == nil {
		form.Filename = fh.Filename
		form.FileSize = fh.Size
	}
	return form
}
