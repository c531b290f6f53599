package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
)

// Validator provides request validation functionality
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator instance. A non-positive
// maxFileSize disables the upload size check.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateGenerateQuizForm checks every field of the quiz form and returns
// the parsed parameters. All invalid fields are reported together. The file
// extension is left to the document reader, which reports it as an
// unsupported format.
func (v *Validator) ValidateGenerateQuizForm(form dto.GenerateQuizForm) (domain.QuizSpec, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	var spec domain.QuizSpec

	if strings.TrimSpace(form.Filename) == "" {
		errors = append(errors, domain.NewMissingFieldError("file"))
	} else if v.maxFileSize > 0 && form.FileSize > v.maxFileSize {
		errors = append(errors, domain.ValidationError{Field: "file", Message: "is larger than the upload limit"})
	}

	countStr := strings.TrimSpace(form.MCQCount)
	if countStr == "" {
		errors = append(errors, domain.NewMissingFieldError("mcq_count"))
	} else if count, err := strconv.Atoi(countStr); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("mcq_count", form.MCQCount))
	} else if count < domain.MinQuestionCount || count > domain.MaxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("mcq_count", count, domain.MinQuestionCount, domain.MaxQuestionCount))
	} else {
		spec.Count = count
	}

	subject := strings.TrimSpace(form.Subject)
	if subject == "" {
		errors = append(errors, domain.NewMissingFieldError("subject"))
	} else if n := utf8.RuneCountInString(subject); n > domain.MaxSubjectLength {
		errors = append(errors, domain.NewOutOfRangeError("subject", n, 1, domain.MaxSubjectLength))
	} else {
		spec.Subject = subject
	}

	if strings.TrimSpace(form.Tone) == "" {
		errors = append(errors, domain.NewMissingFieldError("tone"))
	} else if d, ok := domain.ParseDifficulty(form.Tone); !ok {
		errors = append(errors, domain.NewInvalidFormatError("tone", form.Tone))
	} else {
		spec.Difficulty = d
	}

	return spec, errors
}
