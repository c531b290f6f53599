package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Quiz generation pipeline errors, one per failure point
	ErrUnsupportedFormat    ErrorCode = "UNSUPPORTED_FORMAT"
	ErrFileRead             ErrorCode = "FILE_READ_ERROR"
	ErrLLMServiceError      ErrorCode = "LLM_SERVICE_ERROR"
	ErrQuizParse            ErrorCode = "QUIZ_PARSE_ERROR"
	ErrQuizFormat           ErrorCode = "QUIZ_FORMAT_ERROR"
	ErrGenerationInProgress ErrorCode = "GENERATION_IN_PROGRESS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnsupportedFormatError(filename string) *DomainError {
	return NewError(ErrUnsupportedFormat, fmt.Sprintf("Unsupported file format: %s. Only PDF and TXT files are supported.", filename), nil)
}

func NewFileReadError(filename string, err error) *DomainError {
	return NewError(ErrFileRead, fmt.Sprintf("Error reading the file %s", filename), err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewQuizParseError() *DomainError {
	return NewError(ErrQuizParse, "Model output did not contain a valid quiz JSON payload", nil)
}

func NewQuizFormatError(err error) *DomainError {
	return NewError(ErrQuizFormat, "Parsed quiz payload is not shaped as expected", err)
}

func NewGenerationInProgressError() *DomainError {
	return NewError(ErrGenerationInProgress, "A quiz is already being generated for this session", nil)
}

// ErrorCodeOf returns the code carried by err, or ErrInternal for foreign errors.
func ErrorCodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrValidation
	}
	return ErrInternal
}

// UserMessage is the text shown on the page for each failure point.
func UserMessage(err error) string {
	switch ErrorCodeOf(err) {
	case ErrValidation:
		return "Please fill out all the fields before submitting."
	case ErrUnsupportedFormat:
		return "Unsupported file format. Only PDF and TXT files are supported."
	case ErrFileRead:
		return "Error reading the uploaded file. Please check the document and try again."
	case ErrLLMServiceError:
		return "The model failed to generate a response. Please check your API key and try again."
	case ErrQuizParse:
		return "The model returned a response, but it couldn't be parsed as valid JSON. Please try again."
	case ErrQuizFormat:
		return "Failed to format the generated quiz data."
	case ErrGenerationInProgress:
		return "Your previous request is still being processed. Please wait for it to finish."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

// ValidationError describes one invalid form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has an invalid value %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
}
