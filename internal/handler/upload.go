package handler

import (
	"io"

	"mcq-generator/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// readUpload returns the name and content of the "file" form field.
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, domain.NewFileReadError(fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, domain.NewFileReadError(fh.Filename, err)
	}
	return fh.Filename, content, nil
}
