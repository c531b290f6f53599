// Package document extracts plain text from uploaded quiz source files.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	ExtText = ".txt"
	ExtPDF  = ".pdf"
)

var errInvalidUTF8 = errors.New("text file is not valid UTF-8")

// Reader implements domain.DocumentReader for .txt and .pdf uploads.
type Reader struct{}

// NewReader creates a new document Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the text of the upload. Text files are returned verbatim;
// PDF pages are concatenated in order, with pages that carry no text
// contributing nothing. A failure on any page fails the whole document.
func (rd *Reader) Read(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtText:
		return readText(filename, r)
	case ExtPDF:
		return readPDF(filename, r)
	default:
		return "", domain.NewUnsupportedFormatError(filename)
	}
}

// SupportedExtension reports whether filename has one of the accepted extensions.
func SupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ExtText || ext == ExtPDF
}

func readText(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewFileReadError(filename, err)
	}
	if !utf8.Valid(data) {
		return "", domain.NewFileReadError(filename, errInvalidUTF8)
	}
	return string(data), nil
}

func readPDF(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewFileReadError(filename, err)
	}

	pages, err := openPDF(data)
	if err != nil {
		logger.Get().Warn("Failed to open PDF", zap.String("filename", filename), zap.Error(err))
		return "", domain.NewFileReadError(filename, err)
	}

	text, err := extractPages(pages)
	if err != nil {
		logger.Get().Warn("Failed to extract PDF text", zap.String("filename", filename), zap.Error(err))
		return "", domain.NewFileReadError(filename, err)
	}
	return text, nil
}

// pageSource is the per-page view of a PDF used by extractPages.
type pageSource interface {
	NumPage() int
	// PageText returns the text of page i (1-based).
	PageText(i int) (string, error)
}

func extractPages(src pageSource) (string, error) {
	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

type pdfPages struct {
	r     *pdf.Reader
	fonts map[string]*pdf.Font
}

func openPDF(data []byte) (ps *pdfPages, err error) {
	// The pdf package panics on some malformed inputs instead of returning an error.
	defer func() {
		if rec := recover(); rec != nil {
			ps, err = nil, fmt.Errorf("pdf reader: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf reader: %w", err)
	}
	return &pdfPages{r: r, fonts: make(map[string]*pdf.Font)}, nil
}

func (p *pdfPages) NumPage() int {
	return p.r.NumPage()
}

func (p *pdfPages) PageText(i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdf page text: %v", rec)
		}
	}()

	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	for _, name := range page.Fonts() {
		if _, ok := p.fonts[name]; !ok {
			f := page.Font(name)
			p.fonts[name] = &f
		}
	}
	return page.GetPlainText(p.fonts)
}

var _ domain.DocumentReader = (*Reader)(nil)
