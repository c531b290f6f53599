package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"mcq-generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	texts []string
	errAt int // 1-based page that fails, 0 for none
}

func (f *fakePages) NumPage() int { return len(f.texts) }

func (f *fakePages) PageText(i int) (string, error) {
	if i == f.errAt {
		return "", errors.New("broken content stream")
	}
	return f.texts[i-1], nil
}

func TestReader_Read_TextVerbatim(t *testing.T) {
	inputs := []string{
		"The sky is blue.",
		"",
		"  leading and trailing whitespace \n\n",
		"unicode: Größe, 日本語, emoji ✓\r\nwindows line",
	}
	rd := NewReader()
	for _, in := range inputs {
		got, err := rd.Read("notes.txt", strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestReader_Read_TextUppercaseExtension(t *testing.T) {
	got, err := NewReader().Read("NOTES.TXT", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestReader_Read_TextInvalidUTF8(t *testing.T) {
	_, err := NewReader().Read("notes.txt", bytes.NewReader([]byte{0xff, 0xfe, 0x00}))
	require.Error(t, err)
	assert.Equal(t, domain.ErrFileRead, domain.ErrorCodeOf(err))
}

func TestReader_Read_TextReadFailure(t *testing.T) {
	_, err := NewReader().Read("notes.txt", iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.Equal(t, domain.ErrFileRead, domain.ErrorCodeOf(err))
}

func TestReader_Read_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"notes.docx", "notes", "archive.pdf.zip", "image.png"} {
		got, err := NewReader().Read(name, strings.NewReader("anything"))
		require.Error(t, err, name)
		assert.Empty(t, got)
		assert.Equal(t, domain.ErrUnsupportedFormat, domain.ErrorCodeOf(err), name)
	}
}

func TestReader_Read_InvalidPDF(t *testing.T) {
	got, err := NewReader().Read("notes.pdf", strings.NewReader("this is not a pdf"))
	require.Error(t, err)
	assert.Empty(t, got)
	assert.Equal(t, domain.ErrFileRead, domain.ErrorCodeOf(err))
}

// buildPDF writes an uncompressed PDF with one page per entry. An empty
// entry produces a page whose content stream shows no text.
func buildPDF(pageTexts ...string) []byte {
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pageTexts {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)
	return buf.Bytes()
}

func TestReader_Read_PDFPagesInOrder(t *testing.T) {
	data := buildPDF("Hello one", "", "Page three")

	got, err := NewReader().Read("lecture.pdf", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Hello onePage three", got)
}

func TestExtractPages_ConcatenatesInOrder(t *testing.T) {
	got, err := extractPages(&fakePages{texts: []string{"Page one. ", "", "Page three."}})
	require.NoError(t, err)
	assert.Equal(t, "Page one. Page three.", got)
}

func TestExtractPages_NoPages(t *testing.T) {
	got, err := extractPages(&fakePages{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractPages_PageFailureAbortsDocument(t *testing.T) {
	got, err := extractPages(&fakePages{texts: []string{"one", "two", "three"}, errAt: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Empty(t, got)
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.txt"))
	assert.True(t, SupportedExtension("a.PDF"))
	assert.False(t, SupportedExtension("a.md"))
	assert.False(t, SupportedExtension(""))
}
