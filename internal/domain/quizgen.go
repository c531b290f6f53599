package domain

import (
	"context"
	"io"
)

// DocumentReader turns an uploaded file into plain text.
type DocumentReader interface {
	// Read returns the text content of r, choosing the decoder from filename's extension.
	Read(filename string, r io.Reader) (string, error)
}

// QuizChain runs the generation prompt and then the review prompt over its output.
type QuizChain interface {
	// Run returns the raw text of both stages. responseJSON is the
	// serialized Quiz Response Schema example embedded in the first prompt.
	Run(ctx context.Context, spec QuizSpec, responseJSON string) (*ChainOutput, error)
}
