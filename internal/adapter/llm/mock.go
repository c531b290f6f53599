package llm

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// ErrNoMockResponse is returned when the MockModel queue is empty.
var ErrNoMockResponse = errors.New("mock model: no response queued")

// MockResponse is a canned reply for the MockModel.
type MockResponse struct {
	Text string
	Err  error
}

// MockCall records one prompt sent to the MockModel.
type MockCall struct {
	Prompt      string
	Temperature float64
}

// MockModel is a deterministic llms.Model for tests.
// It returns canned responses in FIFO order and records all prompts.
type MockModel struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall
}

// NewMockModel creates a MockModel with the given canned responses.
func NewMockModel(responses ...MockResponse) *MockModel {
	return &MockModel{responses: responses}
}

func (m *MockModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	var sb strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Prompt: sb.String(), Temperature: opts.Temperature})

	if len(m.responses) == 0 {
		return nil, ErrNoMockResponse
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: resp.Text}},
	}, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// CallCount returns the number of calls made.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Prompt returns the i-th recorded prompt.
func (m *MockModel) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[i].Prompt
}
