package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mcq-generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReader struct{}

func (staticReader) Read(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

// blockingChain holds every run until release is closed.
type blockingChain struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingChain() *blockingChain {
	return &blockingChain{started: make(chan struct{}), release: make(chan struct{})}
}

func (c *blockingChain) Run(ctx context.Context, spec domain.QuizSpec, responseJSON string) (*domain.ChainOutput, error) {
	c.calls.Add(1)
	c.once.Do(func() { close(c.started) })
	<-c.release
	return &domain.ChainOutput{
		Quiz:   `{"1": {"mcq": "Q?", "options": {"a": "x", "b": "y"}, "correct": "a"}}`,
		Review: "fine",
	}, nil
}

type nopStore struct{}

func (nopStore) Put(context.Context, string, *domain.QuizResult) error { return nil }
func (nopStore) Get(context.Context, string) (*domain.QuizResult, error) {
	return nil, ErrSessionResultNotFound
}
func (nopStore) Clear(context.Context, string) error { return nil }

func (s *quizGenerationService) refs(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.inflight[sessionID]; ok {
		return run.refs
	}
	return 0
}

func testRequest(subject string) GenerateRequest {
	return GenerateRequest{
		Filename:   "notes.txt",
		Content:    []byte("body"),
		Subject:    subject,
		Count:      3,
		Difficulty: domain.DifficultyMedium,
	}
}

func TestGenerate_IdenticalConcurrentSubmitsShareOneRun(t *testing.T) {
	chain := newBlockingChain()
	svc := NewQuizGenerationService(staticReader{}, chain, nopStore{}).(*quizGenerationService)
	ctx := context.Background()
	const session = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	results := make(chan *domain.QuizResult, 2)
	go func() {
		r, err := svc.Generate(ctx, session, testRequest("Biology"))
		assert.NoError(t, err)
		results <- r
	}()
	<-chain.started

	go func() {
		r, err := svc.Generate(ctx, session, testRequest("Biology"))
		assert.NoError(t, err)
		results <- r
	}()
	require.Eventually(t, func() bool { return svc.refs(session) == 2 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(chain.release)

	first, second := <-results, <-results
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), chain.calls.Load())
	assert.Equal(t, 0, svc.refs(session))
}

func TestGenerate_DifferentSubmitWhileRunningIsRejected(t *testing.T) {
	chain := newBlockingChain()
	svc := NewQuizGenerationService(staticReader{}, chain, nopStore{}).(*quizGenerationService)
	ctx := context.Background()
	const session = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(ctx, session, testRequest("Biology"))
		done <- err
	}()
	<-chain.started

	_, err := svc.Generate(ctx, session, testRequest("Chemistry"))
	assert.Equal(t, domain.ErrGenerationInProgress, domain.ErrorCodeOf(err))

	// Other sessions are not affected.
	otherDone := make(chan error, 1)
	go func() {
		_, err := svc.Generate(ctx, "01BX5ZZKBKACTAV9WEVGEMMVRZ", testRequest("Chemistry"))
		otherDone <- err
	}()

	close(chain.release)
	assert.NoError(t, <-done)
	assert.NoError(t, <-otherDone)
	assert.Equal(t, int32(2), chain.calls.Load())

	_, err = svc.Generate(ctx, session, testRequest("Chemistry"))
	assert.NoError(t, err)
}
