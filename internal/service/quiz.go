package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"
	"time"

	"mcq-generator/internal/cache"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/parser"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GenerateRequest is a validated form submission.
type GenerateRequest struct {
	Filename   string
	Content    []byte
	Subject    string
	Count      int
	Difficulty domain.Difficulty
}

// QuizGenerationService runs the document -> chain -> table pipeline and
// keeps the outcome in the caller's session.
type QuizGenerationService interface {
	// Generate runs the pipeline. An empty sessionID runs it without
	// storing the result.
	Generate(ctx context.Context, sessionID string, req GenerateRequest) (*domain.QuizResult, error)
	// Current returns the result stored for the session, or ErrSessionResultNotFound.
	Current(ctx context.Context, sessionID string) (*domain.QuizResult, error)
	// Clear drops the session's result.
	Clear(ctx context.Context, sessionID string) error
}

type inflightRun struct {
	key  string
	refs int
}

type quizGenerationService struct {
	reader domain.DocumentReader
	chain  domain.QuizChain
	store  SessionResultStore
	now    func() time.Time

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]*inflightRun // by session id
}

// NewQuizGenerationService creates a new instance of quizGenerationService
func NewQuizGenerationService(
	reader domain.DocumentReader,
	chain domain.QuizChain,
	store SessionResultStore,
) QuizGenerationService {
	return &quizGenerationService{
		reader:   reader,
		chain:    chain,
		store:    store,
		now:      time.Now,
		inflight: make(map[string]*inflightRun),
	}
}

// Generate collapses identical concurrent submissions from one session into
// a single chain run. A different submission while one is running is
// rejected with GENERATION_IN_PROGRESS.
func (s *quizGenerationService) Generate(ctx context.Context, sessionID string, req GenerateRequest) (*domain.QuizResult, error) {
	key := runKey(sessionID, req)

	if sessionID != "" {
		if err := s.acquire(sessionID, key); err != nil {
			return nil, err
		}
		defer s.release(sessionID)
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// The run outlives a single caller when it is shared.
		return s.run(context.WithoutCancel(ctx), sessionID, req)
	})
	if shared {
		logger.Get().Debug("Quiz generation shared with a concurrent submit", zap.String("sessionID", sessionID))
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.QuizResult), nil
}

func (s *quizGenerationService) acquire(sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.inflight[sessionID]; ok {
		if run.key != key {
			return domain.NewGenerationInProgressError()
		}
		run.refs++
		return nil
	}
	s.inflight[sessionID] = &inflightRun{key: key, refs: 1}
	return nil
}

func (s *quizGenerationService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.inflight[sessionID]; ok {
		run.refs--
		if run.refs <= 0 {
			delete(s.inflight, sessionID)
		}
	}
}

func (s *quizGenerationService) run(ctx context.Context, sessionID string, req GenerateRequest) (*domain.QuizResult, error) {
	log := logger.Get().With(
		zap.String("sessionID", sessionID),
		zap.String("filename", req.Filename),
		zap.String("subject", req.Subject),
		zap.Int("count", req.Count),
		zap.String("difficulty", string(req.Difficulty)),
	)

	text, err := s.reader.Read(req.Filename, bytes.NewReader(req.Content))
	if err != nil {
		log.Warn("Failed to read uploaded document", zap.Error(err))
		return nil, err
	}

	responseJSON, err := parser.ResponseSchemaExample(req.Count)
	if err != nil {
		return nil, domain.NewInternalError("failed to build response schema example", err)
	}

	spec := domain.QuizSpec{
		Subject:    req.Subject,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Text:       text,
	}

	started := s.now()
	out, err := s.chain.Run(ctx, spec, responseJSON)
	if err != nil {
		log.Error("Quiz chain failed", zap.Error(err), zap.Int("text_length", len(text)))
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}
	log.Info("Quiz chain completed", zap.Duration("elapsed", s.now().Sub(started)))

	quiz, ok := parser.ExtractQuiz(out.Quiz)
	if !ok || quiz.Len() == 0 {
		log.Error("Model output did not contain a quiz payload", zap.String("raw_output", out.Quiz))
		return nil, domain.NewQuizParseError()
	}

	rows, err := parser.BuildTable(quiz)
	if err != nil {
		log.Error("Failed to format quiz payload", zap.Error(err), zap.String("payload", quiz.Raw()))
		return nil, domain.NewQuizFormatError(err)
	}

	if len(rows) != req.Count {
		log.Warn("Model returned a different number of questions than requested", zap.Int("returned", len(rows)))
	}

	result := &domain.QuizResult{
		Rows:        rows,
		Review:      out.Review,
		Subject:     req.Subject,
		Difficulty:  req.Difficulty,
		Count:       req.Count,
		GeneratedAt: s.now().UTC(),
	}

	if sessionID != "" {
		// The caller still gets the result when the store is unavailable.
		if err := s.store.Put(ctx, sessionID, result); err != nil {
			log.Warn("Failed to keep quiz result in session", zap.Error(err))
		}
	}

	return result, nil
}

func (s *quizGenerationService) Current(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	if sessionID == "" {
		return nil, ErrSessionResultNotFound
	}
	return s.store.Get(ctx, sessionID)
}

func (s *quizGenerationService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Clear(ctx, sessionID)
}

// runKey identifies a submission by session, parameters and document content.
func runKey(sessionID string, req GenerateRequest) string {
	sum := sha256.Sum256(req.Content)
	return cache.GenerateCacheKey("quiz", "run", sessionID,
		strconv.Itoa(req.Count),
		string(req.Difficulty),
		req.Subject,
		req.Filename,
		hex.EncodeToString(sum[:]),
	)
}
