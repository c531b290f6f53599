package service_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/service"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizChain ---
type MockQuizChain struct {
	mock.Mock
}

func (m *MockQuizChain) Run(ctx context.Context, spec domain.QuizSpec, responseJSON string) (*domain.ChainOutput, error) {
	args := m.Called(ctx, spec, responseJSON)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainOutput), args.Error(1)
}

// --- ManualMockReader ---
type ManualMockReader struct {
	ReadFunc func(filename string, r io.Reader) (string, error)
}

func (m *ManualMockReader) Read(filename string, r io.Reader) (string, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(filename, r)
	}
	return "", errors.New("ReadFunc not set")
}

// ManualMockCache for domain.Cache interface
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("GetFunc not set")
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return errors.New("SetFunc not set")
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return errors.New("DeleteFunc not set")
}

func (m *ManualMockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, key, expiration)
	}
	return errors.New("ExpireFunc not set")
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return errors.New("PingFunc not set")
}

// memoryStore is a SessionResultStore kept in a map.
type memoryStore struct {
	mu      sync.Mutex
	results map[string]*domain.QuizResult
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: make(map[string]*domain.QuizResult)}
}

func (s *memoryStore) Put(ctx context.Context, sessionID string, result *domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.results[sessionID] = result
	return nil
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.results[sessionID]; ok {
		return r, nil
	}
	return nil, service.ErrSessionResultNotFound
}

func (s *memoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, sessionID)
	return nil
}
