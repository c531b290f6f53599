package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mcq-generator/internal/cache"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"go.uber.org/zap"
)

// ErrSessionResultNotFound is returned when a session holds no generated quiz.
var ErrSessionResultNotFound = errors.New("session result not found in cache")

// SessionResultStore keeps the last generated quiz of each browser session
// until it is explicitly cleared or the session expires.
type SessionResultStore interface {
	Put(ctx context.Context, sessionID string, result *domain.QuizResult) error
	Get(ctx context.Context, sessionID string) (*domain.QuizResult, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionResultStoreImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionResultStore creates a store backed by the given cache.
func NewSessionResultStore(cache domain.Cache, ttl time.Duration) SessionResultStore {
	if cache == nil {
		logger.Get().Warn("SessionResultStore initialized with nil cache. Results will not survive a re-render.")
		return &noopSessionResultStore{}
	}
	return &sessionResultStoreImpl{
		cache: cache,
		ttl:   ttl,
	}
}

func (s *sessionResultStoreImpl) generateKey(sessionID string) string {
	return cache.GenerateCacheKey("session", "result", sessionID)
}

func (s *sessionResultStoreImpl) Put(ctx context.Context, sessionID string, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot store nil result")
	}

	key := s.generateKey(sessionID)
	dataBytes, err := json.Marshal(result)
	if err != nil {
		logger.Get().Error("Failed to marshal session result", zap.Error(err), zap.String("sessionID", sessionID))
		return domain.NewInternalError("failed to marshal session result", err)
	}

	if err := s.cache.Set(ctx, key, string(dataBytes), s.ttl); err != nil {
		logger.Get().Error("Failed to store session result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to store session result for key %s", key), err)
	}
	logger.Get().Debug("Stored session result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

// Get refreshes the TTL on a hit so an active session keeps its result.
func (s *sessionResultStoreImpl) Get(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	key := s.generateKey(sessionID)
	dataString, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrSessionResultNotFound
		}
		logger.Get().Error("Failed to get session result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get session result for key %s", key), err)
	}
	if dataString == "" {
		return nil, ErrSessionResultNotFound
	}

	var result domain.QuizResult
	if err := json.Unmarshal([]byte(dataString), &result); err != nil {
		logger.Get().Error("Failed to unmarshal session result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal session result for key %s", key), err)
	}

	if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
		logger.Get().Warn("Failed to refresh session result ttl", zap.Error(err), zap.String("key", key))
	}
	return &result, nil
}

func (s *sessionResultStoreImpl) Clear(ctx context.Context, sessionID string) error {
	key := s.generateKey(sessionID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Error("Failed to clear session result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to clear session result for key %s", key), err)
	}
	return nil
}

type noopSessionResultStore struct{}

func (s *noopSessionResultStore) Put(ctx context.Context, sessionID string, result *domain.QuizResult) error {
	return nil
}

func (s *noopSessionResultStore) Get(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	return nil, ErrSessionResultNotFound
}

func (s *noopSessionResultStore) Clear(ctx context.Context, sessionID string) error {
	return nil
}
