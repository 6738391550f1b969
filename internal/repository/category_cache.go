package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ideationworks/ideation-api/internal/domain"
)

const categoryListKey = "categories:list"

type cachedCategoryRepository struct {
	CategoryRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCategoryRepository wraps next with a read-through Redis cache for
// List. Writes invalidate the cached listing. Redis failures are logged and
// fall back to next. A nil client or non-positive ttl disables caching.
func NewCachedCategoryRepository(next CategoryRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) CategoryRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedCategoryRepository{CategoryRepository: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	raw, err := r.client.Get(ctx, categoryListKey).Bytes()
	switch {
	case err == nil:
		var cached []domain.Category
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		r.logger.Warn("discarding unreadable category cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("category cache read failed", zap.Error(err))
	}

	categories, err := r.CategoryRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(categories)
	if err != nil {
		return categories, nil
	}
	if err := r.client.Set(ctx, categoryListKey, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (r *cachedCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.CategoryRepository.Create(ctx, category); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := r.CategoryRepository.Update(ctx, category); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedCategoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.CategoryRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedCategoryRepository) invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, categoryListKey).Err(); err != nil {
		r.logger.Warn("category cache invalidation failed", zap.Error(err))
	}
}
