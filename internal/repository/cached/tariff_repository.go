package cached

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/metrics"
	"github.com/frontandrew/parkir/internal/pkg/redis"
	"github.com/frontandrew/parkir/internal/repository"
)

const (
	tariffCacheKey = "tariff:current"
	tariffCacheTTL = 10 * time.Minute
)

// Cache - операции Redis, которые нужны кэшируемым репозиториям
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// TariffRepository добавляет кэширование к tariff repository.
// Ошибки Redis не ломают чтение: запрос уходит в PostgreSQL
type TariffRepository struct {
	repo   repository.TariffRepository
	cache  Cache
	logger logger.Logger
}

// NewTariffRepository создает новый кэшируемый tariff repository
func NewTariffRepository(repo repository.TariffRepository, cache Cache, log logger.Logger) *TariffRepository {
	return &TariffRepository{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Get возвращает тариф из кэша, при промахе читает БД и кладет результат в кэш
func (r *TariffRepository) Get(ctx context.Context) (*domain.Tariff, error) {
	var cached domain.Tariff
	err := r.cache.GetJSON(ctx, tariffCacheKey, &cached)
	if err == nil {
		metrics.TariffCacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	}

	if errors.Is(err, redis.ErrCacheMiss) {
		metrics.TariffCacheLookups.WithLabelValues("miss").Inc()
	} else {
		metrics.TariffCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("tariff cache read failed", map[string]interface{}{
			"error": err,
		})
	}

	tariff, err := r.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, tariffCacheKey, tariff, tariffCacheTTL); err != nil {
		r.logger.Warn("tariff cache write failed", map[string]interface{}{
			"error": err,
		})
	}

	return tariff, nil
}

// Update сохраняет тариф и сбрасывает кэш
func (r *TariffRepository) Update(ctx context.Context, tariff *domain.Tariff) error {
	if err := r.repo.Update(ctx, tariff); err != nil {
		return err
	}

	delErr := r.cache.Del(ctx, tariffCacheKey)
	if delErr == nil {
		return nil
	}

	// Не удалось удалить ключ - перезаписываем его новым тарифом
	if err := r.cache.SetJSON(ctx, tariffCacheKey, tariff, tariffCacheTTL); err != nil {
		r.logger.Error("tariff cache invalidation failed", map[string]interface{}{
			"del_error": delErr,
			"set_error": err,
			"stale_ttl": tariffCacheTTL.String(),
		})
		return nil
	}

	r.logger.Warn("tariff cache overwritten after failed delete", map[string]interface{}{
		"error": delErr,
	})

	return nil
}

var _ repository.TariffRepository = (*TariffRepository)(nil)
