package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sale-service/internal/catalog"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/pkg/cache"
	"github.com/fekuna/omnipos-sale-service/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
	ttl    time.Duration
}

// NewCatalogUseCase wraps the catalog repository with a redis read-through
// cache for composite definitions and category membership. Product rows are
// deliberately never cached: they embed stock_on_hand and the advisory check
// should see the freshest value the read path can get. Pass a nil cache to
// run without redis.
func NewCatalogUseCase(repo catalog.Repository, c *cache.RedisClient, log logger.ZapLogger, ttl time.Duration) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  c,
		logger: log,
		ttl:    ttl,
	}
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.GetProduct(ctx, id)
}

func (uc *catalogUseCase) GetComposite(ctx context.Context, id string) (*model.Composite, error) {
	key := "catalog:composite:" + id
	if uc.cache != nil {
		var c model.Composite
		hit, err := uc.cache.GetJSON(ctx, key, &c)
		if err != nil {
			uc.logger.Warn("composite cache read failed", zap.Error(err))
		} else if hit {
			return &c, nil
		}
	}

	c, err := uc.repo.GetComposite(ctx, id)
	if err != nil {
		return nil, err
	}

	if c != nil && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, c, uc.ttl); err != nil {
			uc.logger.Warn("composite cache write failed", zap.Error(err))
		}
	}
	return c, nil
}

func (uc *catalogUseCase) ListCategoryProductIDs(ctx context.Context, categoryID, nameFilter string) ([]string, error) {
	key := fmt.Sprintf("catalog:category:%s:%x", categoryID, md5.Sum([]byte(nameFilter)))
	if uc.cache != nil {
		var ids []string
		hit, err := uc.cache.GetJSON(ctx, key, &ids)
		if err != nil {
			uc.logger.Warn("category cache read failed", zap.Error(err))
		} else if hit {
			return ids, nil
		}
	}

	ids, err := uc.repo.ListCategoryProductIDs(ctx, categoryID, nameFilter)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, ids, uc.ttl); err != nil {
			uc.logger.Warn("category cache write failed", zap.Error(err))
		}
	}
	return ids, nil
}

func (uc *catalogUseCase) PaymentMethodExists(ctx context.Context, id string) (bool, error) {
	return uc.repo.PaymentMethodExists(ctx, id)
}
