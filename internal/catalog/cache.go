package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

type Cache interface {
	Get(ctx context.Context) ([]domain.CatalogEntity, error)
	Set(ctx context.Context, entities []domain.CatalogEntity) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
