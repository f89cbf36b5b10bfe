package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Service is a read-through cached view over the catalog store. Cache
// failures are logged and fall back to the store; the storefront keeps
// serving without redis.
type Service struct {
	repo  RepoInterface
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo RepoInterface, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) ListEntities(ctx context.Context) ([]domain.CatalogEntity, error) {
	// Use singleflight to prevent multiple concurrent cache misses
	v, err, _ := s.sfg.Do(cacheKey, func() (interface{}, error) {

		entities, err := s.cache.Get(ctx)
		if err == nil {
			return entities, nil // catalog is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		entities, errList := s.repo.ListEntities(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), entities)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return entities, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.CatalogEntity), nil
}

func (s *Service) GetEntity(ctx context.Context, kind domain.Kind, id string) (*domain.CatalogEntity, error) {
	return s.repo.GetEntity(ctx, kind, id)
}

func (s *Service) CreateEntity(ctx context.Context, e *domain.CatalogEntity) error {
	if err := s.repo.CreateEntity(ctx, e); err != nil {
		return err
	}

	invalidateCache(s)
	return nil
}

func (s *Service) DeleteEntity(ctx context.Context, kind domain.Kind, id string) error {
	if err := s.repo.DeleteEntity(ctx, kind, id); err != nil {
		return err
	}

	invalidateCache(s)
	return nil
}

func invalidateCache(s *Service) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
