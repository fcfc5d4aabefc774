package backend

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

const catalogKey = "services"

// ServiceLister источник каталога услуг
type ServiceLister interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// CachedCatalog кеширует каталог услуг на ttl.
// Concurrent misses share one backend request.
type CachedCatalog struct {
	source ServiceLister
	cache  *expirable.LRU[string, []domain.Service]
	group  singleflight.Group
}

// NewCachedCatalog создает кеширующий каталог
func NewCachedCatalog(source ServiceLister, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		source: source,
		cache:  expirable.NewLRU[string, []domain.Service](1, nil, ttl),
	}
}

// ListServices возвращает каталог из кеша или из backend
func (c *CachedCatalog) ListServices(ctx context.Context) ([]domain.Service, error) {
	if services, ok := c.cache.Get(catalogKey); ok {
		return cloneServices(services), nil
	}

	v, err, _ := c.group.Do(catalogKey, func() (interface{}, error) {
		services, err := c.source.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(catalogKey, services)
		return services, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneServices(v.([]domain.Service)), nil
}

// Invalidate сбрасывает кеш
func (c *CachedCatalog) Invalidate() {
	c.cache.Purge()
}

func cloneServices(services []domain.Service) []domain.Service {
	return append([]domain.Service(nil), services...)
}
