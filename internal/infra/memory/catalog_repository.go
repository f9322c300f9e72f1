package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"firstaid-progress-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog content from a backing store (Postgres, YAML file).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.CatalogData, error)
}

const catalogKey = "catalog"

// CatalogRepository caches the catalog snapshot with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu        sync.RWMutex
	cached    *domain.Catalog
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	if cat, ok := r.fresh(r.clock()); ok {
		return cat, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if cat, ok := r.fresh(now); ok {
			return cat, nil
		}

		data, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		cat := domain.NewCatalog(data)

		r.mu.Lock()
		r.cached = cat
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Catalog), nil
}

// Invalidate drops the cached snapshot so the next read reloads it.
func (r *CatalogRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func (r *CatalogRepository) fresh(now time.Time) (*domain.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached != nil && r.expiresAt.After(now) {
		return r.cached, true
	}
	return nil, false
}

// StaticCatalogLoader is a simple loader backed by in-memory data (useful for tests/demos).
type StaticCatalogLoader struct {
	data domain.CatalogData
}

func NewStaticCatalogLoader(data domain.CatalogData) *StaticCatalogLoader {
	return &StaticCatalogLoader{data: data}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) (domain.CatalogData, error) {
	return l.data, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
