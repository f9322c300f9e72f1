package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"firstaid-progress-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog content from a backing store (e.g. Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.CatalogData, error)
}

// SnapshotKey holds the JSON encoded catalog shared by every instance.
const SnapshotKey = "catalog:snapshot"

// CatalogRepository caches the catalog snapshot in Redis and falls back to a
// loader on cache miss. It also satisfies CatalogLoader so an in-process cache
// can sit on top of it.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	data, err := r.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(data), nil
}

func (r *CatalogRepository) LoadCatalog(ctx context.Context) (domain.CatalogData, error) {
	if data, ok := r.cached(ctx); ok {
		return data, nil
	}

	result, err, _ := r.sf.Do(SnapshotKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, ok := r.cached(ctx); ok {
			return data, nil
		}

		data, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.CatalogData{}, err
		}

		raw, err := json.Marshal(data)
		if err == nil {
			// best-effort: a failed write only costs another load
			_ = r.client.Set(ctx, SnapshotKey, raw, r.ttlWithJitter()).Err()
		}
		return data, nil
	})
	if err != nil {
		return domain.CatalogData{}, err
	}
	return result.(domain.CatalogData), nil
}

// Invalidate removes the shared snapshot, e.g. after seeding new content.
func (r *CatalogRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, SnapshotKey).Err()
}

func (r *CatalogRepository) cached(ctx context.Context) (domain.CatalogData, bool) {
	raw, err := r.client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		return domain.CatalogData{}, false
	}
	var data domain.CatalogData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.CatalogData{}, false
	}
	return data, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
