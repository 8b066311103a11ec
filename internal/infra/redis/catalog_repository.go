package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"ai-readiness-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog content from a backing store (e.g. Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, formID string) (domain.Catalog, error)
}

// CatalogRepository caches the JSON-encoded catalog per form in Redis and
// falls back to a loader on cache miss: GET/SET form:catalog:{formID}.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, formID string) (domain.Catalog, error) {
	if cat, ok := r.cached(ctx, formID); ok {
		return cat, nil
	}

	result, err, _ := r.sf.Do(formID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cat, ok := r.cached(ctx, formID); ok {
			return cat, nil
		}

		cat, err := r.loader.LoadCatalog(ctx, formID)
		if err != nil {
			return domain.Catalog{}, err
		}

		if raw, err := json.Marshal(cat); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, r.key(formID), raw, r.ttlWithJitter()).Err()
		}
		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context, formID string) (domain.Catalog, bool) {
	raw, err := r.client.Get(ctx, r.key(formID)).Bytes()
	if err != nil {
		return domain.Catalog{}, false
	}
	var cat domain.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return domain.Catalog{}, false
	}
	return cat, true
}

func (r *CatalogRepository) key(formID string) string {
	return "form:catalog:" + formID
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
