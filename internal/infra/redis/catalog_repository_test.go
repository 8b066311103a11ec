package redis

import (
	"context"
	"testing"
	"time"

	"ai-readiness-service/internal/catalog"
	"ai-readiness-service/internal/domain"
	"ai-readiness-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(map[string]domain.Catalog{
			catalog.BuiltinID: catalog.Builtin(),
		}),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	cat, err := repo.GetCatalog(context.Background(), catalog.BuiltinID)
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(cat.QuestionKeys()) != 11 {
		t.Fatalf("expected 11 questions, got %d", len(cat.QuestionKeys()))
	}

	// Second call should hit redis, loader not incremented.
	cat, err = repo.GetCatalog(context.Background(), catalog.BuiltinID)
	if err != nil {
		t.Fatalf("get catalog again: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if _, ok := cat.Question("q6"); !ok {
		t.Fatalf("expected q6 to survive the cache round trip")
	}
}

func TestCatalogRepositoryUnknownForm(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewCatalogRepository(newClient(mr), memory.NewStaticCatalogLoader(nil), time.Minute)
	if _, err := repo.GetCatalog(context.Background(), "missing"); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog-not-found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, formID string) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx, formID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
