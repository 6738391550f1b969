package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ideationworks/ideation-api/internal/domain"
)

type memoryCategories struct {
	items     map[string]domain.Category
	listCalls int
}

func (m *memoryCategories) Create(_ context.Context, c *domain.Category) error {
	m.items[c.ID] = *c
	return nil
}

func (m *memoryCategories) Update(_ context.Context, c *domain.Category) error {
	if _, ok := m.items[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memoryCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *memoryCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (m *memoryCategories) List(_ context.Context) ([]domain.Category, error) {
	m.listCalls++
	out := make([]domain.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedCategoryListReadThrough(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniredis(t)
	inner := &memoryCategories{items: map[string]domain.Category{"c1": {ID: "c1", Name: "Ideas"}}}
	repo := NewCachedCategoryRepository(inner, client, time.Minute, nil)

	for i := 0; i < 3; i++ {
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || list[0].Name != "Ideas" {
			t.Fatalf("unexpected list %+v", list)
		}
	}
	if inner.listCalls != 1 {
		t.Fatalf("expected a single backing read, got %d", inner.listCalls)
	}
}

func TestCachedCategoryWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	inner := &memoryCategories{items: map[string]domain.Category{}}
	repo := NewCachedCategoryRepository(inner, client, time.Minute, nil)

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !mr.Exists(categoryListKey) {
		t.Fatal("expected listing to be cached")
	}

	if err := repo.Create(ctx, &domain.Category{ID: "c2", Name: "Tools"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mr.Exists(categoryListKey) {
		t.Fatal("create should invalidate the cached listing")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected fresh listing, got %+v", list)
	}

	if err := repo.Delete(ctx, "missing"); err == nil {
		t.Fatal("expected delete of missing category to fail")
	}
	if !mr.Exists(categoryListKey) {
		t.Fatal("failed writes must not invalidate")
	}
}

func TestCachedCategoryTTLAndOutage(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	inner := &memoryCategories{items: map[string]domain.Category{"c1": {ID: "c1", Name: "Ideas"}}}
	repo := NewCachedCategoryRepository(inner, client, time.Minute, nil)

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if inner.listCalls != 2 {
		t.Fatalf("expected expired entry to be refreshed, got %d reads", inner.listCalls)
	}

	mr.Close()
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("cache outage should fall back to the store: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestCachedCategoryDisabled(t *testing.T) {
	inner := &memoryCategories{items: map[string]domain.Category{}}
	if repo := NewCachedCategoryRepository(inner, nil, time.Minute, nil); repo != CategoryRepository(inner) {
		t.Fatal("nil client should return the inner repository")
	}
}
