package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideationworks/ideation-api/internal/domain"
	"github.com/ideationworks/ideation-api/internal/repository"
)

type memoryUsers struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryCategoryStore struct {
	items   map[string]*domain.Category
	lookups int
}

func newMemoryCategoryStore() *memoryCategoryStore {
	return &memoryCategoryStore{items: map[string]*domain.Category{}}
}

func (m *memoryCategoryStore) Create(_ context.Context, c *domain.Category) error {
	for _, existing := range m.items {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	stored := *c
	m.items[c.ID] = &stored
	return nil
}

func (m *memoryCategoryStore) Update(_ context.Context, c *domain.Category) error {
	if _, ok := m.items[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range m.items {
		if id != c.ID && existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	stored := *c
	m.items[c.ID] = &stored
	return nil
}

func (m *memoryCategoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, c := range m.items {
		if c.ParentID != nil && *c.ParentID == id {
			return repository.ErrReferenceMissing
		}
	}
	delete(m.items, id)
	return nil
}

func (m *memoryCategoryStore) GetByID(_ context.Context, id string) (*domain.Category, error) {
	m.lookups++
	c, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (m *memoryCategoryStore) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memoryOrganizations struct {
	items  map[string]*domain.Organization
	owners map[string]bool
	nextID int
}

func newMemoryOrganizations(owners ...string) *memoryOrganizations {
	m := &memoryOrganizations{items: map[string]*domain.Organization{}, owners: map[string]bool{}}
	for _, o := range owners {
		m.owners[o] = true
	}
	return m
}

func (m *memoryOrganizations) Create(_ context.Context, org *domain.Organization) error {
	if !m.owners[org.OwnerID] {
		return repository.ErrReferenceMissing
	}
	m.nextID++
	org.ID = fmt.Sprintf("org-%d", m.nextID)
	stored := *org
	m.items[org.ID] = &stored
	return nil
}

func (m *memoryOrganizations) Update(_ context.Context, org *domain.Organization) error {
	if _, ok := m.items[org.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *org
	m.items[org.ID] = &stored
	return nil
}

func (m *memoryOrganizations) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *memoryOrganizations) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	org, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *org
	return &copied, nil
}

func (m *memoryOrganizations) List(_ context.Context) ([]domain.Organization, error) {
	out := make([]domain.Organization, 0, len(m.items))
	for _, org := range m.items {
		out = append(out, *org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
