package controllers

import (
	"errors"
	"time"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		BrandName:     "Betty Immo",
		SupportEmail:  "support@spectramedia.ai",
		PublicBaseURL: "http://localhost:4000",
		LLM: config.LLMConfig{
			Model:   "gpt-4o-mini",
			Timeout: 2 * time.Second,
		},
	}
}

// stubGateCache replaces the Redis-backed gate cache with an in-memory map
// for the duration of a test.
func stubGateCache() func() {
	origGet, origSet, origDel := gateCacheGet, gateCacheSet, gateCacheDel
	store := make(map[string]string)
	gateCacheGet = func(key string) (string, error) {
		v, ok := store[key]
		if !ok {
			return "", errors.New("cache miss")
		}
		return v, nil
	}
	gateCacheSet = func(key string, value interface{}, _ time.Duration) error {
		if s, ok := value.(string); ok {
			store[key] = s
		}
		return nil
	}
	gateCacheDel = func(key string) error {
		delete(store, key)
		return nil
	}
	return func() {
		gateCacheGet, gateCacheSet, gateCacheDel = origGet, origSet, origDel
	}
}

type memTenantRepo struct {
	tenants map[string]*models.Tenant
	nextID  uint
	failAll bool
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: make(map[string]*models.Tenant), nextID: 1}
}

func (f *memTenantRepo) GetBySlug(slug string) (*models.Tenant, error) {
	if f.failAll {
		return nil, repository.ErrStorageUnavailable
	}
	t, ok := f.tenants[slug]
	if !ok {
		return nil, repository.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *memTenantRepo) Create(t *models.Tenant) error {
	if f.failAll {
		return repository.ErrStorageUnavailable
	}
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.tenants[t.Slug] = &cp
	return nil
}

func (f *memTenantRepo) Update(t *models.Tenant) error {
	if f.failAll {
		return repository.ErrStorageUnavailable
	}
	cp := *t
	f.tenants[t.Slug] = &cp
	return nil
}

func (f *memTenantRepo) Merge(slug string, partial *models.Tenant) (*models.Tenant, error) {
	current, err := f.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repository.ErrStorageUnavailable) {
			return nil, err
		}
		current = &models.Tenant{Slug: slug}
	}
	if partial.Email != "" {
		current.Email = partial.Email
	}
	if partial.FullName != "" {
		current.FullName = partial.FullName
	}
	if partial.Product != "" {
		current.Product = partial.Product
	}
	if partial.Website != "" {
		current.Website = partial.Website
	}
	if partial.Company != "" {
		current.Company = partial.Company
	}
	current.Subscription = partial.Subscription
	if partial.RawPayloadJSON != "" {
		current.RawPayloadJSON = partial.RawPayloadJSON
	}
	if current.ID == 0 {
		if err := f.Create(current); err != nil {
			return nil, err
		}
	} else if err := f.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

func (f *memTenantRepo) List(offset, limit int) ([]models.Tenant, error) { return nil, nil }
func (f *memTenantRepo) Count() (int64, error)                           { return int64(len(f.tenants)), nil }

type memEventRepo struct {
	events map[string]*models.WebhookEvent
	nextID uint
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*models.WebhookEvent), nextID: 1}
}

func (f *memEventRepo) CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		cp := *stored
		return false, &cp, nil
	}
	event.ID = f.nextID
	f.nextID++
	cp := *event
	f.events[key] = &cp
	return true, event, nil
}

func (f *memEventRepo) MarkProcessed(id uint, tenantSlug, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.TenantSlug = tenantSlug
			e.ProcessingError = processingError
		}
	}
	return nil
}
