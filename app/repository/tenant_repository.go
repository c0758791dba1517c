package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"gorm.io/gorm"
)

type gormTenantRepository struct {
	db    *gorm.DB
	locks *slugLocks
}

// NewTenantRepository creates a tenant repository backed by GORM.
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &gormTenantRepository{
		db:    db,
		locks: newSlugLocks(),
	}
}

func (r *gormTenantRepository) GetBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("slug = ?", slug).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, storageErr(err)
	}
	return &tenant, nil
}

func (r *gormTenantRepository) Create(tenant *models.Tenant) error {
	if err := r.db.Create(tenant).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *gormTenantRepository) Update(tenant *models.Tenant) error {
	if err := r.db.Save(tenant).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *gormTenantRepository) Merge(slug string, partial *models.Tenant) (*models.Tenant, error) {
	unlock := r.locks.lock(slug)
	defer unlock()

	current, err := r.GetBySlug(slug)
	if err != nil {
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
		current = &models.Tenant{Slug: slug}
	}

	overlayTenant(current, partial)

	if current.ID == 0 {
		if err := r.Create(current); err != nil {
			return nil, err
		}
		return current, nil
	}
	if err := r.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}

func (r *gormTenantRepository) List(offset, limit int) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&tenants).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return tenants, nil
}

func (r *gormTenantRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Tenant{}).Count(&count).Error; err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

// overlayTenant applies the merge contract: non-empty contact and product
// fields from src win, absent fields keep their stored value. The
// subscription snapshot and raw payload always move forward because every
// delivery recomputes them.
func overlayTenant(dst, src *models.Tenant) {
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.FullName != "" {
		dst.FullName = src.FullName
	}
	if src.Product != "" {
		dst.Product = src.Product
	}
	if src.Website != "" {
		dst.Website = src.Website
	}
	if src.Company != "" {
		dst.Company = src.Company
	}
	dst.Subscription = src.Subscription
	if src.RawPayloadJSON != "" {
		dst.RawPayloadJSON = src.RawPayloadJSON
	}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// slugLocks serializes read-merge-write cycles per tenant slug so concurrent
// deliveries for the same tenant cannot lose updates.
type slugLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newSlugLocks() *slugLocks {
	return &slugLocks{m: make(map[string]*sync.Mutex)}
}

func (l *slugLocks) lock(slug string) func() {
	l.mu.Lock()
	keyMu, ok := l.m[slug]
	if !ok {
		keyMu = &sync.Mutex{}
		l.m[slug] = keyMu
	}
	l.mu.Unlock()

	keyMu.Lock()
	return keyMu.Unlock
}
