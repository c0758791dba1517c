package repository

import (
	"errors"

	"github.com/SpectraMediaAI/BettyChat/app/models"
)

// Storage error kinds. ErrTenantNotFound means the key has no record;
// ErrStorageUnavailable wraps any persistence-layer I/O failure so callers
// can fail the request definitively instead of guessing.
var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TenantRepository defines the interface for tenant record storage.
type TenantRepository interface {
	GetBySlug(slug string) (*models.Tenant, error)
	Create(tenant *models.Tenant) error
	Update(tenant *models.Tenant) error
	// Merge overlays partial onto the stored record for slug (creating it when
	// absent) and persists the result as one logical step. Merges for the same
	// slug are serialized.
	Merge(slug string, partial *models.Tenant) (*models.Tenant, error)
	List(offset, limit int) ([]models.Tenant, error)
	Count() (int64, error)
}

// WebhookEventRepository defines the interface for the webhook delivery log.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, tenantSlug, processingError string) error
}
