package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
)

var (
	tenantConfig *config.Config
	tenantRepo   repository.TenantRepository
)

// InitializeTenantController wires the tenant repository.
func InitializeTenantController(cfg *config.Config, repo repository.TenantRepository) {
	tenantConfig = cfg
	tenantRepo = repo
}

// HandleGetTenantAPI returns the stored tenant record by slug.
func HandleGetTenantAPI(c *fiber.Ctx) error {
	slug := c.Params("tenantID")

	tenant, err := tenantRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown_tenant"})
		}
		log.Printf("tenant lookup failed for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.Status(fiber.StatusOK).JSON(tenant)
}

// HandleTenantChatPage renders the hosted chat page for a tenant.
func HandleTenantChatPage(c *fiber.Ctx) error {
	slug := c.Params("tenantID")

	tenant, err := tenantRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Unknown tenant")
		}
		log.Printf("tenant lookup failed for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Service unavailable")
	}

	return c.Render("tenant", fiber.Map{
		"TenantID": tenant.Slug,
		"Brand":    tenantConfig.BrandName,
		"Name":     displayName(tenant.FullName),
		"Product":  tenant.Product,
		"Active":   tenant.Subscription.Active,
	})
}
