package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/mail"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/subscription"
)

var (
	webhookConfig  *config.Config
	webhookService *subscription.Service
	webhookMailer  *mail.Mailer
)

// InitializeWebhookController wires the reconciler dependencies.
func InitializeWebhookController(cfg *config.Config, svc *subscription.Service, mailer *mail.Mailer) {
	webhookConfig = cfg
	webhookService = svc
	webhookMailer = mailer
}

// HandleGumroadWebhook processes one payment webhook delivery: verify,
// record, reconcile, notify, respond. Signature failures reject before any
// mutation; notification failures never fail the request.
func HandleGumroadWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := firstHeaderValue(c, "X-Gumroad-Signature", "X-Signature")
	eventID := firstHeaderValue(c, "X-Gumroad-Delivery", "X-Webhook-ID")

	if !webhookService.VerifySignature(rawBody, signature) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := webhookService.RecordEvent(ctx, eventID, rawBody, signature != "")
	if err != nil {
		log.Printf("webhook event persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true, "tenant_id": stored.TenantSlug})
	}

	payload := subscription.ParsePayload(c.Get(fiber.HeaderContentType), rawBody)

	tenant, err := webhookService.Reconcile(ctx, payload)
	if err != nil {
		_ = webhookService.MarkProcessed(ctx, stored.ID, "", err)
		if errors.Is(err, repository.ErrStorageUnavailable) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_unavailable"})
		}
		log.Printf("webhook reconcile failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reconcile_failed"})
	}
	_ = webhookService.MarkProcessed(ctx, stored.ID, tenant.Slug, nil)

	// The chat path caches the active gate; drop it so the new state is
	// visible immediately.
	if err := gateCacheDel(activeGateCacheKey(tenant.Slug)); err != nil {
		log.Printf("failed to invalidate active gate for %s: %v", tenant.Slug, err)
	}

	provisionURL := fmt.Sprintf("%s/t/%s", webhookConfig.PublicBaseURL, tenant.Slug)
	embedSnippet := embedScriptSnippet(webhookConfig, tenant.Slug)

	go notifyTenant(tenant, provisionURL, embedSnippet)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":            true,
		"tenant_id":     tenant.Slug,
		"active":        tenant.Subscription.Active,
		"provision_url": provisionURL,
		"embed_instructions": fiber.Map{
			"script": embedSnippet,
			"notes":  "Add this script to your site to display the chat widget.",
		},
	})
}

func notifyTenant(tenant *models.Tenant, provisionURL, embedSnippet string) {
	if err := webhookMailer.SendOnboarding(tenant, provisionURL, embedSnippet); err != nil {
		log.Printf("onboarding mail for tenant %s failed: %v", tenant.Slug, err)
	}
}

func embedScriptSnippet(cfg *config.Config, tenantSlug string) string {
	return fmt.Sprintf("<script src='%s/static/embed.js' data-tenant='%s'></script>", cfg.PublicBaseURL, tenantSlug)
}
