package subscription

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/identity"
)

// Service reconciles inbound payment webhooks into tenant records.
type Service struct {
	tenants       repository.TenantRepository
	events        repository.WebhookEventRepository
	webhookSecret string
}

// NewService creates a reconciler from injected repositories. An empty
// webhookSecret puts signature verification into permissive mode.
func NewService(tenants repository.TenantRepository, events repository.WebhookEventRepository, webhookSecret string) *Service {
	return &Service{
		tenants:       tenants,
		events:        events,
		webhookSecret: strings.TrimSpace(webhookSecret),
	}
}

// VerifySignature checks the delivery signature against the configured
// secret. With no secret configured every delivery passes.
func (s *Service) VerifySignature(rawBody []byte, signatureHeader string) bool {
	if s.webhookSecret == "" {
		return true
	}
	return VerifyWebhookSignature(rawBody, signatureHeader, s.webhookSecret)
}

// RecordEvent persists the delivery idempotently. Deliveries without a
// provider event id are deduplicated on a payload hash.
func (s *Service) RecordEvent(ctx context.Context, providerEventID string, rawBody []byte, signatureValid bool) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(providerEventID)
	if eventID == "" {
		sum := sha256.Sum256(rawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        models.PaymentProviderGumroad,
		ProviderEventID: eventID,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	}
	return s.events.CreateIfNotExists(event)
}

// MarkProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkProcessed(ctx context.Context, eventID uint, tenantSlug string, processingErr error) error {
	_ = ctx
	if eventID == 0 {
		return nil
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.events.MarkProcessed(eventID, tenantSlug, errMsg)
}

// Reconcile performs one webhook transition: resolve the tenant identity,
// compute the subscription state and merge everything into the stored record.
// An explicit tenant_id in the payload wins over the email-derived slug so
// out-of-band re-association keeps working.
func (s *Service) Reconcile(ctx context.Context, payload Payload) (*models.Tenant, error) {
	_ = ctx

	email := payload.String(emailKeys...)

	slug := identity.Slugify(payload.String(tenantIDKeys...))
	if slug == "" {
		hint := email
		if hint == "" {
			hint = "client"
		}
		slug = identity.ResolveTenantID(hint)
	}

	state := ComputeStatus(payload)

	// Retain the parsed payload for diagnostics; the raw bytes may be
	// form-encoded and are already archived on the webhook event row.
	rawJSON, err := json.Marshal(payload)
	if err != nil {
		rawJSON = nil
	}

	partial := &models.Tenant{
		Slug:           slug,
		Email:          email,
		FullName:       payload.String(fullNameKeys...),
		Product:        payload.String(productKeys...),
		Website:        payload.String(websiteKeys...),
		Company:        payload.String(companyKeys...),
		Subscription:   state,
		RawPayloadJSON: string(rawJSON),
	}

	return s.tenants.Merge(slug, partial)
}
