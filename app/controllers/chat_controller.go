package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/cache"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/llm"
)

const activeGateCacheTTL = 60 * time.Second

var (
	chatConfig   *config.Config
	chatRepo     repository.TenantRepository
	chatClient   *llm.Client
	chatValidate = validator.New()
)

// Gate cache access is indirected so tests can stub Redis out.
var (
	gateCacheGet = cache.Get
	gateCacheSet = cache.Set
	gateCacheDel = cache.Delete
)

// ChatRequest is the inbound chat message body.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// InitializeChatController wires the chat proxy dependencies.
func InitializeChatController(cfg *config.Config, repo repository.TenantRepository, client *llm.Client) {
	chatConfig = cfg
	chatRepo = repo
	chatClient = client
}

func activeGateCacheKey(slug string) string {
	return "tenant:active:" + slug
}

// HandleTenantChat proxies one chat message to the language model for an
// active tenant. Inactive tenants get a payment-required response before the
// model is ever invoked; model failures degrade to a canned reply.
func HandleTenantChat(c *fiber.Ctx) error {
	slug := c.Params("tenantID")

	// Cached inactive gate short-circuits without touching storage.
	if gate, err := gateCacheGet(activeGateCacheKey(slug)); err == nil && gate == "0" {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "subscription_inactive"})
	}

	tenant, err := chatRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown_tenant"})
		}
		log.Printf("tenant lookup failed for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	gate := "1"
	if !tenant.Subscription.Active {
		gate = "0"
	}
	if err := gateCacheSet(activeGateCacheKey(slug), gate, activeGateCacheTTL); err != nil {
		log.Printf("failed to cache active gate for %s: %v", slug, err)
	}

	if !tenant.Subscription.Active {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "subscription_inactive"})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body"})
	}
	if err := chatValidate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "message is required"})
	}

	messageID := uuid.NewString()

	if !chatClient.Configured() {
		reply := fmt.Sprintf("Hello, this is %s. How can I help you? (Demo mode - configure OPENAI_API_KEY for richer replies.)", chatConfig.BrandName)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"reply": reply, "message_id": messageID, "demo": true})
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatConfig.LLM.Timeout)
	defer cancel()

	reply, err := chatClient.ChatCompletion(ctx, systemPrompt(tenant), req.Message)
	if err != nil {
		log.Printf("chat completion for tenant %s failed: %v", slug, err)
		reply = fmt.Sprintf("Thank you for your message. The %s team will get back to you shortly.", chatConfig.BrandName)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"reply": reply, "message_id": messageID, "fallback": true})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"reply": reply, "message_id": messageID})
}

func systemPrompt(tenant *models.Tenant) string {
	prompt := fmt.Sprintf("You are %s, the assistant for a real-estate website. Answer concisely and helpfully.", chatConfig.BrandName)
	if tenant.Company != "" {
		prompt += fmt.Sprintf(" You are answering on behalf of %s.", tenant.Company)
	}
	if tenant.Website != "" {
		prompt += fmt.Sprintf(" Their website is %s.", tenant.Website)
	}
	return prompt
}
