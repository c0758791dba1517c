package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SpectraMediaAI/BettyChat/app/controllers"
	"github.com/SpectraMediaAI/BettyChat/app/repository"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/database"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/llm"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/mail"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/subscription"
)

// Router installs one set of routes into the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires all controllers with their dependencies and registers
// every route group.
func InstallRouter(app *fiber.App, cfg *config.Config) {
	if repository.GetGlobalFactory() == nil {
		repository.InitializeFactory(database.GetDB())
	}
	repos := repository.GetGlobalFactory().GetRepositories()

	svc := subscription.NewService(repos.Tenant, repos.WebhookEvent, cfg.WebhookSecret)
	mailer := mail.NewMailer(cfg)
	client := llm.NewClient(cfg.LLM)

	controllers.InitializeMainController(cfg)
	controllers.InitializeWebhookController(cfg, svc, mailer)
	controllers.InitializeTenantController(cfg, repos.Tenant)
	controllers.InitializeChatController(cfg, repos.Tenant, client)

	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
