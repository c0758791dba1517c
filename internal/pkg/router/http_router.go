package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SpectraMediaAI/BettyChat/app/controllers"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", controllers.HandleHome)

	// Payment platform callbacks. Raw body is consumed in the handler, so no
	// body-parsing middleware sits in front of this route.
	app.Post("/webhooks/gumroad", controllers.HandleGumroadWebhook)

	// Hosted chat page per tenant.
	app.Get("/t/:tenantID", controllers.HandleTenantChatPage)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
