package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
)

var mainConfig *config.Config

// InitializeMainController wires the configuration into the status endpoint.
func InitializeMainController(cfg *config.Config) {
	mainConfig = cfg
}

// HandleHome reports service liveness.
func HandleHome(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"brand":   mainConfig.BrandName,
		"message": mainConfig.BrandName + " service up",
	})
}
