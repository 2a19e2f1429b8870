package routes

import (
	"github.com/gofiber/fiber/v2"

	"ads-activity-tracker/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, syncController controller.SyncController) {
	app.Post("/sync", syncController.TriggerSync)
	app.Get("/runs", syncController.ListRuns)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
