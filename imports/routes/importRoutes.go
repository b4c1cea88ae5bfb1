package routes

import (
	"hardware-distribution-backend/imports/controllers"
	"hardware-distribution-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func ImportRouterInit(app *fiber.App, importController *controllers.ImportController, uploadLimiter *middleware.RateLimiter) {
	importRoutes := app.Group("/api/imports")
	{
		if uploadLimiter != nil {
			importRoutes.Post("/bulk", uploadLimiter.Handler(), importController.BulkImportStores)
		} else {
			importRoutes.Post("/bulk", importController.BulkImportStores)
		}
		importRoutes.Get("/sessions", importController.GetFilteredSessions)
		importRoutes.Get("/sessions/:id", importController.GetImportSession)
	}
}
