package routes

import (
	"hardware-distribution-backend/achievements/controllers"

	"github.com/gofiber/fiber/v2"
)

func AchievementRouterInit(app *fiber.App, engine controllers.AchievementService) {
	achievementController := &controllers.AchievementController{
		Engine: engine,
	}

	achievementRoutes := app.Group("/api/achievements")
	{
		achievementRoutes.Post("/metrics", achievementController.RecordImportMetricsController)
		achievementRoutes.Post("/:userId/progress", achievementController.InitializeProgressController)
		achievementRoutes.Get("/:userId", achievementController.GetUserAchievementsController)
	}
}
