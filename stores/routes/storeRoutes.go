package routes

import (
	"hardware-distribution-backend/stores/controllers"
	"hardware-distribution-backend/stores/repositories"

	"github.com/gofiber/fiber/v2"
)

func StoreRouterInit(app *fiber.App, storeRepo repositories.StoreRepository) {
	storeController := &controllers.StoreController{
		StoreRepo: storeRepo,
	}

	storeRoutes := app.Group("/api/stores")
	{
		storeRoutes.Get("/", storeController.GetFilteredStoresController)
		storeRoutes.Get("/:id", storeController.GetStoreController)
	}
}
