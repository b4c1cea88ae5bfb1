package router

import (
	"hardware-distribution-backend/users/controllers"
	"hardware-distribution-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(app *fiber.App, userRepo repositories.UserRepository, progress controllers.ProgressInitializer) {
	userController := &controllers.UserController{
		UserRepo: userRepo,
		Progress: progress,
	}

	userRoutes := app.Group("/api/v1/users")
	{
		userRoutes.Get("/", userController.GetAllUsersController)
		userRoutes.Post("/", userController.CreateUser)
		userRoutes.Get("/:id", userController.RetrieveSingleUserController)
	}
}
