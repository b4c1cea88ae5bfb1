package controllers

import (
	"context"
	"errors"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/users/repositories"
	"hardware-distribution-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressInitializer seeds achievement progress for a new user.
type ProgressInitializer interface {
	InitializeUserProgress(ctx context.Context, userID uuid.UUID) error
}

type UserController struct {
	UserRepo repositories.UserRepository
	Progress ProgressInitializer
}

type createUserRequest struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone"`
	Role      models.Role `json:"role"`
	CreatedBy string      `json:"created_by"`
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Active:    true,
		CreatedBy: req.CreatedBy,
	}
	if user.CreatedBy == "" {
		user.CreatedBy = "system"
	}

	if validationError := services.ValidateUser(&user); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error: " + validationError,
			"data":    nil,
			"error":   validationError,
		})
	}
	if validationError := services.ValidateEmail(c.UserContext(), user.Email, uc.UserRepo); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error: " + validationError,
			"data":    nil,
			"error":   validationError,
		})
	}

	created, err := uc.UserRepo.CreateUser(c.UserContext(), &user)
	if err != nil {
		config.Logger.Error("Failed to create user in database", zap.Error(err), zap.String("email", user.Email))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong while creating user in the database",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	if uc.Progress != nil {
		if err := uc.Progress.InitializeUserProgress(c.UserContext(), created.ID); err != nil {
			config.Logger.Warn("Failed to initialize achievement progress for new user",
				zap.String("userID", created.ID.String()), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    created,
	})
}

func (uc *UserController) GetAllUsersController(c *fiber.Ctx) error {
	users, err := uc.UserRepo.GetAllUsers(c.UserContext())
	if err != nil {
		config.Logger.Error("Failed to fetch users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch users",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Users retrieved",
		"data":    users,
	})
}

func (uc *UserController) RetrieveSingleUserController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
			"error":   err.Error(),
		})
	}

	user, err := uc.UserRepo.GetUserByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving user",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "User retrieved",
		"user":    user,
	})
}
