package controllers

import (
	"context"
	"errors"

	"hardware-distribution-backend/achievements/services"
	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AchievementService is the part of the engine the HTTP layer uses.
type AchievementService interface {
	RecordImportMetrics(ctx context.Context, userID uuid.UUID, sessionID, fileName string, perf models.ImportPerformance) (*services.RecordResult, error)
	InitializeUserProgress(ctx context.Context, userID uuid.UUID) error
	GetUserAchievements(ctx context.Context, userID uuid.UUID) (*services.AchievementSnapshot, error)
}

type AchievementController struct {
	Engine AchievementService
}

type RecordMetricsRequest struct {
	UserID      string                   `json:"userId"`
	SessionID   string                   `json:"sessionId"`
	FileName    string                   `json:"fileName"`
	Performance models.ImportPerformance `json:"performance"`
}

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("userId"))
}

func (ac *AchievementController) engineError(c *fiber.Ctx, userID uuid.UUID, message string, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found", "error": err.Error()})
	case errors.Is(err, services.ErrInvalidPerformance):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid performance data", "error": err.Error()})
	}
	config.Logger.Error(message, zap.String("user_id", userID.String()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": message, "error": err.Error()})
}

func (ac *AchievementController) GetUserAchievementsController(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID", "error": err.Error()})
	}

	snapshot, err := ac.Engine.GetUserAchievements(c.UserContext(), userID)
	if err != nil {
		return ac.engineError(c, userID, "Failed to retrieve achievements", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Achievements retrieved",
		"data":    snapshot,
	})
}

func (ac *AchievementController) RecordImportMetricsController(c *fiber.Ctx) error {
	var req RecordMetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body", "error": err.Error()})
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID", "error": err.Error()})
	}
	if req.FileName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "fileName is required"})
	}

	ctx := c.UserContext()
	result, err := ac.Engine.RecordImportMetrics(ctx, userID, req.SessionID, req.FileName, req.Performance)
	if err != nil {
		return ac.engineError(c, userID, "Failed to record import metrics", err)
	}

	snapshot, err := ac.Engine.GetUserAchievements(ctx, userID)
	if err != nil {
		return ac.engineError(c, userID, "Failed to retrieve achievements", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":         "Import metrics recorded",
		"data":            snapshot,
		"pointsEarned":    result.PointsEarned,
		"suggestions":     result.Suggestions,
		"newAchievements": result.NewAchievements,
	})
}

func (ac *AchievementController) InitializeProgressController(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID", "error": err.Error()})
	}

	if err := ac.Engine.InitializeUserProgress(c.UserContext(), userID); err != nil {
		return ac.engineError(c, userID, "Failed to initialize progress", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Progress initialized"})
}
