package seeds

import (
	"context"
	"errors"
	"fmt"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressInitializer creates achievement progress rows for a user.
type ProgressInitializer interface {
	InitializeUserProgress(ctx context.Context, userID uuid.UUID) error
}

func defaultUsers() []models.User {
	return []models.User{
		{
			FirstName: "System",
			LastName:  "Administrator",
			Email:     "admin@hardware-distribution.local",
			Phone:     stringPtr("+263242200001"),
			Role:      models.AdminRole,
			Active:    true,
			CreatedBy: "system",
		},
		{
			FirstName: "Import",
			LastName:  "Clerk",
			Email:     "imports@hardware-distribution.local",
			Phone:     stringPtr("+263242200002"),
			Role:      models.ImportClerkRole,
			Active:    true,
			CreatedBy: "system",
		},
		{
			FirstName: "Regional",
			LastName:  "Sales Manager",
			Email:     "sales@hardware-distribution.local",
			Phone:     stringPtr("+263242200003"),
			Role:      models.SalesManagerRole,
			Active:    true,
			CreatedBy: "system",
		},
	}
}

// SeedDefaultUsers creates the back-office users that are missing and
// returns every default user, new or existing.
func SeedDefaultUsers(db *gorm.DB) ([]models.User, error) {
	config.Logger.Info("Starting default users seeding...")

	var seeded []models.User
	createdCount := 0
	for _, user := range defaultUsers() {
		var existing models.User
		result := db.Where("email = ?", user.Email).First(&existing)
		if result.Error == nil {
			seeded = append(seeded, existing)
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error checking for user %s: %w", user.Email, result.Error)
		}

		if err := db.Create(&user).Error; err != nil {
			config.Logger.Error("Failed to create user",
				zap.String("email", user.Email),
				zap.Error(err))
			return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
		}
		createdCount++
		seeded = append(seeded, user)
		config.Logger.Info("Created default user",
			zap.String("name", user.FullName()),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)))
	}

	config.Logger.Info("Default users seeding completed", zap.Int("created", createdCount))
	return seeded, nil
}

// SeedAll seeds users and gives each of them a full set of progress rows.
func SeedAll(ctx context.Context, db *gorm.DB, progress ProgressInitializer) error {
	config.Logger.Info("Starting database seeding...")

	users, err := SeedDefaultUsers(db)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	for _, user := range users {
		if err := progress.InitializeUserProgress(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to initialize progress for %s: %w", user.Email, err)
		}
	}

	config.Logger.Info("All database seeding completed successfully")
	return nil
}

func stringPtr(s string) *string {
	return &s
}
