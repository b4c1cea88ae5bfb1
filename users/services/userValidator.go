package services

import (
	"context"
	"regexp"
	"strings"

	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/users/repositories"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func ValidateUser(user *models.User) string {
	if strings.TrimSpace(user.FirstName) == "" {
		return "FirstName is required"
	}
	if strings.TrimSpace(user.LastName) == "" {
		return "LastName is required"
	}
	if strings.TrimSpace(user.Email) == "" {
		return "Email is required"
	}
	switch user.Role {
	case models.AdminRole, models.ImportClerkRole, models.SalesManagerRole:
	default:
		return "Invalid role"
	}
	return ""
}

func ValidateEmailFormat(email string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

func ValidateEmail(ctx context.Context, email string, repo repositories.UserRepository) string {
	if !ValidateEmailFormat(email) {
		return "Invalid email format"
	}
	if user, err := repo.GetUserByEmail(ctx, email); err == nil && user != nil {
		return "Email already exists"
	}
	return ""
}
