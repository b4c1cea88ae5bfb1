package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser restores a soft-deleted user with the same email instead of
// failing on the unique index.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	db := r.db.WithContext(ctx)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existing models.User
	err := db.Unscoped().Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		if !existing.DeletedAt.Valid {
			return nil, fmt.Errorf("a user with email %s already exists", user.Email)
		}
		existing.DeletedAt = gorm.DeletedAt{}
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.Phone = user.Phone
		existing.Role = user.Role
		existing.Active = user.Active
		existing.CreatedBy = user.CreatedBy
		if err := db.Unscoped().Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to restore soft-deleted user: %w", err)
		}
		return &existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, err
}
