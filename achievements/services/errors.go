package services

import (
	"errors"

	"hardware-distribution-backend/achievements/repositories"
)

var (
	ErrUserNotFound       = repositories.ErrUserNotFound
	ErrInvalidPerformance = errors.New("invalid import performance")
)
