package controllers

import (
	"errors"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/stores/repositories"
	"hardware-distribution-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StoreController struct {
	StoreRepo repositories.StoreRepository
}

var storeFilterKeys = []string{"province", "city", "name", "active", "import_session_id"}

func (sc *StoreController) GetFilteredStoresController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid pagination parameters", "error": err.Error()})
	}

	filters := make(map[string]string)
	for _, key := range storeFilterKeys {
		if value := cleanQueryParam(params.Filters[key]); value != "" {
			filters[key] = value
		}
	}
	params.Filters = filters

	stores, total, err := sc.StoreRepo.GetFilteredStores(c.UserContext(), filters, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch filtered stores", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch filtered stores", "error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, stores, total, params))
}

func (sc *StoreController) GetStoreController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid store ID", "error": err.Error()})
	}

	store, err := sc.StoreRepo.GetStoreByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrStoreNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Store not found"})
		}
		config.Logger.Error("Failed to fetch store", zap.String("store_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch store", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Store retrieved", "data": store})
}
