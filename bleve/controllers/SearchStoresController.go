package controllers

import (
	"strconv"

	"hardware-distribution-backend/bleve/models"
	"hardware-distribution-backend/bleve/repositories"
	"hardware-distribution-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (c *SearchController) SearchStoresController(ctx *fiber.Ctx) error {
	filters := repositories.StoreSearchFilters{
		Query:    ctx.Query("q"),
		Province: ctx.Query("province"),
		City:     ctx.Query("city"),
		Size:     ctx.QueryInt("size", 20),
		From:     ctx.QueryInt("from", 0),
	}
	if filters.Size < 1 || filters.Size > 100 || filters.From < 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid paging values",
			"error":   "size must be between 1 and 100 and from must not be negative",
		})
	}

	if activeStr := ctx.Query("active"); activeStr != "" {
		val, err := strconv.ParseBool(activeStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid 'active' value",
				"error":   err.Error(),
			})
		}
		filters.Active = &val
	}

	results, err := c.repo.SearchStores(filters)
	if err != nil {
		config.Logger.Error("Store search failed", zap.String("q", filters.Query), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Search failed",
			"error":   err.Error(),
		})
	}

	response := models.SearchResponse{
		Hits:  make([]models.SearchHit, 0, len(results.Hits)),
		Total: results.Total,
	}
	for _, hit := range results.Hits {
		response.Hits = append(response.Hits, models.SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}
	return ctx.JSON(response)
}
