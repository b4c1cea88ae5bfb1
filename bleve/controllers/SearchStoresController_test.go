package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hardware-distribution-backend/bleve/models"
	"hardware-distribution-backend/bleve/repositories"
	bleveindex "hardware-distribution-backend/bleve/services"
	dbmodels "hardware-distribution-backend/db/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchStoresController(t *testing.T) {
	indexer := bleveindex.NewIndexingService(nil, "")
	defer indexer.Close()
	_, repo := repositories.NewBleveRepository(indexer)
	require.NoError(t, repo.IndexExistingStores([]dbmodels.HardwareStore{
		{ID: uuid.New(), StoreCode: "BULK_1", Name: "Northern Hardware", Province: "Limpopo", City: "Polokwane", IsActive: true},
		{ID: uuid.New(), StoreCode: "BULK_2", Name: "Southern Hardware", Province: "Western Cape", City: "George", IsActive: false},
	}))

	app := fiber.New()
	mountSearchRoutes(app, NewSearchController(repo))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stores?q=hardware&active=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out models.SearchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, uint64(1), out.Total)
	require.Len(t, out.Hits, 1)
	assert.Equal(t, "Northern Hardware", out.Hits[0].Fields["name"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stores?active=maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stores?size=0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func mountSearchRoutes(app *fiber.App, c *SearchController) {
	app.Get("/stores", c.SearchStoresController)
}
