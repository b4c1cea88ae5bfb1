package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/stores/repositories"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreRepo struct {
	stores      []models.HardwareStore
	lastFilters map[string]string
	lastLimit   int
	lastOffset  int
}

func (f *fakeStoreRepo) CreateStore(ctx context.Context, store *models.HardwareStore) error {
	f.stores = append(f.stores, *store)
	return nil
}

func (f *fakeStoreRepo) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.HardwareStore, error) {
	for i := range f.stores {
		if f.stores[i].ID == id {
			return &f.stores[i], nil
		}
	}
	return nil, repositories.ErrStoreNotFound
}

func (f *fakeStoreRepo) GetFilteredStores(ctx context.Context, filters map[string]string, limit, offset int) ([]models.HardwareStore, int64, error) {
	f.lastFilters, f.lastLimit, f.lastOffset = filters, limit, offset
	return f.stores, int64(len(f.stores)), nil
}

func (f *fakeStoreRepo) GetAllStores(ctx context.Context) ([]models.HardwareStore, error) {
	return f.stores, nil
}

func newStoreApp(repo repositories.StoreRepository) *fiber.App {
	app := fiber.New()
	sc := &StoreController{StoreRepo: repo}
	app.Get("/stores", sc.GetFilteredStoresController)
	app.Get("/stores/:id", sc.GetStoreController)
	return app
}

func TestGetFilteredStoresKeepsKnownFilters(t *testing.T) {
	repo := &fakeStoreRepo{stores: []models.HardwareStore{{ID: uuid.New(), Name: gofakeit.Company()}}}
	app := newStoreApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stores?page=2&page_size=5&province=Gauteng&city=null&color=red", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, map[string]string{"province": "Gauteng"}, repo.lastFilters)
	assert.Equal(t, 5, repo.lastLimit)
	assert.Equal(t, 5, repo.lastOffset)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stores?page_size=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetStore(t *testing.T) {
	store := models.HardwareStore{ID: uuid.New(), Name: "Masvingo Hardware", StoreCode: "BULK_1"}
	app := newStoreApp(&fakeStoreRepo{stores: []models.HardwareStore{store}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stores/"+store.ID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data models.HardwareStore `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Masvingo Hardware", body.Data.Name)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stores/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stores/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
