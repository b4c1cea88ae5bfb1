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

var ErrStoreNotFound = errors.New("hardware store not found")

type StoreRepository interface {
	CreateStore(ctx context.Context, store *models.HardwareStore) error
	GetStoreByID(ctx context.Context, id uuid.UUID) (*models.HardwareStore, error)
	GetFilteredStores(ctx context.Context, filters map[string]string, limit, offset int) ([]models.HardwareStore, int64, error)
	GetAllStores(ctx context.Context) ([]models.HardwareStore, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{
		db: db,
	}
}

// CreateStore inserts a single store. Each imported row is its own write so
// one failing row never takes its neighbours down with it.
func (r *storeRepository) CreateStore(ctx context.Context, store *models.HardwareStore) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return fmt.Errorf("create store %q: %w", store.Name, err)
	}
	return nil
}

func (r *storeRepository) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.HardwareStore, error) {
	var store models.HardwareStore
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetAllStores(ctx context.Context) ([]models.HardwareStore, error) {
	var stores []models.HardwareStore
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// storesQueryBuilder builds queries for store filtering
type storesQueryBuilder struct {
	query   *gorm.DB
	filters map[string]string
}

func newStoresQueryBuilder(db *gorm.DB, filters map[string]string) *storesQueryBuilder {
	return &storesQueryBuilder{
		query:   db.Model(&models.HardwareStore{}),
		filters: filters,
	}
}

func (sqb *storesQueryBuilder) applyBasicFilters() *storesQueryBuilder {
	if province, ok := sqb.filters["province"]; ok {
		sqb.query = sqb.query.Where("province ILIKE ?", province)
	}
	if city, ok := sqb.filters["city"]; ok {
		sqb.query = sqb.query.Where("city ILIKE ?", city)
	}
	if name, ok := sqb.filters["name"]; ok {
		sqb.query = sqb.query.Where("name ILIKE ?", "%"+name+"%")
	}
	if active, ok := sqb.filters["active"]; ok {
		switch strings.ToLower(active) {
		case "true":
			sqb.query = sqb.query.Where("is_active = ?", true)
		case "false":
			sqb.query = sqb.query.Where("is_active = ?", false)
		}
	}
	if sessionID, ok := sqb.filters["import_session_id"]; ok {
		sqb.query = sqb.query.Where("import_session_id = ?", sessionID)
	}
	return sqb
}

func (sqb *storesQueryBuilder) applyLatestOrder() *storesQueryBuilder {
	sqb.query = sqb.query.Order("created_at DESC").Order("name ASC")
	return sqb
}

// GetFilteredStores returns filtered stores with pagination
func (r *storeRepository) GetFilteredStores(ctx context.Context, filters map[string]string, limit, offset int) ([]models.HardwareStore, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := newStoresQueryBuilder(db, filters).applyBasicFilters().query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stores []models.HardwareStore
	err := newStoresQueryBuilder(db, filters).applyBasicFilters().applyLatestOrder().query.
		Limit(limit).Offset(offset).Find(&stores).Error
	if err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}
