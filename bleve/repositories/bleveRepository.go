package repositories

import (
	"context"

	bleveindex "hardware-distribution-backend/bleve/services"
	"hardware-distribution-backend/db/models"

	"github.com/blevesearch/bleve/v2"
)

type BleveRepository struct {
	indexer bleveindex.IndexingServiceInterface
}

type BleveRepositoryInterface interface {
	// General
	DeleteAllIndices(ctx context.Context) error

	// ==== Store Indexing ====
	IndexStore(store models.HardwareStore) error
	IndexExistingStores(stores []models.HardwareStore) error
	DeleteStore(storeID string) error
	SearchStores(filters StoreSearchFilters) (*bleve.SearchResult, error)
}

// Constructor returning both the struct and the interface
func NewBleveRepository(indexer bleveindex.IndexingServiceInterface) (*BleveRepository, BleveRepositoryInterface) {
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}

func (r *BleveRepository) DeleteAllIndices(ctx context.Context) error {
	return r.indexer.DeleteAllIndices()
}
