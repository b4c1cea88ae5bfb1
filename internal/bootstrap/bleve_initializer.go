package bootstrap

import (
	"context"
	"fmt"

	bleveRepositories "hardware-distribution-backend/bleve/repositories"
	"hardware-distribution-backend/config"
	storeRepositories "hardware-distribution-backend/stores/repositories"

	"go.uber.org/zap"
)

// IndexBleveData rebuilds the search indexes from the database.
func IndexBleveData(
	ctx context.Context,
	storeRepo storeRepositories.StoreRepository,
	bleveRepo bleveRepositories.BleveRepositoryInterface,
) (int, error) {
	if err := bleveRepo.DeleteAllIndices(ctx); err != nil {
		return 0, fmt.Errorf("delete indices: %w", err)
	}

	stores, err := storeRepo.GetAllStores(ctx)
	if err != nil {
		config.Logger.Error("Error fetching stores for Bleve indexing", zap.Error(err))
		return 0, err
	}
	if err := bleveRepo.IndexExistingStores(stores); err != nil {
		config.Logger.Error("Failed to index stores into Bleve", zap.Error(err))
		return 0, err
	}

	config.Logger.Info("Bleve store index rebuilt", zap.Int("stores", len(stores)))
	return len(stores), nil
}
