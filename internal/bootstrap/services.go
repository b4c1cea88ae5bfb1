package bootstrap

import (
	achievementRepositories "hardware-distribution-backend/achievements/repositories"
	achievementServices "hardware-distribution-backend/achievements/services"
	bleveRepositories "hardware-distribution-backend/bleve/repositories"
	bleveServices "hardware-distribution-backend/bleve/services"
	"hardware-distribution-backend/config"
	importRepositories "hardware-distribution-backend/imports/repositories"
	importServices "hardware-distribution-backend/imports/services"
	storeRepositories "hardware-distribution-backend/stores/repositories"
	userRepositories "hardware-distribution-backend/users/repositories"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is everything the server and the CLI build on top of one database.
type Services struct {
	StoreRepo       storeRepositories.StoreRepository
	ImportRepo      importRepositories.ImportRepository
	UserRepo        userRepositories.UserRepository
	AchievementRepo achievementRepositories.AchievementRepository
	Indexing        *bleveServices.IndexingService
	Search          *bleveRepositories.BleveRepository
	SearchIndex     bleveRepositories.BleveRepositoryInterface
	Engine          *achievementServices.AchievementEngine
	Pipeline        *importServices.ImportPipeline
}

// NewServices wires repositories, search and the two engines. redisClient
// and publisher may be nil; the snapshot cache and live events are then off.
func NewServices(
	db *gorm.DB,
	redisClient *redis.Client,
	publisher achievementServices.EventPublisher,
	indexPath string,
) *Services {
	s := &Services{
		StoreRepo:       storeRepositories.NewStoreRepository(db),
		ImportRepo:      importRepositories.NewImportRepository(db),
		UserRepo:        userRepositories.NewUserRepository(db),
		AchievementRepo: achievementRepositories.NewAchievementRepository(db),
		Indexing:        bleveServices.NewIndexingService(config.Logger, indexPath),
	}
	s.Search, s.SearchIndex = bleveRepositories.NewBleveRepository(s.Indexing)

	var cache achievementServices.SnapshotCache
	if redisClient != nil {
		cache = achievementServices.NewRedisSnapshotCache(redisClient, config.Logger)
	}
	s.Engine = achievementServices.NewAchievementEngine(s.AchievementRepo, cache, publisher, config.Logger)
	s.Pipeline = importServices.NewImportPipeline(s.StoreRepo, s.ImportRepo, s.Search, config.LoadImportSettings(), config.Logger)
	return s
}

func (s *Services) Close() error {
	return s.Indexing.Close()
}
