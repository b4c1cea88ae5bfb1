package config

import "gorm.io/gorm"

// CreateActiveStoreCodePartialIndex keeps store codes unique among live stores
// while letting a soft-deleted store keep its old code for audit history.
func CreateActiveStoreCodePartialIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_hardware_stores_store_code_active
		ON hardware_stores (store_code)
		WHERE deleted_at IS NULL;
	`).Error
}
