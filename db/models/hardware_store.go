package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HardwareStore is a distributor outlet in the network. Rows are created by the
// bulk import pipeline and maintained afterwards through the catalog screens.
type HardwareStore struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	StoreCode string    `gorm:"not null;index" json:"store_code"`
	Name      string    `gorm:"not null;index" json:"name"`

	// Location
	Address  string `json:"address"`
	City     string `gorm:"not null;default:'Unknown';index" json:"city"`
	Province string `gorm:"not null;default:'Unknown';index" json:"province"`

	// Contact
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`

	// Commercial
	CreditLimit decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"credit_limit"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	// Import provenance
	ImportSessionID *uuid.UUID   `gorm:"type:uuid;index" json:"import_session_id"`
	AddedVia        AddedViaType `gorm:"type:varchar(20)" json:"added_via"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type AddedViaType string

const (
	SingleAddedViaType AddedViaType = "Single"
	BulkAddedViaType   AddedViaType = "Bulk"
)

// StatusLabel is the short status shown in import previews.
func (s *HardwareStore) StatusLabel() string {
	if s.IsActive {
		return "active"
	}
	return "inactive"
}

func (s *HardwareStore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
