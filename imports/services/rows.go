package services

import (
	"fmt"
	"strings"
	"time"

	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const unknownLocation = "Unknown"

// RowFilter decides which data rows are considered for import.
type RowFilter struct {
	keywords []string
}

// NewRowFilter skips rows whose first cell contains any keyword. An empty
// keyword list turns the repeated-header check off.
func NewRowFilter(keywords []string) RowFilter {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			normalized = append(normalized, k)
		}
	}
	return RowFilter{keywords: normalized}
}

// Skip reports whether a row is dropped before validation counting.
func (f RowFilter) Skip(row []string, mapping ColumnMapping) bool {
	if cellAt(row, mapping.StoreName) == "" {
		return true
	}
	first := strings.ToLower(cellAt(row, 0))
	for _, keyword := range f.keywords {
		if strings.Contains(first, keyword) {
			return true
		}
	}
	return false
}

// GenerateStoreCode returns BULK_<unix millis>_<9 random hex chars>.
func GenerateStoreCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("BULK_%d_%s", now.UnixMilli(), suffix)
}

type storeMeta struct {
	CreatedBy string
	SessionID uuid.UUID
	Now       time.Time
}

// BuildStore maps one spreadsheet row onto a new active store.
func BuildStore(row []string, mapping ColumnMapping, meta storeMeta) models.HardwareStore {
	sessionID := meta.SessionID
	return models.HardwareStore{
		StoreCode:       GenerateStoreCode(meta.Now),
		Name:            cellAt(row, mapping.StoreName),
		Province:        valueOrUnknown(cellAt(row, mapping.Province)),
		Address:         cellAt(row, mapping.Address),
		City:            valueOrUnknown(cellAt(row, mapping.City)),
		ContactPerson:   utils.NullableString(cellAt(row, mapping.ContactPerson)),
		Phone:           utils.NullableString(cellAt(row, mapping.Phone)),
		Email:           utils.NullableString(cellAt(row, mapping.Email)),
		CreditLimit:     decimal.Zero,
		IsActive:        true,
		ImportSessionID: &sessionID,
		AddedVia:        models.BulkAddedViaType,
		CreatedBy:       meta.CreatedBy,
	}
}

func valueOrUnknown(v string) string {
	if v == "" {
		return unknownLocation
	}
	return v
}

func previewOf(store models.HardwareStore) models.StorePreview {
	return models.StorePreview{
		Name:     store.Name,
		Province: store.Province,
		City:     store.City,
		Status:   store.StatusLabel(),
	}
}
