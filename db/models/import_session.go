package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ImportSessionStatus string

const (
	ImportSessionActive    ImportSessionStatus = "active"
	ImportSessionCompleted ImportSessionStatus = "completed"
	ImportSessionFailed    ImportSessionStatus = "failed"
)

type FileImportStatus string

const (
	FileImportSuccess FileImportStatus = "success"
	FileImportError   FileImportStatus = "error"
)

// ImportSession is one batch upload. It is mutated while its files are being
// processed and left untouched once it reaches completed or failed.
type ImportSession struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primary_key;" json:"id"`
	Name                 string              `gorm:"not null" json:"name"`
	TotalFiles           int                 `gorm:"not null" json:"total_files"`
	ProcessedFiles       int                 `gorm:"default:0" json:"processed_files"`
	Status               ImportSessionStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	TotalRecordsImported int                 `gorm:"default:0" json:"total_records_imported"`
	UserID               *uuid.UUID          `gorm:"type:uuid;index" json:"user_id"`
	Files                []FileImportResult  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"files"`

	CreatedBy   string     `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// FileImportResult is the outcome of one file within a session.
type FileImportResult struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	SessionID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"session_id"`
	Position     int              `gorm:"not null" json:"position"`
	FileName     string           `gorm:"not null" json:"file_name"`
	TotalRows    int              `json:"total_rows"`
	ValidRows    int              `json:"valid_rows"`
	ImportedRows int              `json:"imported_rows"`
	Status       FileImportStatus `gorm:"type:varchar(20);not null" json:"status"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	Preview      datatypes.JSON   `json:"preview"`
	DurationMs   int64            `json:"duration_ms"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// StorePreview is the compact view of an imported record kept with a file result.
type StorePreview struct {
	Name     string `json:"name"`
	Province string `json:"province"`
	City     string `json:"city"`
	Status   string `json:"status"`
}

type ImportErrorType string

const (
	RowPersistErrorType ImportErrorType = "ROW_PERSIST_FAILED"
	FileParseErrorType  ImportErrorType = "FILE_PARSE_FAILED"
)

// ImportRowError records a row (or whole file) that could not be imported.
type ImportRowError struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	FileName  string          `json:"file_name"`
	RowNumber int             `json:"row_number"`
	StoreName string          `json:"store_name"`
	Reason    string          `gorm:"type:text" json:"reason"`
	ErrorType ImportErrorType `gorm:"type:varchar(30)" json:"error_type"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (s *ImportSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (f *FileImportResult) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (e *ImportRowError) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
