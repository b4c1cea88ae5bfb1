package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("import session not found")

type ImportRepository interface {
	CreateSession(ctx context.Context, session *models.ImportSession) error
	UpdateSession(ctx context.Context, session *models.ImportSession) error
	AppendFileResult(ctx context.Context, result *models.FileImportResult) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*models.ImportSession, error)
	GetFilteredSessions(ctx context.Context, filters SessionFilters, limit, offset int) ([]models.ImportSession, int64, error)
	LogRowErrors(ctx context.Context, rowErrors []models.ImportRowError) error
	GetRowErrors(ctx context.Context, sessionID uuid.UUID) ([]models.ImportRowError, error)
	LogEmailSent(ctx context.Context, emailLog *models.EmailLog) error
}

// SessionFilters narrows the session listing. Zero values are ignored.
type SessionFilters struct {
	Status    models.ImportSessionStatus
	CreatedBy string
	UserID    *uuid.UUID
	From      *time.Time
	To        *time.Time
}

type importRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) ImportRepository {
	return &importRepository{
		db: db,
	}
}

func (r *importRepository) CreateSession(ctx context.Context, session *models.ImportSession) error {
	if err := r.db.WithContext(ctx).Omit("Files").Create(session).Error; err != nil {
		return fmt.Errorf("create import session: %w", err)
	}
	return nil
}

// UpdateSession writes the counters and status. File results are appended
// separately and never rewritten.
func (r *importRepository) UpdateSession(ctx context.Context, session *models.ImportSession) error {
	err := r.db.WithContext(ctx).Model(&models.ImportSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"processed_files":        session.ProcessedFiles,
			"status":                 session.Status,
			"total_records_imported": session.TotalRecordsImported,
			"completed_at":           session.CompletedAt,
			"updated_at":             time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("update import session %s: %w", session.ID, err)
	}
	return nil
}

func (r *importRepository) AppendFileResult(ctx context.Context, result *models.FileImportResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("append file result %q: %w", result.FileName, err)
	}
	return nil
}

func (r *importRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.ImportSession, error) {
	var session models.ImportSession
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *importRepository) applySessionFilters(db *gorm.DB, filters SessionFilters) *gorm.DB {
	query := db.Model(&models.ImportSession{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CreatedBy != "" {
		query = query.Where("created_by ILIKE ?", "%"+filters.CreatedBy+"%")
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at < ?", *filters.To)
	}
	return query
}

// GetFilteredSessions lists sessions newest first. File results are not
// preloaded; the detail endpoint returns them.
func (r *importRepository) GetFilteredSessions(ctx context.Context, filters SessionFilters, limit, offset int) ([]models.ImportSession, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := r.applySessionFilters(db, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.ImportSession
	err := r.applySessionFilters(db, filters).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *importRepository) LogRowErrors(ctx context.Context, rowErrors []models.ImportRowError) error {
	if len(rowErrors) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(rowErrors, 100).Error; err != nil {
		return fmt.Errorf("log import row errors: %w", err)
	}
	return nil
}

func (r *importRepository) GetRowErrors(ctx context.Context, sessionID uuid.UUID) ([]models.ImportRowError, error) {
	var rowErrors []models.ImportRowError
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("file_name ASC, row_number ASC").
		Find(&rowErrors).Error
	return rowErrors, err
}

func (r *importRepository) LogEmailSent(ctx context.Context, emailLog *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(emailLog).Error
}
