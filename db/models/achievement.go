package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AchievementType groups achievements and progress rows.
type AchievementType string

const (
	AccuracyAchievement AchievementType = "accuracy"
	VolumeAchievement   AchievementType = "volume"
	StreakAchievement   AchievementType = "streak"
	SpeedAchievement    AchievementType = "speed"
	QualityAchievement  AchievementType = "quality"
)

// AllAchievementTypes is the fixed order progress rows are created and listed in.
var AllAchievementTypes = []AchievementType{
	AccuracyAchievement,
	VolumeAchievement,
	StreakAchievement,
	SpeedAchievement,
	QualityAchievement,
}

// UserAchievementProgress holds the live counters for one (user, type) pair.
type UserAchievementProgress struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_type" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AchievementType AchievementType `gorm:"type:varchar(20);not null;uniqueIndex:idx_progress_user_type" json:"achievement_type"`

	CurrentProgress float64 `gorm:"default:0" json:"current_progress"`
	TargetProgress  float64 `gorm:"default:0" json:"target_progress"`
	Level           int     `gorm:"default:1" json:"level"`
	TotalPoints     int     `gorm:"default:0" json:"total_points"`

	LastImportAccuracy           float64 `gorm:"default:0" json:"last_import_accuracy"`
	BestAccuracy                 float64 `gorm:"default:0" json:"best_accuracy"`
	ConsecutiveSuccessfulImports int     `gorm:"default:0" json:"consecutive_successful_imports"`
	TotalImports                 int     `gorm:"default:0" json:"total_imports"`
	TotalRecordsImported         int     `gorm:"default:0" json:"total_records_imported"`
	AverageImportTime            float64 `gorm:"default:0" json:"average_import_time"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ImportAchievement is an unlocked badge. There is at most one row per
// (user, type, level).
type ImportAchievement struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_achievement_user_type_level" json:"user_id"`
	User             *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AchievementType  AchievementType `gorm:"type:varchar(20);not null;uniqueIndex:idx_achievement_user_type_level" json:"achievement_type"`
	Level            int             `gorm:"not null;uniqueIndex:idx_achievement_user_type_level" json:"level"`
	Name             string          `gorm:"not null" json:"name"`
	Description      string          `json:"description"`
	Icon             string          `json:"icon"`
	PointsAwarded    int             `json:"points_awarded"`
	CriteriaSnapshot datatypes.JSON  `json:"criteria_snapshot"`
	UnlockedAt       time.Time       `gorm:"not null" json:"unlocked_at"`
}

// ImportAccuracyMetrics is the append-only audit row for one recorded import.
type ImportAccuracyMetrics struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User               *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SessionID          string         `gorm:"index" json:"session_id"`
	FileName           string         `json:"file_name"`
	AccuracyPercentage float64        `json:"accuracy_percentage"`
	ValidRows          int            `json:"valid_rows"`
	TotalRows          int            `json:"total_rows"`
	ImportDuration     float64        `json:"import_duration"`
	QualityScore       float64        `json:"quality_score"`
	ErrorsDetected     datatypes.JSON `json:"errors_detected"`
	PointsEarned       int            `json:"points_earned"`
	Suggestions        datatypes.JSON `json:"suggestions"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (p *UserAchievementProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (a *ImportAchievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (m *ImportAccuracyMetrics) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
