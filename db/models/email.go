package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Recipient      string    `gorm:"not null;index" json:"recipient"`
	Subject        string    `json:"subject"`
	Message        string    `gorm:"type:text" json:"message"`
	SentAt         time.Time `json:"sent_at"`
	Active         *bool     `json:"active"`
	AttachmentPath string    `json:"attachment_path"`
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
