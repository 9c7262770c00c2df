package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	QuestionID string    `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text"`                  // optional caption
	ImageURL   string    `json:"image_url"`             // empty when the upload failed or no image was attached
	Order      int       `json:"order" gorm:"not null"` // zero-based, dense within a question
	CreatedAt  time.Time `json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
