package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	QuizID    string    `json:"quiz_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"not null"`
	Order     int       `json:"order" gorm:"not null"` // zero-based, dense within a quiz
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
