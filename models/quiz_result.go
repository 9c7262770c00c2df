package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizResult is one append-only record of a user's selections for a single
// play-through. The question→answer map is stored serialized so partial
// maps survive round-trips unchanged.
type QuizResult struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	QuizID    string    `json:"quiz_id" gorm:"not null;index"`
	Answers   string    `json:"answers" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Quiz Quiz `json:"quiz,omitempty"`
}

func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AnswerMap deserializes the stored question→answer selections.
func (r *QuizResult) AnswerMap() (map[string]string, error) {
	answers := make(map[string]string)
	if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
