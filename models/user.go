package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-"` // empty for users created via an external provider
	Provider     string    `json:"provider,omitempty"`
	ProviderID   string    `json:"-" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Quizzes []Quiz       `json:"quizzes,omitempty" gorm:"foreignKey:AuthorID"`
	Results []QuizResult `json:"results,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
