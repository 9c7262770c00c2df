package services

import (
	"encoding/json"
	"errors"

	"photoquiz/models"

	"gorm.io/gorm"
)

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// SaveResult persists one immutable play-through record. Partial selection
// maps are accepted and stored as-is; selections are not cross-checked
// against the quiz here (the play flow validates before it submits).
func (s *ResultService) SaveResult(userID, quizID string, answers map[string]string) (*models.QuizResult, error) {
	var count int64
	if err := s.db.Model(&models.Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	if answers == nil {
		answers = map[string]string{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	result := models.QuizResult{
		UserID:  userID,
		QuizID:  quizID,
		Answers: string(data),
	}
	if err := s.db.Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults returns the user's play history, newest-first.
func (s *ResultService) ListResults(userID string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := s.db.Where("user_id = ?", userID).
		Preload("Quiz").
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

// GetResult returns one result. Ownership is not disclosed: someone else's
// result id behaves like an unknown one.
func (s *ResultService) GetResult(resultID, userID string) (*models.QuizResult, error) {
	var result models.QuizResult
	err := s.db.Where("id = ? AND user_id = ?", resultID, userID).
		Preload("Quiz").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}
