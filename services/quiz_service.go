package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"photoquiz/models"
	"photoquiz/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type QuizService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewQuizService(db *gorm.DB, images storage.ImageStore) *QuizService {
	return &QuizService{db: db, images: images}
}

// CreateQuizRequest is the nested authoring payload. Question and answer
// order is the array order; answers reference their uploaded file by the
// multipart part name in ImageKey.
type CreateQuizRequest struct {
	Title     string                  `json:"title"`
	Questions []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Text    string                `json:"text"`
	Answers []CreateAnswerRequest `json:"answers"`
}

type CreateAnswerRequest struct {
	Text     string `json:"text"`
	ImageKey string `json:"image_key"`
}

func (r *CreateQuizRequest) validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len(r.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalid)
	}
	for i, q := range r.Questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalid, i)
		}
		if len(q.Answers) < 2 {
			return fmt.Errorf("%w: question %d needs at least two answers", ErrInvalid, i)
		}
	}
	return nil
}

// CreateQuiz uploads every attached answer image, then persists the whole
// quiz tree in one transaction so readers never observe a partial graph.
// A failed upload leaves that answer's image URL empty instead of aborting
// the quiz; if persistence fails afterwards the already-uploaded images are
// orphaned (accepted, not reconciled).
func (s *QuizService) CreateQuiz(ctx context.Context, authorID string, req *CreateQuizRequest, images map[string]io.Reader) (*models.Quiz, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	urls := s.uploadImages(ctx, req, images)

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quiz := models.Quiz{
		Title:    req.Title,
		AuthorID: authorID,
	}
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, qReq := range req.Questions {
		question := models.Question{
			QuizID: quiz.ID,
			Text:   qReq.Text,
			Order:  i,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for j, aReq := range qReq.Answers {
			answer := models.Answer{
				QuestionID: question.ID,
				Text:       aReq.Text,
				ImageURL:   urls[aReq.ImageKey],
				Order:      j,
			}
			if err := tx.Create(&answer).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Fetch the quiz with questions and answers loaded
	return s.GetQuizByID(quiz.ID)
}

// uploadImages pushes every referenced image to the store concurrently.
// Distinct answers have no required upload order. Failures are logged and
// reported as an empty URL for that key.
func (s *QuizService) uploadImages(ctx context.Context, req *CreateQuizRequest, images map[string]io.Reader) map[string]string {
	type result struct {
		key string
		url string
	}

	var keys []string
	for _, q := range req.Questions {
		for _, a := range q.Answers {
			if a.ImageKey == "" {
				continue
			}
			if _, ok := images[a.ImageKey]; !ok {
				continue
			}
			keys = append(keys, a.ImageKey)
		}
	}

	results := make(chan result, len(keys))
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string, r io.Reader) {
			defer wg.Done()
			url, err := s.images.Upload(ctx, uuid.NewString(), r)
			if err != nil {
				log.Printf("image upload failed for %q: %v", key, err)
				url = ""
			}
			results <- result{key: key, url: url}
		}(key, images[key])
	}
	wg.Wait()
	close(results)

	urls := make(map[string]string, len(keys))
	for res := range results {
		urls[res.key] = res.url
	}
	return urls
}

// GetQuizByID returns one quiz with its author and its ordered
// question/answer tree.
func (s *QuizService) GetQuizByID(quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ?", quizID).
		Preload("Author").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order(`answers."order"`)
		}).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ListQuizzes returns quizzes newest-first, optionally filtered by author.
// limit/offset paginate; a non-positive limit falls back to the default.
func (s *QuizService) ListQuizzes(authorID string, limit, offset int) ([]models.Quiz, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Quiz{})
	if authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}

	var quizzes []models.Quiz
	err := query.
		Preload("Author").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order(`answers."order"`)
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quizzes).Error
	return quizzes, err
}
