package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"photoquiz/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 2 * time.Hour

// PlaySession is the dynamic state of one play-through. The quiz tree
// itself stays in the database (it is immutable once authored); the
// session only tracks position and selections.
type PlaySession struct {
	ID         string            `json:"id"`
	QuizID     string            `json:"quiz_id"`
	UserID     string            `json:"user_id"`
	Current    int               `json:"current"`
	Selections map[string]string `json:"selections"`
	StartedAt  time.Time         `json:"started_at"`
}

// PlayState is what the player sees: the current question and progress.
type PlayState struct {
	SessionID string        `json:"session_id"`
	QuizID    string        `json:"quiz_id"`
	Title     string        `json:"title"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Question  *PlayQuestion `json:"question"`
	Selected  string        `json:"selected,omitempty"` // answer id picked for the current question
}

type PlayQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Answers []PlayAnswer `json:"answers"`
}

type PlayAnswer struct {
	ID       string `json:"id"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url"`
}

type sessionStore interface {
	save(ctx context.Context, s *PlaySession) error
	load(ctx context.Context, id string) (*PlaySession, error)
	delete(ctx context.Context, id string) error
}

type PlayService struct {
	quizzes  *QuizService
	results  *ResultService
	sessions sessionStore
}

func NewPlayService(quizzes *QuizService, results *ResultService, client *redis.Client) *PlayService {
	return &PlayService{
		quizzes:  quizzes,
		results:  results,
		sessions: &redisSessionStore{client: client},
	}
}

// Start fetches the quiz and opens a session at its first question.
func (s *PlayService) Start(ctx context.Context, userID, quizID string) (*PlayState, error) {
	quiz, err := s.quizzes.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", ErrInvalid)
	}

	session := &PlaySession{
		ID:         uuid.NewString(),
		QuizID:     quizID,
		UserID:     userID,
		Current:    0,
		Selections: map[string]string{},
		StartedAt:  time.Now(),
	}
	if err := s.sessions.save(ctx, session); err != nil {
		return nil, err
	}
	return stateFor(session, quiz), nil
}

// Get returns the session's current question and progress.
func (s *PlayService) Get(ctx context.Context, userID, sessionID string) (*PlayState, error) {
	session, quiz, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return stateFor(session, quiz), nil
}

// Select records (or replaces) the selection for the current question.
// Both identifiers must belong to the quiz being played.
func (s *PlayService) Select(ctx context.Context, userID, sessionID, questionID, answerID string) (*PlayState, error) {
	session, quiz, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	question := quiz.Questions[session.Current]
	if question.ID != questionID {
		return nil, fmt.Errorf("%w: only the current question can be answered", ErrInvalid)
	}
	if !hasAnswer(question, answerID) {
		return nil, fmt.Errorf("%w: answer does not belong to the question", ErrInvalid)
	}

	session.Selections[questionID] = answerID
	if err := s.sessions.save(ctx, session); err != nil {
		return nil, err
	}
	return stateFor(session, quiz), nil
}

// Next advances to the following question; a selection for the current one
// is required. On the last question it submits the selection map instead:
// the saved result is returned, the session is closed, and on a failed
// submit the session is left at the last question with every selection
// intact so the player can retry.
func (s *PlayService) Next(ctx context.Context, userID, sessionID string) (*PlayState, *models.QuizResult, error) {
	session, quiz, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	current := quiz.Questions[session.Current]
	if _, ok := session.Selections[current.ID]; !ok {
		return nil, nil, fmt.Errorf("%w: select an answer before continuing", ErrInvalid)
	}

	if session.Current == len(quiz.Questions)-1 {
		result, err := s.results.SaveResult(userID, session.QuizID, session.Selections)
		if err != nil {
			return nil, nil, err
		}
		if err := s.sessions.delete(ctx, session.ID); err != nil {
			// The result is already durable; a leftover session only costs its TTL.
			log.Printf("failed to delete play session %s: %v", session.ID, err)
		}
		return nil, result, nil
	}

	session.Current++
	if err := s.sessions.save(ctx, session); err != nil {
		return nil, nil, err
	}
	return stateFor(session, quiz), nil, nil
}

// Previous steps back one question. Revisiting re-enables editing that
// question's selection; later selections are kept.
func (s *PlayService) Previous(ctx context.Context, userID, sessionID string) (*PlayState, error) {
	session, quiz, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Current == 0 {
		return nil, fmt.Errorf("%w: already at the first question", ErrInvalid)
	}

	session.Current--
	if err := s.sessions.save(ctx, session); err != nil {
		return nil, err
	}
	return stateFor(session, quiz), nil
}

func (s *PlayService) loadSession(ctx context.Context, userID, sessionID string) (*PlaySession, *models.Quiz, error) {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != userID {
		return nil, nil, ErrForbidden
	}

	quiz, err := s.quizzes.GetQuizByID(session.QuizID)
	if err != nil {
		return nil, nil, err
	}
	if session.Current < 0 || session.Current >= len(quiz.Questions) {
		return nil, nil, fmt.Errorf("session %s is out of range for quiz %s", session.ID, quiz.ID)
	}
	return session, quiz, nil
}

func stateFor(session *PlaySession, quiz *models.Quiz) *PlayState {
	question := quiz.Questions[session.Current]

	answers := make([]PlayAnswer, 0, len(question.Answers))
	for _, a := range question.Answers {
		answers = append(answers, PlayAnswer{
			ID:       a.ID,
			Text:     a.Text,
			ImageURL: a.ImageURL,
		})
	}

	return &PlayState{
		SessionID: session.ID,
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Index:     session.Current,
		Total:     len(quiz.Questions),
		Question: &PlayQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Answers: answers,
		},
		Selected: session.Selections[question.ID],
	}
}

func hasAnswer(q models.Question, answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

// redisSessionStore keeps play sessions in Redis under play:<id> with a
// sliding TTL.
type redisSessionStore struct {
	client *redis.Client
}

func sessionKey(id string) string { return "play:" + id }

func (r *redisSessionStore) save(ctx context.Context, s *PlaySession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(s.ID), data, sessionTTL).Err()
}

func (r *redisSessionStore) load(ctx context.Context, id string) (*PlaySession, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var session PlaySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisSessionStore) delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}
