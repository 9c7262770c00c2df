package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"photoquiz/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPlay(t *testing.T) (*gorm.DB, *PlayService, *models.Quiz, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	author := createTestUser(t, db, "tara")
	player := createTestUser(t, db, "uma")

	quizzes := NewQuizService(db, &fakeImageStore{})
	results := NewResultService(db)
	play := &PlayService{
		quizzes:  quizzes,
		results:  results,
		sessions: newMemSessionStore(),
	}

	req := &CreateQuizRequest{
		Title: "Pets",
		Questions: []CreateQuestionRequest{
			{Text: "Cat or Dog?", Answers: []CreateAnswerRequest{{Text: "cat"}, {Text: "dog"}}},
			{Text: "Bird or Fish?", Answers: []CreateAnswerRequest{{Text: "bird"}, {Text: "fish"}}},
			{Text: "Snake or Spider?", Answers: []CreateAnswerRequest{{Text: "snake"}, {Text: "spider"}}},
		},
	}
	quiz, err := quizzes.CreateQuiz(context.Background(), author.ID, req, nil)
	require.NoError(t, err)

	return db, play, quiz, player
}

func TestPlay_FullWalkthrough(t *testing.T) {
	ctx := context.Background()
	db, play, quiz, player := setupPlay(t)

	state, err := play.Start(ctx, player.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, quiz.Questions[0].ID, state.Question.ID)
	assert.Empty(t, state.Selected)

	// Advancing without a selection is rejected.
	_, _, err = play.Next(ctx, player.ID, state.SessionID)
	assert.ErrorIs(t, err, ErrInvalid)

	selections := map[string]string{}
	for i := 0; i < 3; i++ {
		q := quiz.Questions[i]
		picked := q.Answers[i%2].ID
		selections[q.ID] = picked

		state, err = play.Select(ctx, player.ID, state.SessionID, q.ID, picked)
		require.NoError(t, err)
		assert.Equal(t, picked, state.Selected)

		next, result, err := play.Next(ctx, player.ID, state.SessionID)
		require.NoError(t, err)

		if i < 2 {
			require.Nil(t, result)
			assert.Equal(t, i+1, next.Index)
			state = next
			continue
		}

		// Last question: Next submits and closes the session.
		require.Nil(t, next)
		require.NotNil(t, result)
		answers, err := result.AnswerMap()
		require.NoError(t, err)
		assert.Equal(t, selections, answers)
	}

	var count int64
	require.NoError(t, db.Model(&models.QuizResult{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The session is gone once the result is recorded.
	_, err = play.Get(ctx, player.ID, state.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlay_SelectionRules(t *testing.T) {
	ctx := context.Background()
	_, play, quiz, player := setupPlay(t)

	state, err := play.Start(ctx, player.ID, quiz.ID)
	require.NoError(t, err)

	q0, q1 := quiz.Questions[0], quiz.Questions[1]

	// Only the current question is selectable.
	_, err = play.Select(ctx, player.ID, state.SessionID, q1.ID, q1.Answers[0].ID)
	assert.ErrorIs(t, err, ErrInvalid)

	// The answer must belong to the question.
	_, err = play.Select(ctx, player.ID, state.SessionID, q0.ID, q1.Answers[0].ID)
	assert.ErrorIs(t, err, ErrInvalid)

	// Reselection before advancing is allowed, any number of times.
	_, err = play.Select(ctx, player.ID, state.SessionID, q0.ID, q0.Answers[0].ID)
	require.NoError(t, err)
	state, err = play.Select(ctx, player.ID, state.SessionID, q0.ID, q0.Answers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, q0.Answers[1].ID, state.Selected)
}

func TestPlay_PreviousReopensEditing(t *testing.T) {
	ctx := context.Background()
	_, play, quiz, player := setupPlay(t)

	state, err := play.Start(ctx, player.ID, quiz.ID)
	require.NoError(t, err)

	// Previous at the first question has nowhere to go.
	_, err = play.Previous(ctx, player.ID, state.SessionID)
	assert.ErrorIs(t, err, ErrInvalid)

	q0, q1 := quiz.Questions[0], quiz.Questions[1]
	_, err = play.Select(ctx, player.ID, state.SessionID, q0.ID, q0.Answers[0].ID)
	require.NoError(t, err)
	state, _, err = play.Next(ctx, player.ID, state.SessionID)
	require.NoError(t, err)
	_, err = play.Select(ctx, player.ID, state.SessionID, q1.ID, q1.Answers[0].ID)
	require.NoError(t, err)

	// Step back: question 0 becomes current again with its selection shown.
	state, err = play.Previous(ctx, player.ID, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, q0.Answers[0].ID, state.Selected)

	// Changing it keeps the later selection intact.
	_, err = play.Select(ctx, player.ID, state.SessionID, q0.ID, q0.Answers[1].ID)
	require.NoError(t, err)
	state, _, err = play.Next(ctx, player.ID, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Index)
	assert.Equal(t, q1.Answers[0].ID, state.Selected)
}

func TestPlay_FailedSubmitKeepsSession(t *testing.T) {
	ctx := context.Background()
	db, play, quiz, player := setupPlay(t)

	state, err := play.Start(ctx, player.ID, quiz.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		q := quiz.Questions[i]
		_, err = play.Select(ctx, player.ID, state.SessionID, q.ID, q.Answers[0].ID)
		require.NoError(t, err)
		state, _, err = play.Next(ctx, player.ID, state.SessionID)
		require.NoError(t, err)
	}
	last := quiz.Questions[2]
	state, err = play.Select(ctx, player.ID, state.SessionID, last.ID, last.Answers[0].ID)
	require.NoError(t, err)

	// Force the final submit to fail by making the quiz disappear under it.
	require.NoError(t, db.Where("id = ?", quiz.ID).Delete(&models.Quiz{}).Error)

	_, _, err = play.Next(ctx, player.ID, state.SessionID)
	require.Error(t, err)

	// Selections survive the failed submit so the player can retry.
	session, err := play.sessions.load(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Current)
	assert.Len(t, session.Selections, 3)
}

func TestPlay_WrongUserCannotTouchSession(t *testing.T) {
	ctx := context.Background()
	db, play, quiz, player := setupPlay(t)
	stranger := createTestUser(t, db, "vik")

	state, err := play.Start(ctx, player.ID, quiz.ID)
	require.NoError(t, err)

	_, err = play.Get(ctx, stranger.ID, state.SessionID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPlay_StartUnknownQuiz(t *testing.T) {
	ctx := context.Background()
	_, play, _, player := setupPlay(t)

	_, err := play.Start(ctx, player.ID, "missing-quiz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := &redisSessionStore{client: client}
	ctx := context.Background()

	session := &PlaySession{
		ID:         "abc",
		QuizID:     "quiz-1",
		UserID:     "user-1",
		Current:    1,
		Selections: map[string]string{"q1": "a1"},
		StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet("play:abc", data, sessionTTL).SetVal("OK")
	require.NoError(t, store.save(ctx, session))

	mock.ExpectGet("play:abc").SetVal(string(data))
	loaded, err := store.load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session, loaded)

	mock.ExpectGet("play:gone").RedisNil()
	_, err = store.load(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectDel("play:abc").SetVal(1)
	require.NoError(t, store.delete(ctx, "abc"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
