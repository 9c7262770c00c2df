package handlers

import (
	"net/http"

	"photoquiz/services"

	"github.com/gin-gonic/gin"
)

type PlayHandler struct {
	playService *services.PlayService
}

func NewPlayHandler(playService *services.PlayService) *PlayHandler {
	return &PlayHandler{
		playService: playService,
	}
}

func (h *PlayHandler) StartPlay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	state, err := h.playService.Start(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

func (h *PlayHandler) GetPlay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	state, err := h.playService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

type selectAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	AnswerID   string `json:"answer_id" binding:"required"`
}

func (h *PlayHandler) SelectAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req selectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.playService.Select(c.Request.Context(), userID, c.Param("id"), req.QuestionID, req.AnswerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// NextQuestion advances the session. On the last question it submits the
// play-through instead and responds with the recorded result.
func (h *PlayHandler) NextQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	state, result, err := h.playService.Next(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if result != nil {
		c.JSON(http.StatusCreated, gin.H{"done": true, "result": result})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *PlayHandler) PreviousQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	state, err := h.playService.Previous(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
