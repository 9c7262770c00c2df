package handlers

import (
	"net/http"

	"photoquiz/services"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	resultService *services.ResultService
}

func NewResultHandler(resultService *services.ResultService) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
	}
}

type saveResultRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// SaveResult records a play-through submitted directly by the client
// (the play flow submits through the play service instead).
func (h *ResultHandler) SaveResult(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req saveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.resultService.SaveResult(userID, c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	results, err := h.resultService.ListResults(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ResultHandler) GetResult(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetResult(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	answers, err := result.AnswerMap()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "answers": answers})
}
