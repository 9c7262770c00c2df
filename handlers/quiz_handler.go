package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"photoquiz/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// CreateQuiz accepts a multipart form: a "quiz" part holding the nested
// JSON payload and one file part per attached answer image, named by the
// answer's image_key.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	payload := form.Value["quiz"]
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing quiz payload"})
		return
	}

	var req services.CreateQuizRequest
	if err := json.Unmarshal([]byte(payload[0]), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed quiz payload"})
		return
	}

	images, closers, err := openImageParts(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable image upload"})
		return
	}
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), userID, &req, images)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func openImageParts(form *multipart.Form) (map[string]io.Reader, []multipart.File, error) {
	images := make(map[string]io.Reader, len(form.File))
	var closers []multipart.File
	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, nil, err
		}
		closers = append(closers, f)
		images[key] = f
	}
	return images, closers, nil
}

// GetQuizzes lists every quiz, optionally filtered by author and paginated.
func (h *QuizHandler) GetQuizzes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	quizzes, err := h.quizService.ListQuizzes(c.Query("authorId"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetMyQuizzes is the second explicit listing mode: only the caller's own.
func (h *QuizHandler) GetMyQuizzes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	quizzes, err := h.quizService.ListQuizzes(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quiz, err := h.quizService.GetQuizByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}
