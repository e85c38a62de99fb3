package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// DailyQuizHandler обрабатывает запросы дневных квизов
type DailyQuizHandler struct {
	dailyQuizService *service.DailyQuizService
	gradingService   *service.GradingService
}

// NewDailyQuizHandler создает новый обработчик дневных квизов
func NewDailyQuizHandler(dailyQuizService *service.DailyQuizService, gradingService *service.GradingService) *DailyQuizHandler {
	return &DailyQuizHandler{
		dailyQuizService: dailyQuizService,
		gradingService:   gradingService,
	}
}

// DailyQuizRequest представляет запрос дневного квиза по предмету
type DailyQuizRequest struct {
	Subject string `json:"subject" binding:"required"`
}

// GetDailyQuiz возвращает дневной квиз по предмету на сегодня,
// генерируя его при первом запросе. Ответы в выдаче скрыты.
// POST /api/dailyQuiz
func (h *DailyQuizHandler) GetDailyQuiz(c *gin.Context) {
	var req DailyQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.dailyQuizService.GetOrCreate(c.Request.Context(), req.Subject)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, false))
}

// Subjects возвращает список предметов дневных квизов
// GET /api/dailyQuiz/subjects
func (h *DailyQuizHandler) Subjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subjects": service.DailyQuizSubjects})
}

// SubmitDailyQuiz оценивает ответы на дневной квиз и записывает попытку.
// Оценка идет тем же конвейером, что и для авторских квизов.
// POST /api/dailyQuiz/submit
func (h *DailyQuizHandler) SubmitDailyQuiz(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.gradingService.SubmitQuiz(userID, req.QuizID, req.Answers)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}
