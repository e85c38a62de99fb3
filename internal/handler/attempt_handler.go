package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// AttemptHandler обрабатывает отправку попыток, их просмотр и рейтинги
type AttemptHandler struct {
	gradingService     *service.GradingService
	leaderboardService *service.LeaderboardService
	authService        *service.AuthService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(
	gradingService *service.GradingService,
	leaderboardService *service.LeaderboardService,
	authService *service.AuthService,
) *AttemptHandler {
	return &AttemptHandler{
		gradingService:     gradingService,
		leaderboardService: leaderboardService,
		authService:        authService,
	}
}

// SubmitAttemptRequest представляет запрос на отправку ответов на квиз.
// Ответы идут в порядке вопросов квиза, пустая строка означает пропуск вопроса.
type SubmitAttemptRequest struct {
	QuizID  uint     `json:"quiz_id" binding:"required"`
	Answers []string `json:"answers" binding:"required"`
}

// SubmitAttempt оценивает ответы и записывает попытку
// POST /api/quiz/attempt/submit
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
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

// MyAttempts возвращает попытки текущего пользователя, новые первыми
// GET /api/quiz/attempts
func (h *AttemptHandler) MyAttempts(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	attempts, err := h.gradingService.ListUserAttempts(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": dto.NewListAttemptResponse(attempts)})
}

// GetAttempt возвращает попытку с разбором ответов.
// Попытка доступна её владельцу и администратору.
// GET /api/quiz/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	attemptID := c.MustGet("attemptID").(uint)

	requester, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	attempt, err := h.gradingService.GetAttempt(attemptID, requester)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

// Certificate возвращает данные для сертификата по попытке
// GET /api/quiz/attempts/:id/certificate
func (h *AttemptHandler) Certificate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	attemptID := c.MustGet("attemptID").(uint)

	requester, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	cert, err := h.gradingService.BuildCertificateData(attemptID, requester)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cert)
}

// Leaderboard возвращает рейтинг когорты студентов одного учителя.
// Учитель видит рейтинг своих студентов, студент видит рейтинг своей когорты.
// GET /api/quiz/leaderboard
func (h *AttemptHandler) Leaderboard(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	requester, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	entries, err := h.leaderboardService.ComputeLeaderboard(requester)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
