package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// ReferralHandler обрабатывает запросы реферальной привязки студентов к учителям
type ReferralHandler struct {
	authService *service.AuthService
}

// NewReferralHandler создает новый обработчик рефералов
func NewReferralHandler(authService *service.AuthService) *ReferralHandler {
	return &ReferralHandler{authService: authService}
}

// RegisterStudentRequest представляет запрос на регистрацию студента по реферальному коду
type RegisterStudentRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6,max=72"`
	ReferralCode string `json:"referral_code" binding:"required"`
}

// GenerateCode выдает учителю его реферальный код (генерирует при первом запросе)
// POST /api/referral/generate-code
func (h *ReferralHandler) GenerateCode(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	code, err := h.authService.GenerateReferralCode(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral_code": code})
}

// RegisterStudent регистрирует студента по реферальному коду учителя
// POST /api/referral/register-student
func (h *ReferralHandler) RegisterStudent(c *gin.Context) {
	var req RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.RegisterStudentByCode(req.Name, req.Email, req.Password, req.ReferralCode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAuthResponse(user, token, "Registration successful"))
}
