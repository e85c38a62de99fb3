package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Role       string `json:"role" binding:"required"`
	ReferralID *uint  `json:"referral_id" binding:"omitempty"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register обрабатывает запрос на регистрацию
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.RegisterUser(service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		ReferralID: req.ReferralID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Registration successful"
	if user.Role == entity.RoleTeacher {
		// Учитель сразу получает свой реферальный идентификатор для раздачи студентам
		message = fmt.Sprintf("Registration successful! Your referral ID is: %d", user.ID)
	}

	c.JSON(http.StatusCreated, dto.NewAuthResponse(user, token, message))
}

// Login обрабатывает запрос на вход
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(user, token, ""))
}

// Me возвращает профиль текущего пользователя
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
