package dto

import (
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту.
// Пароль не попадает в ответ ни при каких условиях.
type UserResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	ReferredBy   *uint     `json:"referred_by,omitempty"`
	ReferralCode *string   `json:"referral_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthResponse представляет ответ на регистрацию или вход
type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	Message     string        `json:"message,omitempty"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		IsAdmin:      user.IsAdmin,
		ReferredBy:   user.ReferredBy,
		ReferralCode: user.ReferralCode,
		CreatedAt:    user.CreatedAt,
	}
}

// NewAuthResponse создает DTO для ответа аутентификации
func NewAuthResponse(user *entity.User, token, message string) *AuthResponse {
	return &AuthResponse{
		User:        NewUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
		Message:     message,
	}
}

// NewListUserResponse создает список DTO пользователей
func NewListUserResponse(users []entity.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i := range users {
		out[i] = NewUserResponse(&users[i])
	}
	return out
}
