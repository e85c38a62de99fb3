package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

const (
	// MinTokenLifetimeDays и MaxTokenLifetimeDays ограничивают срок жизни токена
	MinTokenLifetimeDays = 1
	MaxTokenLifetimeDays = 30
	// DefaultTokenLifetimeDays используется, если срок не задан в конфигурации
	DefaultTokenLifetimeDays = 7
)

// JWTClaims представляет клеймы токена доступа.
// Role и IsAdmin включаются в токен, чтобы middleware не ходил в базу
// на каждом запросе; источником истины при этом остаётся запись пользователя.
type JWTClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет подписанные токены доступа (HS256)
type JWTService struct {
	secretKey []byte
	lifetime  time.Duration
}

// NewJWTService создает новый сервис JWT.
// lifetimeDays вне диапазона 1–30 заменяется значением по умолчанию.
func NewJWTService(secretKey string, lifetimeDays int) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required")
	}
	if lifetimeDays < MinTokenLifetimeDays || lifetimeDays > MaxTokenLifetimeDays {
		lifetimeDays = DefaultTokenLifetimeDays
	}
	return &JWTService{
		secretKey: []byte(secretKey),
		lifetime:  time.Duration(lifetimeDays) * 24 * time.Hour,
	}, nil
}

// GenerateToken выпускает подписанный токен для пользователя
func (s *JWTService) GenerateToken(userID uint, email, role string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает клеймы.
// Любая проблема с токеном (подпись, срок, формат) сворачивается в ErrUnauthorized —
// клиенту не сообщается, что именно не так с токеном.
func (s *JWTService) ParseToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
