package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
	"github.com/yourusername/eduquiz-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации, входа и реферальной привязки
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // "student", "teacher" или "admin"; пустое значение = student

	// ReferralID — id учителя, к которому привязывается студент.
	// Проверяется строго: должен указывать на существующего пользователя с ролью teacher.
	ReferralID *uint
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", apperrors.ErrValidation)
	}
	if input.Role == "" {
		input.Role = entity.RoleStudent
	}
	if !entity.IsValidRole(input.Role) {
		return nil, "", fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, input.Role)
	}

	// Проверяем, существует ли пользователь с таким email.
	// Уникальный индекс по email закрывает гонку между проверкой и вставкой.
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}

	// Реферальная привязка имеет смысл только для студентов
	var referredBy *uint
	if input.Role == entity.RoleStudent && input.ReferralID != nil {
		teacher, err := s.userRepo.GetByID(*input.ReferralID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, "", fmt.Errorf("%w: referral id does not match any teacher", apperrors.ErrValidation)
			}
			return nil, "", fmt.Errorf("failed to resolve referral id: %w", err)
		}
		if !teacher.IsTeacher() {
			return nil, "", fmt.Errorf("%w: referral id does not match any teacher", apperrors.ErrValidation)
		}
		referredBy = &teacher.ID
	}

	user := &entity.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password, // хешируется в хуке BeforeSave
		Role:       input.Role,
		ReferredBy: referredBy,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// RegisterStudentByCode регистрирует студента по реферальному коду учителя
func (s *AuthService) RegisterStudentByCode(name, email, password, referralCode string) (*entity.User, string, error) {
	referralCode = strings.TrimSpace(referralCode)
	if referralCode == "" {
		return nil, "", fmt.Errorf("%w: referral code is required", apperrors.ErrValidation)
	}

	teacher, err := s.userRepo.GetByReferralCode(referralCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid referral code", apperrors.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if !teacher.IsTeacher() {
		return nil, "", fmt.Errorf("%w: invalid referral code", apperrors.ErrNotFound)
	}

	return s.RegisterUser(RegisterInput{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       entity.RoleStudent,
		ReferralID: &teacher.ID,
	})
}

// Login аутентифицирует пользователя и выпускает токен.
// Ошибка не различает "email не найден" и "неверный пароль".
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetUserByID возвращает пользователя для текущего запроса
func (s *AuthService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// GenerateReferralCode лениво выдаёт учителю уникальный реферальный код.
// Повторный вызов возвращает существующий код, не генерируя новый.
func (s *AuthService) GenerateReferralCode(teacherID uint) (string, error) {
	teacher, err := s.userRepo.GetByID(teacherID)
	if err != nil {
		return "", err
	}
	if !teacher.IsTeacher() {
		return "", fmt.Errorf("%w: only teachers can have referral codes", apperrors.ErrForbidden)
	}

	if teacher.ReferralCode != nil && *teacher.ReferralCode != "" {
		return *teacher.ReferralCode, nil
	}

	code := buildReferralCode(teacher.Name)
	if err := s.userRepo.SetReferralCode(teacher.ID, code); err != nil {
		return "", fmt.Errorf("failed to save referral code: %w", err)
	}

	log.Printf("[AuthService] Сгенерирован реферальный код для учителя ID=%d", teacher.ID)
	return code, nil
}

// buildReferralCode строит код вида "abc-1a2b3c": префикс из имени + суффикс из uuid
func buildReferralCode(name string) string {
	prefix := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "ref"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return prefix + "-" + suffix
}

// normalizeEmail приводит email к нижнему регистру — сравнение всегда case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
