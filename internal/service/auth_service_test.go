package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
	"github.com/yourusername/eduquiz-api/pkg/auth"
)

func createTestAuthService(t *testing.T, userRepo *MockUserRepository) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-key", 7)
	require.NoError(t, err)
	svc, err := NewAuthService(userRepo, jwtService)
	require.NoError(t, err)
	return svc
}

func uintPtr(v uint) *uint {
	return &v
}

func TestAuthService_RegisterUser_TeacherSuccess(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "teacher@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 42
		})

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	user, token, err := authService.RegisterUser(RegisterInput{
		Name:     "Amina",
		Email:    "Teacher@Example.com",
		Password: "password123",
		Role:     entity.RoleTeacher,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "teacher@example.com", user.Email, "Email должен храниться в нижнем регистре")
	assert.Equal(t, entity.RoleTeacher, user.Role)
	assert.Nil(t, user.ReferredBy)
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	existing := &entity.User{ID: 1, Email: "existing@example.com"}
	mockUserRepo.On("GetByEmail", "existing@example.com").Return(existing, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	user, _, err := authService.RegisterUser(RegisterInput{
		Name:     "Bolat",
		Email:    "existing@example.com",
		Password: "password123",
		Role:     entity.RoleStudent,
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_StudentWithValidReferral(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	teacher := &entity.User{ID: 7, Name: "Teacher", Role: entity.RoleTeacher}

	mockUserRepo.On("GetByEmail", "student@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByID", uint(7)).Return(teacher, nil)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	user, _, err := authService.RegisterUser(RegisterInput{
		Name:       "Sara",
		Email:      "student@example.com",
		Password:   "password123",
		Role:       entity.RoleStudent,
		ReferralID: uintPtr(7),
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, uint(7), *user.ReferredBy)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_ReferralNotATeacher(t *testing.T) {
	// Arrange: referral id указывает на студента, а не на учителя
	mockUserRepo := new(MockUserRepository)
	student := &entity.User{ID: 9, Role: entity.RoleStudent}

	mockUserRepo.On("GetByEmail", "newstudent@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByID", uint(9)).Return(student, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	user, _, err := authService.RegisterUser(RegisterInput{
		Name:       "Dana",
		Email:      "newstudent@example.com",
		Password:   "password123",
		Role:       entity.RoleStudent,
		ReferralID: uintPtr(9),
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, user, "Пользователь не должен быть создан при невалидном реферале")
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterUser_ReferralNotFound(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "other@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByID", uint(404)).Return(nil, apperrors.ErrNotFound)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, _, err := authService.RegisterUser(RegisterInput{
		Name:       "Erlan",
		Email:      "other@example.com",
		Password:   "password123",
		Role:       entity.RoleStudent,
		ReferralID: uintPtr(404),
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_RegisterUser_InvalidRole(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, _, err := authService.RegisterUser(RegisterInput{
		Name:     "Kim",
		Email:    "kim@example.com",
		Password: "password123",
		Role:     "superuser",
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login_ValidCredentials(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	user := &entity.User{
		ID:       3,
		Name:     "Aliya",
		Email:    "aliya@example.com",
		Password: string(hashed),
		Role:     entity.RoleStudent,
	}
	mockUserRepo.On("GetByEmail", "aliya@example.com").Return(user, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	got, token, err := authService.Login("Aliya@Example.com", "password123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.ID)
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	user := &entity.User{ID: 3, Email: "aliya@example.com", Password: string(hashed)}
	mockUserRepo.On("GetByEmail", "aliya@example.com").Return(user, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, _, err = authService.Login("aliya@example.com", "wrongpass")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, _, err := authService.Login("ghost@example.com", "whatever")

	// Assert: ошибка неотличима от неверного пароля
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestAuthService_GenerateReferralCode_Idempotent(t *testing.T) {
	// Arrange: у учителя уже есть код
	existingCode := "ami-1a2b3c"
	mockUserRepo := new(MockUserRepository)
	teacher := &entity.User{ID: 5, Name: "Amina", Role: entity.RoleTeacher, ReferralCode: &existingCode}
	mockUserRepo.On("GetByID", uint(5)).Return(teacher, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	code, err := authService.GenerateReferralCode(5)

	// Assert: повторный вызов возвращает существующий код
	require.NoError(t, err)
	assert.Equal(t, existingCode, code)
	mockUserRepo.AssertNotCalled(t, "SetReferralCode", mock.Anything, mock.Anything)
}

func TestAuthService_GenerateReferralCode_GeneratesForTeacher(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	teacher := &entity.User{ID: 5, Name: "Amina", Role: entity.RoleTeacher}
	mockUserRepo.On("GetByID", uint(5)).Return(teacher, nil)
	mockUserRepo.On("SetReferralCode", uint(5), mock.AnythingOfType("string")).Return(nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	code, err := authService.GenerateReferralCode(5)

	// Assert
	require.NoError(t, err)
	assert.Regexp(t, `^ami-[0-9a-f]{6}$`, code)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_GenerateReferralCode_StudentForbidden(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	student := &entity.User{ID: 6, Role: entity.RoleStudent}
	mockUserRepo.On("GetByID", uint(6)).Return(student, nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, err := authService.GenerateReferralCode(6)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthService_RegisterStudentByCode_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	teacher := &entity.User{ID: 11, Name: "Teacher", Role: entity.RoleTeacher}

	mockUserRepo.On("GetByReferralCode", "tea-abc123").Return(teacher, nil)
	mockUserRepo.On("GetByEmail", "code@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByID", uint(11)).Return(teacher, nil)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	user, _, err := authService.RegisterStudentByCode("Nur", "code@example.com", "password123", "tea-abc123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, user.Role)
	require.NotNil(t, user.ReferredBy)
	assert.Equal(t, uint(11), *user.ReferredBy)
}

func TestAuthService_RegisterStudentByCode_InvalidCode(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByReferralCode", "nope").Return(nil, apperrors.ErrNotFound)

	authService := createTestAuthService(t, mockUserRepo)

	// Act
	_, _, err := authService.RegisterStudentByCode("Nur", "code@example.com", "password123", "nope")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "invalid referral code")
}
