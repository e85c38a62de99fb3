package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
)

// ============================================================================
// Моки репозиториев для unit-тестов сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(code string) (*entity.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) SetReferralCode(userID uint, code string) error {
	args := m.Called(userID, code)
	return args.Error(0)
}

func (m *MockUserRepository) List(limit, offset int) ([]entity.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) ListStudentsByTeacher(teacherID uint) ([]entity.User, error) {
	args := m.Called(teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockQuizRepository реализует repository.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetWithQuestions(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ReplaceContent(quiz *entity.Quiz, questions []entity.Question) error {
	args := m.Called(quiz, questions)
	return args.Error(0)
}

func (m *MockQuizRepository) ListByCreator(creatorID uint) ([]entity.Quiz, error) {
	args := m.Called(creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetDailyBySubjectAndDate(subject string, day time.Time) (*entity.Quiz, error) {
	args := m.Called(subject, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockAttemptRepository реализует repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(attempt *entity.Attempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(id uint) (*entity.Attempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(userID uint) ([]entity.Attempt, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListAll() ([]entity.Attempt, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) SumScoresByUserIDs(userIDs []uint) ([]repository.UserScoreTotal, error) {
	args := m.Called(userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserScoreTotal), args.Error(1)
}

func (m *MockAttemptRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAttemptRepository) DeleteByUserID(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockQuestionGenerator реализует QuestionGenerator
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, subject string, count int) ([]entity.Question, error) {
	args := m.Called(ctx, subject, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}
