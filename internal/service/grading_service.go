package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// GradingService — единственная точка оценивания попыток.
// Все пути сдачи (авторский квиз, дневной квиз, быстрый квиз с дашборда)
// проходят через GradeAndRecord; разрешение буквенных кодов ответов
// выполняется только здесь (через entity.Question).
type GradingService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	userRepo    repository.UserRepository
}

// NewGradingService создает новый сервис оценивания
func NewGradingService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
) *GradingService {
	return &GradingService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		userRepo:    userRepo,
	}
}

// GradeAndRecord оценивает ответы против квиза и сохраняет неизменяемую попытку.
// Ответы сопоставляются с вопросами по индексу; длины обязаны совпадать.
// В попытку записывается снапшот (текст вопроса, выбранный и правильный варианты),
// поэтому последующее редактирование или удаление квиза не меняет историю.
func (s *GradingService) GradeAndRecord(user *entity.User, quiz *entity.Quiz, submitted []string) (*entity.Attempt, error) {
	if user == nil || quiz == nil {
		return nil, fmt.Errorf("%w: user and quiz are required", apperrors.ErrValidation)
	}
	if len(submitted) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d",
			apperrors.ErrValidation, len(quiz.Questions), len(submitted))
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", apperrors.ErrValidation)
	}

	answers := make(entity.AttemptAnswers, len(quiz.Questions))
	score := 0
	for i, q := range quiz.Questions {
		selected := strings.TrimSpace(submitted[i])
		isCorrect := q.IsCorrect(selected)
		if selected == "" {
			// Неотвеченный вопрос фиксируется сентинелом и всегда неверен
			selected = entity.NotAnsweredSentinel
			isCorrect = false
		}
		if isCorrect {
			score++
		}
		answers[i] = entity.AttemptAnswer{
			Question:  q.Text,
			Selected:  selected,
			Correct:   q.CanonicalAnswer(),
			IsCorrect: isCorrect,
		}
	}

	total := len(quiz.Questions)
	attempt := &entity.Attempt{
		UserID:       user.ID,
		Username:     user.Name,
		QuizID:       quiz.ID,
		QuizType:     quiz.QuizType(),
		Answers:      answers,
		Score:        score,
		Total:        total,
		CorrectCount: score,
		WrongCount:   total - score,
		SubmittedAt:  time.Now(),
	}

	// Ошибка сохранения возвращается вызывающему: счёт никогда не "выдумывается"
	// без записанной попытки. Повтор сдачи безопасен — дубликат попытки лишь
	// ещё одна историческая запись.
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	log.Printf("[GradingService] Попытка записана: user=%d quiz=%d score=%d/%d",
		user.ID, quiz.ID, score, total)
	return attempt, nil
}

// SubmitQuiz загружает пользователя и квиз и оценивает ответы.
// Общая точка входа для всех HTTP-путей сдачи.
func (s *GradingService) SubmitQuiz(userID, quizID uint, submitted []string) (*entity.Attempt, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrValidation)
		}
		return nil, err
	}

	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: quiz not found", apperrors.ErrValidation)
		}
		return nil, err
	}

	return s.GradeAndRecord(user, quiz, submitted)
}

// ListUserAttempts возвращает попытки пользователя, новые первыми
func (s *GradingService) ListUserAttempts(userID uint) ([]entity.Attempt, error) {
	return s.attemptRepo.ListByUser(userID)
}

// GetAttempt возвращает попытку её владельцу или администратору
func (s *GradingService) GetAttempt(attemptID uint, requester *entity.User) (*entity.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != requester.ID && !requester.IsAdmin {
		return nil, fmt.Errorf("%w: attempt belongs to another user", apperrors.ErrForbidden)
	}
	return attempt, nil
}

// CertificateData — данные для внешнего рендера PDF-сертификата
type CertificateData struct {
	StudentName   string `json:"student_name"`
	QuizName      string `json:"quiz_name"`
	ObtainedMarks int    `json:"obtained_marks"`
	TotalMarks    int    `json:"total_marks"`
}

// BuildCertificateData собирает полезную нагрузку сертификата по попытке.
// Если квиз уже удалён, именем служит тип квиза — сертификат остаётся доступным.
func (s *GradingService) BuildCertificateData(attemptID uint, requester *entity.User) (*CertificateData, error) {
	attempt, err := s.GetAttempt(attemptID, requester)
	if err != nil {
		return nil, err
	}

	quizName := attempt.QuizType + " quiz"
	if quiz, err := s.quizRepo.GetByID(attempt.QuizID); err == nil {
		quizName = quiz.Title
	}

	return &CertificateData{
		StudentName:   attempt.Username,
		QuizName:      quizName,
		ObtainedMarks: attempt.Score,
		TotalMarks:    attempt.Total,
	}, nil
}
