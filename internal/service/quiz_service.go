package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// QuizService предоставляет методы для работы с каталогом квизов
type QuizService struct {
	quizRepo repository.QuizRepository
	userRepo repository.UserRepository
}

// NewQuizService создает новый сервис квизов
func NewQuizService(quizRepo repository.QuizRepository, userRepo repository.UserRepository) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		userRepo: userRepo,
	}
}

// QuestionInput — входные данные одного вопроса при создании/редактировании квиза
type QuestionInput struct {
	Text    string
	Options []string
	Answer  string
}

// validateQuestions проверяет инварианты вопросов на пути создания учителем:
// ровно 4 различных непустых варианта, канонический ответ равен одному из них.
// Буквенные коды допускаются только в уже сохранённом legacy/дневном контенте.
func validateQuestions(inputs []QuestionInput) ([]entity.Question, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: quiz must contain at least one question", apperrors.ErrValidation)
	}

	questions := make([]entity.Question, len(inputs))
	for i, in := range inputs {
		q := entity.Question{
			Text:     strings.TrimSpace(in.Text),
			Options:  entity.StringArray(in.Options),
			Answer:   in.Answer,
			Position: i,
		}
		if q.Text == "" {
			return nil, fmt.Errorf("%w: question %d has empty text", apperrors.ErrValidation, i+1)
		}
		if !q.HasValidOptions() {
			return nil, fmt.Errorf("%w: question %d must have exactly %d distinct non-empty options",
				apperrors.ErrValidation, i+1, entity.OptionsPerQuestion)
		}
		match := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				match = true
				break
			}
		}
		if !match {
			return nil, fmt.Errorf("%w: question %d answer must equal one of its options", apperrors.ErrValidation, i+1)
		}
		questions[i] = q
	}
	return questions, nil
}

// CreateQuiz создает авторский квиз учителя
func (s *QuizService) CreateQuiz(creatorID uint, title, subject string, inputs []QuestionInput) (*entity.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	questions, err := validateQuestions(inputs)
	if err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Title:     title,
		Subject:   strings.TrimSpace(subject),
		CreatedBy: &creatorID,
		Questions: questions,
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

// getOwned возвращает квиз, если он существует и принадлежит редактору.
// Несуществование и чужое владение сведены в одну ошибку ErrNotFound:
// не-владельцу не сообщается, существует ли квиз.
func (s *QuizService) getOwned(quizID, editorID uint) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: quiz not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !quiz.IsOwnedBy(editorID) {
		return nil, fmt.Errorf("%w: quiz not found", apperrors.ErrNotFound)
	}
	return quiz, nil
}

// UpdateQuiz заменяет заголовок и вопросы квиза, принадлежащего редактору
func (s *QuizService) UpdateQuiz(quizID, editorID uint, title, subject string, inputs []QuestionInput) (*entity.Quiz, error) {
	quiz, err := s.getOwned(quizID, editorID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	questions, err := validateQuestions(inputs)
	if err != nil {
		return nil, err
	}

	quiz.Title = title
	quiz.Subject = strings.TrimSpace(subject)
	if err := s.quizRepo.ReplaceContent(quiz, questions); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	return s.quizRepo.GetWithQuestions(quiz.ID)
}

// DeleteQuiz удаляет квиз, принадлежащий редактору
func (s *QuizService) DeleteQuiz(quizID, editorID uint) error {
	quiz, err := s.getOwned(quizID, editorID)
	if err != nil {
		return err
	}
	return s.quizRepo.Delete(quiz.ID)
}

// GetQuizByID возвращает квиз с вопросами и каноническими ответами.
// Вызывается только из авторизованных контекстов; перед показом формы попытки
// клиентский слой обязан скрыть ответы (DTO поддерживает усечённую форму).
func (s *QuizService) GetQuizByID(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(quizID)
}

// ListForTeacher возвращает квизы, созданные учителем
func (s *QuizService) ListForTeacher(teacherID uint) ([]entity.Quiz, error) {
	return s.quizRepo.ListByCreator(teacherID)
}

// ListForStudent возвращает квизы учителя, к которому привязан студент.
// Студент без привязки получает пустой список — это легитимное состояние,
// а не ошибка (например, студент, зарегистрированный без реферала).
func (s *QuizService) ListForStudent(studentID uint) ([]entity.Quiz, error) {
	student, err := s.userRepo.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	if student.ReferredBy == nil {
		return []entity.Quiz{}, nil
	}
	return s.quizRepo.ListByCreator(*student.ReferredBy)
}
