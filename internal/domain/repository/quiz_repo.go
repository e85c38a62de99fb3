package repository

import (
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с квизами и их вопросами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	// GetWithQuestions возвращает квиз вместе с вопросами в исходном порядке
	GetWithQuestions(id uint) (*entity.Quiz, error)
	// ReplaceContent обновляет заголовок и полностью заменяет вопросы квиза
	ReplaceContent(quiz *entity.Quiz, questions []entity.Question) error
	ListByCreator(creatorID uint) ([]entity.Quiz, error)
	// GetDailyBySubjectAndDate ищет дневной квиз на календарный день
	GetDailyBySubjectAndDate(subject string, day time.Time) (*entity.Quiz, error)
	Delete(id uint) error
}
