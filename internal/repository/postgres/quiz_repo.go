package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий квизов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает квиз вместе с вопросами.
// Для дневных квизов частичный уникальный индекс (subject, quiz_date) WHERE is_daily
// превращает гонку конкурентной генерации в 23505:
// - unique violation → ErrDuplicateDailyQuiz, вызывающий код перечитывает существующий квиз
// - другая ошибка БД → возвращается как есть
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	err := r.db.Create(quiz).Error
	if err != nil {
		if quiz.IsDaily && isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateDailyQuiz, quiz.Subject)
		}
		return err
	}
	return nil
}

// GetByID возвращает квиз по ID без вопросов
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает квиз вместе с вопросами в порядке position
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC, questions.id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ReplaceContent обновляет заголовок квиза и полностью заменяет его вопросы.
// Замена выполняется в транзакции: старые вопросы удаляются, новые вставляются
// с проставленным QuizID и порядком.
func (r *QuizRepo) ReplaceContent(quiz *entity.Quiz, questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Quiz{}).
			Where("id = ?", quiz.ID).
			Updates(map[string]interface{}{
				"title":      quiz.Title,
				"subject":    quiz.Subject,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&entity.Question{}).Error; err != nil {
			return err
		}

		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quiz.ID
			questions[i].Position = i
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

// ListByCreator возвращает квизы, созданные пользователем, новые первыми
func (r *QuizRepo) ListByCreator(creatorID uint) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Where("created_by = ?", creatorID).Order("id DESC").Find(&quizzes).Error
	return quizzes, err
}

// GetDailyBySubjectAndDate возвращает дневной квиз на календарный день вместе с вопросами
func (r *QuizRepo) GetDailyBySubjectAndDate(subject string, day time.Time) (*entity.Quiz, error) {
	var quiz entity.Quiz
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC, questions.id ASC")
		}).
		Where("is_daily = ? AND subject = ? AND quiz_date = ?", true, subject, dayStart).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// Delete удаляет квиз и его вопросы
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Quiz{}, id).Error
	})
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
