package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет новую попытку. Попытки append-only: метода Update нет намеренно.
func (r *AttemptRepo) Create(attempt *entity.Attempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по ID
func (r *AttemptRepo) GetByID(id uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByUser возвращает попытки пользователя, новые первыми
func (r *AttemptRepo) ListByUser(userID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ?", userID).Order("submitted_at DESC, id DESC").Find(&attempts).Error
	return attempts, err
}

// ListAll возвращает все попытки, новые первыми
func (r *AttemptRepo) ListAll() ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Order("submitted_at DESC, id DESC").Find(&attempts).Error
	return attempts, err
}

// SumScoresByUserIDs возвращает SUM(score) по каждому пользователю из списка.
// Агрегация выполняется в базе; пользователи без попыток в выборку не попадают.
func (r *AttemptRepo) SumScoresByUserIDs(userIDs []uint) ([]repository.UserScoreTotal, error) {
	if len(userIDs) == 0 {
		return []repository.UserScoreTotal{}, nil
	}

	var totals []repository.UserScoreTotal
	err := r.db.Model(&entity.Attempt{}).
		Select("user_id AS user_id, SUM(score) AS total_score").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// Delete удаляет попытку
func (r *AttemptRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Attempt{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID удаляет все попытки пользователя и возвращает количество удаленных.
// Повторный вызов на уже пустом наборе безопасен (0 строк, без ошибки).
func (r *AttemptRepo) DeleteByUserID(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&entity.Attempt{})
	return result.RowsAffected, result.Error
}
