package repository

import (
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// UserScoreTotal — агрегат суммы очков одного пользователя по его попыткам
type UserScoreTotal struct {
	UserID     uint
	TotalScore int
}

// AttemptRepository определяет методы для работы с попытками
type AttemptRepository interface {
	Create(attempt *entity.Attempt) error
	GetByID(id uint) (*entity.Attempt, error)
	// ListByUser возвращает попытки пользователя, новые первыми
	ListByUser(userID uint) ([]entity.Attempt, error)
	// ListAll возвращает все попытки, новые первыми
	ListAll() ([]entity.Attempt, error)
	// SumScoresByUserIDs возвращает сумму score по каждому из переданных пользователей.
	// Пользователи без попыток в результат не входят.
	SumScoresByUserIDs(userIDs []uint) ([]UserScoreTotal, error)
	Delete(id uint) error
	// DeleteByUserID удаляет все попытки пользователя; повторный вызов на пустом наборе — no-op
	DeleteByUserID(userID uint) (int64, error)
}
