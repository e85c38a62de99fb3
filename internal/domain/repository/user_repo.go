package repository

import (
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	// GetByEmail ищет пользователя по нормализованному (lowercase) email
	GetByEmail(email string) (*entity.User, error)
	GetByReferralCode(code string) (*entity.User, error)
	Update(user *entity.User) error
	// SetReferralCode точечно сохраняет реферальный код учителя
	SetReferralCode(userID uint, code string) error
	List(limit, offset int) ([]entity.User, error)
	// ListStudentsByTeacher возвращает студентов, привязанных к учителю через referred_by
	ListStudentsByTeacher(teacherID uint) ([]entity.User, error)
	Delete(id uint) error
}
