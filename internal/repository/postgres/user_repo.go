package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя.
// Нарушение уникальности email (23505) транслируется в ErrDuplicateEmail —
// проверка "существует ли email" в сервисе и этот индекс закрывают гонку вдвоём.
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateEmail, user.Email)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email.
// Email хранится в нижнем регистре, поэтому сравнение case-insensitive
// сводится к точному совпадению по нормализованному значению.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByReferralCode возвращает учителя по реферальному коду
func (r *UserRepo) GetByReferralCode(code string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// SetReferralCode точечно сохраняет реферальный код, не трогая остальные поля
// (и не проходя через хук BeforeSave)
func (r *UserRepo) SetReferralCode(userID uint, code string) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("referral_code", code)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает список пользователей с пагинацией
func (r *UserRepo) List(limit, offset int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&users).Error
	return users, err
}

// ListStudentsByTeacher возвращает студентов, привязанных к учителю.
// Порядок по id стабилен и служит вторичным ключом когорты лидерборда.
func (r *UserRepo) ListStudentsByTeacher(teacherID uint) ([]entity.User, error) {
	var users []entity.User
	err := r.db.
		Where("referred_by = ? AND role = ?", teacherID, entity.RoleStudent).
		Order("id").
		Find(&users).Error
	return users, err
}

// Delete удаляет пользователя
func (r *UserRepo) Delete(id uint) error {
	return r.db.Delete(&entity.User{}, id).Error
}
