package service

import (
	"fmt"
	"sort"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// LeaderboardEntry — строка лидерборда. Вычисляется на чтении, никогда не хранится.
type LeaderboardEntry struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
}

// LeaderboardService строит лидерборды, ограниченные когортой одного учителя
type LeaderboardService struct {
	userRepo    repository.UserRepository
	attemptRepo repository.AttemptRepository
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(userRepo repository.UserRepository, attemptRepo repository.AttemptRepository) *LeaderboardService {
	return &LeaderboardService{
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
	}
}

// ComputeLeaderboard строит лидерборд для запрашивающего:
// - учитель видит собственных студентов (referred_by == его id);
// - студент видит свою когорту (студентов с тем же referred_by), при отсутствии
//   привязки — ErrValidation, а не пустой список;
// - остальные роли — ErrForbidden.
// Попытки пользователей вне когорты в суммы не попадают.
func (s *LeaderboardService) ComputeLeaderboard(requester *entity.User) ([]LeaderboardEntry, error) {
	if requester == nil {
		return nil, fmt.Errorf("%w: requester is required", apperrors.ErrValidation)
	}

	var teacherID uint
	switch requester.Role {
	case entity.RoleTeacher:
		teacherID = requester.ID
	case entity.RoleStudent:
		if requester.ReferredBy == nil {
			return nil, fmt.Errorf("%w: not linked to any teacher", apperrors.ErrValidation)
		}
		teacherID = *requester.ReferredBy
	default:
		return nil, fmt.Errorf("%w: leaderboard is available to teachers and students only", apperrors.ErrForbidden)
	}

	cohort, err := s.userRepo.ListStudentsByTeacher(teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cohort: %w", err)
	}
	// Пустая когорта — пустой лидерборд, не ошибка
	if len(cohort) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]uint, len(cohort))
	for i, member := range cohort {
		ids[i] = member.ID
	}

	totals, err := s.attemptRepo.SumScoresByUserIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}
	totalByUser := make(map[uint]int, len(totals))
	for _, t := range totals {
		totalByUser[t.UserID] = t.TotalScore
	}

	entries := make([]LeaderboardEntry, len(cohort))
	for i, member := range cohort {
		entries[i] = LeaderboardEntry{
			UserID:     member.ID,
			Username:   member.Name,
			TotalScore: totalByUser[member.ID], // 0 для студентов без попыток
		}
	}

	// Сортировка: сумма очков DESC, затем имя ASC и id ASC для детерминизма
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if entries[i].Username != entries[j].Username {
			return entries[i].Username < entries[j].Username
		}
		return entries[i].UserID < entries[j].UserID
	})

	return entries, nil
}
