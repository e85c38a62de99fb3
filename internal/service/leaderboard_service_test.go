package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

func TestLeaderboardService_TeacherSeesOwnCohortOnly(t *testing.T) {
	// Arrange: у учителя T1 два студента, S3 привязан к другому учителю
	mockUserRepo := new(MockUserRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	cohort := []entity.User{
		{ID: 2, Name: "Sara", Role: entity.RoleStudent, ReferredBy: uintPtr(1)},
		{ID: 3, Name: "Bolat", Role: entity.RoleStudent, ReferredBy: uintPtr(1)},
	}
	mockUserRepo.On("ListStudentsByTeacher", uint(1)).Return(cohort, nil)
	mockAttemptRepo.On("SumScoresByUserIDs", []uint{2, 3}).Return([]repository.UserScoreTotal{
		{UserID: 2, TotalScore: 15},
		{UserID: 3, TotalScore: 20},
	}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockAttemptRepo)
	teacher := &entity.User{ID: 1, Role: entity.RoleTeacher}

	// Act
	entries, err := svc.ComputeLeaderboard(teacher)

	// Assert: сортировка по сумме очков по убыванию
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(3), entries[0].UserID)
	assert.Equal(t, 20, entries[0].TotalScore)
	assert.Equal(t, uint(2), entries[1].UserID)
	assert.Equal(t, 15, entries[1].TotalScore)
}

func TestLeaderboardService_ZeroScoreMembersIncluded(t *testing.T) {
	// Arrange: студент без единой попытки остаётся в лидерборде с нулём
	mockUserRepo := new(MockUserRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	cohort := []entity.User{
		{ID: 2, Name: "Sara", Role: entity.RoleStudent},
		{ID: 3, Name: "Bolat", Role: entity.RoleStudent},
	}
	mockUserRepo.On("ListStudentsByTeacher", uint(1)).Return(cohort, nil)
	mockAttemptRepo.On("SumScoresByUserIDs", []uint{2, 3}).Return([]repository.UserScoreTotal{
		{UserID: 2, TotalScore: 5},
	}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockAttemptRepo)

	// Act
	entries, err := svc.ComputeLeaderboard(&entity.User{ID: 1, Role: entity.RoleTeacher})

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bolat", entries[1].Username)
	assert.Equal(t, 0, entries[1].TotalScore)
}

func TestLeaderboardService_TieBreakByNameThenID(t *testing.T) {
	// Arrange: равные суммы упорядочиваются по имени, затем по id
	mockUserRepo := new(MockUserRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	cohort := []entity.User{
		{ID: 5, Name: "Zarina", Role: entity.RoleStudent},
		{ID: 2, Name: "Aibek", Role: entity.RoleStudent},
		{ID: 9, Name: "Aibek", Role: entity.RoleStudent},
	}
	mockUserRepo.On("ListStudentsByTeacher", uint(1)).Return(cohort, nil)
	mockAttemptRepo.On("SumScoresByUserIDs", []uint{5, 2, 9}).Return([]repository.UserScoreTotal{
		{UserID: 5, TotalScore: 10},
		{UserID: 2, TotalScore: 10},
		{UserID: 9, TotalScore: 10},
	}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockAttemptRepo)

	// Act
	entries, err := svc.ComputeLeaderboard(&entity.User{ID: 1, Role: entity.RoleTeacher})

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, uint(9), entries[1].UserID)
	assert.Equal(t, uint(5), entries[2].UserID)
}

func TestLeaderboardService_StudentSeesOwnCohort(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	cohort := []entity.User{{ID: 2, Name: "Sara", Role: entity.RoleStudent}}
	mockUserRepo.On("ListStudentsByTeacher", uint(1)).Return(cohort, nil)
	mockAttemptRepo.On("SumScoresByUserIDs", []uint{2}).Return([]repository.UserScoreTotal{}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockAttemptRepo)
	student := &entity.User{ID: 2, Role: entity.RoleStudent, ReferredBy: uintPtr(1)}

	// Act
	entries, err := svc.ComputeLeaderboard(student)

	// Assert
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLeaderboardService_UnlinkedStudent(t *testing.T) {
	// Arrange
	svc := NewLeaderboardService(new(MockUserRepository), new(MockAttemptRepository))
	student := &entity.User{ID: 2, Role: entity.RoleStudent, ReferredBy: nil}

	// Act
	_, err := svc.ComputeLeaderboard(student)

	// Assert: непривязанный студент получает ошибку, а не пустой список
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "not linked")
}

func TestLeaderboardService_EmptyCohort(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("ListStudentsByTeacher", uint(1)).Return([]entity.User{}, nil)

	svc := NewLeaderboardService(mockUserRepo, new(MockAttemptRepository))

	// Act
	entries, err := svc.ComputeLeaderboard(&entity.User{ID: 1, Role: entity.RoleTeacher})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardService_AdminRoleForbidden(t *testing.T) {
	// Arrange
	svc := NewLeaderboardService(new(MockUserRepository), new(MockAttemptRepository))
	admin := &entity.User{ID: 1, Role: entity.RoleAdmin, IsAdmin: true}

	// Act
	_, err := svc.ComputeLeaderboard(admin)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
