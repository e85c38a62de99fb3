package dto

import (
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// AttemptResponse представляет оцененную попытку в формате для ответа клиенту
type AttemptResponse struct {
	ID           uint                   `json:"id"`
	UserID       uint                   `json:"user_id"`
	Username     string                 `json:"username"`
	QuizID       uint                   `json:"quiz_id"`
	QuizType     string                 `json:"quiz_type"`
	Answers      []entity.AttemptAnswer `json:"answers"`
	Score        int                    `json:"score"`
	Total        int                    `json:"total"`
	CorrectCount int                    `json:"correct_count"`
	WrongCount   int                    `json:"wrong_count"`
	SubmittedAt  time.Time              `json:"submitted_at"`
}

// NewAttemptResponse создает DTO для попытки
func NewAttemptResponse(attempt *entity.Attempt) *AttemptResponse {
	if attempt == nil {
		return nil
	}
	return &AttemptResponse{
		ID:           attempt.ID,
		UserID:       attempt.UserID,
		Username:     attempt.Username,
		QuizID:       attempt.QuizID,
		QuizType:     attempt.QuizType,
		Answers:      attempt.Answers,
		Score:        attempt.Score,
		Total:        attempt.Total,
		CorrectCount: attempt.CorrectCount,
		WrongCount:   attempt.WrongCount,
		SubmittedAt:  attempt.SubmittedAt,
	}
}

// NewListAttemptResponse создает список DTO попыток
func NewListAttemptResponse(attempts []entity.Attempt) []*AttemptResponse {
	out := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		out[i] = NewAttemptResponse(&attempts[i])
	}
	return out
}
