package dto

import (
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Answer остаётся пустым, когда правильный ответ скрыт от клиента.
type QuestionResponse struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer,omitempty"`
}

// QuizResponse представляет квиз в формате для ответа клиенту
type QuizResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Subject       string             `json:"subject,omitempty"`
	IsDaily       bool               `json:"is_daily"`
	QuizDate      *time.Time         `json:"quiz_date,omitempty"`
	CreatedBy     *uint              `json:"created_by,omitempty"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса.
// При includeAnswer=false правильный ответ вырезается: студент, проходящий квиз,
// не должен видеть его до отправки попытки.
func NewQuestionResponse(q *entity.Question, includeAnswer bool) QuestionResponse {
	resp := QuestionResponse{
		ID:       q.ID,
		Question: q.Text,
		Options:  q.Options,
	}
	if includeAnswer {
		resp.Answer = q.CanonicalAnswer()
	}
	return resp
}

// NewQuizResponse создает DTO для квиза
func NewQuizResponse(quiz *entity.Quiz, includeAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	questionsDTO := make([]QuestionResponse, len(quiz.Questions))
	for i := range quiz.Questions {
		questionsDTO[i] = NewQuestionResponse(&quiz.Questions[i], includeAnswers)
	}

	return &QuizResponse{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Subject:       quiz.Subject,
		IsDaily:       quiz.IsDaily,
		QuizDate:      quiz.QuizDate,
		CreatedBy:     quiz.CreatedBy,
		QuestionCount: len(quiz.Questions),
		Questions:     questionsDTO,
		CreatedAt:     quiz.CreatedAt,
		UpdatedAt:     quiz.UpdatedAt,
	}
}

// NewListQuizResponse создает список DTO квизов без вопросов (для каталогов)
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	out := make([]*QuizResponse, len(quizzes))
	for i := range quizzes {
		q := quizzes[i]
		out[i] = &QuizResponse{
			ID:            q.ID,
			Title:         q.Title,
			Subject:       q.Subject,
			IsDaily:       q.IsDaily,
			QuizDate:      q.QuizDate,
			CreatedBy:     q.CreatedBy,
			QuestionCount: len(q.Questions),
			CreatedAt:     q.CreatedAt,
			UpdatedAt:     q.UpdatedAt,
		}
	}
	return out
}
