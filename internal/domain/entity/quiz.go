package entity

import (
	"time"
)

// Quiz представляет квиз: авторский (создан учителем) или дневной (сгенерирован системой)
type Quiz struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Subject string `gorm:"size:50;not null;default:''" json:"subject"`

	// IsDaily — признак дневного квиза, сгенерированного внешним генератором вопросов
	IsDaily bool `gorm:"not null;default:false" json:"is_daily"`

	// QuizDate — календарный день дневного квиза. NULL для авторских квизов.
	// Частичный уникальный индекс (subject, quiz_date) WHERE is_daily гарантирует
	// не более одного дневного квиза на предмет в день.
	QuizDate *time.Time `gorm:"type:date" json:"quiz_date,omitempty"`

	// CreatedBy — id учителя-создателя. NULL для системных дневных квизов.
	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// QuizType возвращает тип квиза для снапшота попытки
func (q *Quiz) QuizType() string {
	if q.IsDaily {
		return QuizTypeDaily
	}
	return QuizTypeTeacher
}

// IsOwnedBy проверяет, принадлежит ли квиз указанному пользователю
func (q *Quiz) IsOwnedBy(userID uint) bool {
	return q.CreatedBy != nil && *q.CreatedBy == userID
}
