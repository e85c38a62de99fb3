package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Типы квизов, фиксируемые в попытке
const (
	QuizTypeTeacher = "teacher"
	QuizTypeDaily   = "daily"
)

// NotAnsweredSentinel записывается как выбранный вариант, когда студент не ответил на вопрос
const NotAnsweredSentinel = "Not answered"

// AttemptAnswer — снапшот одного ответа внутри попытки.
// Текст вопроса и правильного варианта денормализуются намеренно: историческая
// оценка не меняется при последующем редактировании или удалении квиза.
type AttemptAnswer struct {
	Question  string `json:"question"`
	Selected  string `json:"selected"`
	Correct   string `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}

// AttemptAnswers - пользовательский тип для хранения снапшота ответов в JSONB
type AttemptAnswers []AttemptAnswer

// Scan реализует интерфейс sql.Scanner для AttemptAnswers
func (a *AttemptAnswers) Scan(value interface{}) error {
	if value == nil {
		*a = AttemptAnswers{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AttemptAnswers{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AttemptAnswers
func (a AttemptAnswers) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Attempt представляет неизменяемую запись одной оцененной попытки.
// Попытки append-only: студент не может их редактировать, удаляет только админ.
type Attempt struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Username string `gorm:"size:100;not null" json:"username"` // снапшот, не live-join
	QuizID   uint   `gorm:"not null;index" json:"quiz_id"`
	QuizType string `gorm:"size:20;not null;default:'teacher'" json:"quiz_type"` // "teacher" или "daily"

	Answers AttemptAnswers `gorm:"type:jsonb;not null" json:"answers"`

	Score        int `gorm:"not null;default:0" json:"score"`
	Total        int `gorm:"not null;default:0" json:"total"`
	CorrectCount int `gorm:"not null;default:0" json:"correct_count"`
	WrongCount   int `gorm:"not null;default:0" json:"wrong_count"`

	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}
