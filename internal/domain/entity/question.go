package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// OptionsPerQuestion — фиксированное количество вариантов ответа в вопросе
const OptionsPerQuestion = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос квиза.
// Answer хранит канонический правильный ответ: либо текст одного из вариантов,
// либо legacy-код буквы (a–d) из старого дневного контента. Разрешение кода
// в текст выполняется через CanonicalAnswer, миграция данных не требуется.
type Question struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	QuizID   uint        `gorm:"not null;index" json:"quiz_id"`
	Text     string      `gorm:"size:500;not null" json:"question"`
	Options  StringArray `gorm:"type:jsonb;not null" json:"options"`
	Answer   string      `gorm:"size:500;not null" json:"answer"`
	Position int         `gorm:"not null;default:0" json:"-"` // порядок внутри квиза

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// letterIndex возвращает индекс варианта для буквенного кода a–d (без учёта регистра),
// либо -1, если значение не является буквенным кодом.
func letterIndex(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(s) != 1 || s[0] < 'a' || s[0] > 'd' {
		return -1
	}
	return int(s[0] - 'a')
}

// CanonicalAnswer возвращает текст правильного варианта.
// Буквенный код a/b/c/d отображается в options[0..3]; если индекс выходит
// за пределы вариантов, возвращается сырое значение как есть (поведение
// исходных данных сохраняется).
func (q *Question) CanonicalAnswer() string {
	if idx := letterIndex(q.Answer); idx >= 0 {
		if idx < len(q.Options) {
			return q.Options[idx]
		}
		return q.Answer
	}
	return q.Answer
}

// IsCorrect проверяет выбранный вариант. Сравнение без учёта регистра,
// совпадение засчитывается и с каноническим текстом, и с сырым значением
// Answer — так один код покрывает и legacy-буквенный, и текстовый контент.
func (q *Question) IsCorrect(selected string) bool {
	if strings.TrimSpace(selected) == "" {
		return false
	}
	sel := strings.ToLower(selected)
	return sel == strings.ToLower(q.CanonicalAnswer()) || sel == strings.ToLower(q.Answer)
}

// HasValidOptions проверяет, что у вопроса ровно 4 непустых различных варианта
func (q *Question) HasValidOptions() bool {
	if len(q.Options) != OptionsPerQuestion {
		return false
	}
	seen := make(map[string]struct{}, OptionsPerQuestion)
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
		if _, dup := seen[opt]; dup {
			return false
		}
		seen[opt] = struct{}{}
	}
	return true
}

// AnswerMatchesOption проверяет, что канонический ответ указывает на один из вариантов:
// либо Answer байт-в-байт равен варианту, либо является буквенным кодом в пределах вариантов.
func (q *Question) AnswerMatchesOption() bool {
	if idx := letterIndex(q.Answer); idx >= 0 {
		return idx < len(q.Options)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}
