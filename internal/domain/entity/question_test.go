package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tajMahalQuestion() *Question {
	return &Question{
		ID:      1,
		Text:    "Where is the Taj Mahal?",
		Options: StringArray{"Agra", "Delhi", "Mumbai", "Jaipur"},
		Answer:  "a",
	}
}

func TestQuestion_CanonicalAnswer_LetterCode(t *testing.T) {
	// Arrange
	question := tajMahalQuestion()

	// Act & Assert: буквенный код разрешается в текст варианта
	assert.Equal(t, "Agra", question.CanonicalAnswer())

	question.Answer = "D"
	assert.Equal(t, "Jaipur", question.CanonicalAnswer(), "Код должен разрешаться без учёта регистра")

	question.Answer = " b "
	assert.Equal(t, "Delhi", question.CanonicalAnswer(), "Пробелы вокруг кода должны игнорироваться")
}

func TestQuestion_CanonicalAnswer_LiteralText(t *testing.T) {
	// Arrange
	question := tajMahalQuestion()
	question.Answer = "Mumbai"

	// Act & Assert: текстовый ответ возвращается как есть
	assert.Equal(t, "Mumbai", question.CanonicalAnswer())
}

func TestQuestion_CanonicalAnswer_OutOfRangeLetter(t *testing.T) {
	// Arrange: код "d" при двух вариантах — возвращается сырое значение
	question := &Question{
		Options: StringArray{"Yes", "No"},
		Answer:  "d",
	}

	// Act & Assert
	assert.Equal(t, "d", question.CanonicalAnswer())
}

func TestQuestion_IsCorrect(t *testing.T) {
	question := tajMahalQuestion()

	tests := []struct {
		name     string
		selected string
		want     bool
	}{
		{"канонический текст", "Agra", true},
		{"без учёта регистра", "AGRA", true},
		{"сырое значение answer", "a", true},
		{"неверный вариант", "Delhi", false},
		{"пустой ответ", "", false},
		{"пробельный ответ", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, question.IsCorrect(tt.selected))
		})
	}
}

func TestQuestion_IsCorrect_MultiWordAnswer(t *testing.T) {
	// Arrange: ответы из нескольких слов сравниваются целиком
	question := &Question{
		Text:    "What is the national animal of India?",
		Options: StringArray{"Royal Bengal Tiger", "Lion", "Elephant", "Peacock"},
		Answer:  "Royal Bengal Tiger",
	}

	// Act & Assert
	assert.True(t, question.IsCorrect("royal bengal tiger"))
	assert.False(t, question.IsCorrect("Tiger"))
}

func TestQuestion_HasValidOptions(t *testing.T) {
	tests := []struct {
		name    string
		options StringArray
		want    bool
	}{
		{"четыре различных", StringArray{"A", "B", "C", "D"}, true},
		{"дубликат", StringArray{"A", "A", "C", "D"}, false},
		{"пустой вариант", StringArray{"A", "B", " ", "D"}, false},
		{"слишком мало", StringArray{"A", "B", "C"}, false},
		{"слишком много", StringArray{"A", "B", "C", "D", "E"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{Options: tt.options}
			assert.Equal(t, tt.want, q.HasValidOptions())
		})
	}
}

func TestQuestion_AnswerMatchesOption(t *testing.T) {
	// Arrange
	question := tajMahalQuestion()

	// Act & Assert: буквенный код в пределах вариантов
	assert.True(t, question.AnswerMatchesOption())

	// Текстовый ответ, равный варианту
	question.Answer = "Delhi"
	assert.True(t, question.AnswerMatchesOption())

	// Текст, не равный ни одному варианту
	question.Answer = "Kolkata"
	assert.False(t, question.AnswerMatchesOption())
}
