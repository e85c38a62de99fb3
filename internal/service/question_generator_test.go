package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/eduquiz-api/internal/config"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

func TestParseGeneratedQuiz_ExtractsJSONFromNoise(t *testing.T) {
	// Arrange: модель обернула JSON в пояснительный текст и оставила висячую запятую
	content := `Sure! Here are your questions:
{"questions":[
  {"question":"Where is the Taj Mahal?","options":["Agra","Delhi","Mumbai","Jaipur"],"answer":"a"},
]}
Hope this helps!`

	// Act
	quiz, err := parseGeneratedQuiz(content)

	// Assert
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Where is the Taj Mahal?", quiz.Questions[0].Question)
	assert.Equal(t, "a", quiz.Questions[0].Answer)
}

func TestParseGeneratedQuiz_NoJSON(t *testing.T) {
	// Act
	_, err := parseGeneratedQuiz("I cannot generate questions right now.")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestParseGeneratedQuiz_MalformedQuestion(t *testing.T) {
	// Arrange: у вопроса три варианта вместо четырёх
	content := `{"questions":[{"question":"Q","options":["A","B","C"],"answer":"A"}]}`

	// Act
	_, err := parseGeneratedQuiz(content)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestOpenRouterGenerator_GenerateQuestions_Success(t *testing.T) {
	// Arrange: фейковый chat completions сервер
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"questions\":[{\"question\":\"Q1\",\"options\":[\"A\",\"B\",\"C\",\"D\"],\"answer\":\"b\"}]}"}}]}`))
	}))
	defer server.Close()

	generator, err := NewOpenRouterGenerator(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	require.NoError(t, err)

	// Act
	questions, err := generator.GenerateQuestions(context.Background(), "Maths", 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Text)
	assert.Equal(t, "b", questions[0].Answer)
	assert.Equal(t, 0, questions[0].Position)
}

func TestOpenRouterGenerator_GenerateQuestions_UpstreamError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	generator, err := NewOpenRouterGenerator(config.AIConfig{BaseURL: server.URL, Model: "test-model"})
	require.NoError(t, err)

	// Act
	_, err = generator.GenerateQuestions(context.Background(), "Maths", 1)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
