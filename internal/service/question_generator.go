package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/eduquiz-api/internal/config"
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// QuestionGenerator — внешний коллаборатор, генерирующий вопросы дневного квиза.
// Его недоступность никогда не должна ронять запись уже существующих попыток.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, subject string, count int) ([]entity.Question, error)
}

// OpenRouterGenerator реализует QuestionGenerator поверх chat-completions API
// (OpenRouter или совместимого провайдера)
type OpenRouterGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenRouterGenerator создает новый генератор вопросов
func NewOpenRouterGenerator(cfg config.AIConfig) (*OpenRouterGenerator, error) {
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, fmt.Errorf("AI base URL and model are required")
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouterGenerator{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generatedQuiz — ожидаемая JSON-форма ответа модели
type generatedQuiz struct {
	Questions []struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Answer   string   `json:"answer"`
	} `json:"questions"`
}

// GenerateQuestions запрашивает у модели count вопросов по предмету.
// Любая ошибка сети, статуса или формата сворачивается в ErrUpstreamUnavailable.
func (g *OpenRouterGenerator) GenerateQuestions(ctx context.Context, subject string, count int) ([]entity.Question, error) {
	prompt := fmt.Sprintf(`Generate %d multiple-choice questions in %s.
Each question must have 4 options (A, B, C, D) and include the correct answer.
Respond ONLY in JSON like:
{"questions":[{"question":"...","options":["A","B","C","D"],"answer":"A"}]}`, count, subject)

	body, err := json.Marshal(chatCompletionRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: generator returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var envelope chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode generator response: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(envelope.Choices) == 0 {
		return nil, fmt.Errorf("%w: generator returned no choices", apperrors.ErrUpstreamUnavailable)
	}

	quiz, err := parseGeneratedQuiz(envelope.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	questions := make([]entity.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = entity.Question{
			Text:     q.Question,
			Options:  entity.StringArray(q.Options),
			Answer:   q.Answer, // может быть буквенным кодом, разрешается при оценке
			Position: i,
		}
	}
	return questions, nil
}

var (
	newlineRe       = regexp.MustCompile(`(\r\n|\n|\r)`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// parseGeneratedQuiz извлекает JSON-блок из текстового вывода модели.
// Модели часто оборачивают JSON в пояснительный текст и оставляют висячие
// запятые — и то и другое вычищается перед разбором.
func parseGeneratedQuiz(content string) (*generatedQuiz, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON found in generator output", apperrors.ErrUpstreamUnavailable)
	}

	cleaned := content[start : end+1]
	cleaned = newlineRe.ReplaceAllString(cleaned, "")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")

	var quiz generatedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("%w: generator returned invalid JSON: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: generator returned no questions", apperrors.ErrUpstreamUnavailable)
	}
	for i, q := range quiz.Questions {
		if q.Question == "" || len(q.Options) != entity.OptionsPerQuestion || q.Answer == "" {
			return nil, fmt.Errorf("%w: generated question %d is malformed", apperrors.ErrUpstreamUnavailable, i+1)
		}
	}
	return &quiz, nil
}
