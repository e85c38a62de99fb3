package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с авторскими квизами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик квизов
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// QuestionRequest представляет вопрос в запросе на создание или обновление квиза
type QuestionRequest struct {
	Question string   `json:"question" binding:"required,min=3,max=500"`
	Options  []string `json:"options" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
}

// SaveQuizRequest представляет запрос на создание или полное обновление квиза
type SaveQuizRequest struct {
	Title     string            `json:"title" binding:"required,min=3,max=200"`
	Subject   string            `json:"subject" binding:"omitempty,max=50"`
	Questions []QuestionRequest `json:"questions" binding:"required,min=1"`
}

func (r *SaveQuizRequest) toInputs() []service.QuestionInput {
	inputs := make([]service.QuestionInput, len(r.Questions))
	for i, q := range r.Questions {
		inputs[i] = service.QuestionInput{
			Text:    q.Question,
			Options: q.Options,
			Answer:  q.Answer,
		}
	}
	return inputs
}

// CreateQuiz обрабатывает запрос учителя на создание квиза
// POST /api/quiz
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req SaveQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(userID, req.Title, req.Subject, req.toInputs())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true))
}

// UpdateQuiz обрабатывает запрос учителя на полное обновление своего квиза
// PUT /api/quiz/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	quizID := c.MustGet("quizID").(uint)

	var req SaveQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, userID, req.Title, req.Subject, req.toInputs())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// DeleteQuiz обрабатывает запрос учителя на удаление своего квиза
// DELETE /api/quiz/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

// GetQuiz возвращает квиз с вопросами и каноническими ответами.
// Скрытие ответов в форме прохождения остаётся на стороне клиента.
// GET /api/quiz/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuizByID(quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// TeacherQuizzes возвращает каталог квизов текущего учителя
// GET /api/quiz/teacher-quizzes
func (h *QuizHandler) TeacherQuizzes(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	quizzes, err := h.quizService.ListForTeacher(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": dto.NewListQuizResponse(quizzes)})
}

// StudentQuizzes возвращает каталог квизов учителя, к которому привязан студент.
// Непривязанный студент получает пустой каталог, а не ошибку.
// GET /api/quiz/student-quizzes
func (h *QuizHandler) StudentQuizzes(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	quizzes, err := h.quizService.ListForStudent(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": dto.NewListQuizResponse(quizzes)})
}
