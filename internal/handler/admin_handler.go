package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/handler/dto"
	"github.com/yourusername/eduquiz-api/internal/service"
)

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers возвращает список пользователей с пагинацией
// GET /api/quiz/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.adminService.ListUsers(limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.NewListUserResponse(users)})
}

// ListAttempts возвращает все попытки платформы
// GET /api/quiz/admin/attempts
func (h *AdminHandler) ListAttempts(c *gin.Context) {
	attempts, err := h.adminService.ListAttempts()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": dto.NewListAttemptResponse(attempts)})
}

// DeleteUser удаляет пользователя вместе с его попытками
// DELETE /api/quiz/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	targetID := c.MustGet("targetUserID").(uint)

	if err := h.adminService.DeleteUser(targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// DeleteAttempt удаляет отдельную попытку
// DELETE /api/quiz/admin/attempts/:id
func (h *AdminHandler) DeleteAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)

	if err := h.adminService.DeleteAttempt(attemptID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attempt deleted successfully"})
}

// ExportAttempts экспортирует все попытки в CSV или XLSX
// GET /api/quiz/admin/attempts/export?format=csv|xlsx
func (h *AdminHandler) ExportAttempts(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	attempts, err := h.adminService.ListAttempts()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attempts_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, attempts, filename)
	default:
		h.exportCSV(c, attempts, filename)
	}
}

// exportCSV экспортирует попытки в CSV с правильным экранированием спецсимволов
func (h *AdminHandler) exportCSV(c *gin.Context, attempts []entity.Attempt, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"ID", "Пользователь", "Квиз", "Тип", "Очки", "Всего", "Правильных", "Неправильных", "Отправлено"})

	for _, a := range attempts {
		writer.Write([]string{
			strconv.FormatUint(uint64(a.ID), 10),
			sanitizeForExcel(a.Username),
			strconv.FormatUint(uint64(a.QuizID), 10),
			a.QuizType,
			strconv.Itoa(a.Score),
			strconv.Itoa(a.Total),
			strconv.Itoa(a.CorrectCount),
			strconv.Itoa(a.WrongCount),
			a.SubmittedAt.Format(time.RFC3339),
		})
	}
}

// exportXLSX экспортирует попытки в Excel с использованием StreamWriter
func (h *AdminHandler) exportXLSX(c *gin.Context, attempts []entity.Attempt, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Попытки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"ID", "Пользователь", "Квиз", "Тип", "Очки", "Всего", "Правильных", "Неправильных", "Отправлено"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] Ошибка записи заголовков: %v", err)
	}

	for i, a := range attempts {
		rowNum := i + 2 // первая строка занята заголовками
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			a.ID,
			sanitizeForExcel(a.Username),
			a.QuizID,
			a.QuizType,
			a.Score,
			a.Total,
			a.CorrectCount,
			a.WrongCount,
			a.SubmittedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AdminHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
