package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/eduquiz-api/internal/domain/entity"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// DailyQuizSubjects — предметы, по которым генерируются дневные квизы
var DailyQuizSubjects = []string{"Maths", "English", "GK", "Science"}

// DailyQuizQuestionCount — количество вопросов в генерируемом дневном квизе
const DailyQuizQuestionCount = 10

// DailyQuizService выдаёт дневной квиз на (предмет, календарный день),
// генерируя его при первом запросе дня через внешний генератор вопросов
type DailyQuizService struct {
	quizRepo  repository.QuizRepository
	cacheRepo repository.CacheRepository // необязателен, nil = без кеша
	generator QuestionGenerator
	now       func() time.Time
}

// NewDailyQuizService создает новый сервис дневных квизов
func NewDailyQuizService(
	quizRepo repository.QuizRepository,
	cacheRepo repository.CacheRepository,
	generator QuestionGenerator,
) (*DailyQuizService, error) {
	if quizRepo == nil {
		return nil, fmt.Errorf("QuizRepository is required for DailyQuizService")
	}
	if generator == nil {
		return nil, fmt.Errorf("QuestionGenerator is required for DailyQuizService")
	}
	return &DailyQuizService{
		quizRepo:  quizRepo,
		cacheRepo: cacheRepo,
		generator: generator,
		now:       time.Now,
	}, nil
}

// IsValidSubject проверяет предмет против фиксированного списка
func IsValidSubject(subject string) bool {
	for _, s := range DailyQuizSubjects {
		if s == subject {
			return true
		}
	}
	return false
}

func dailyQuizCacheKey(subject string, day time.Time) string {
	return fmt.Sprintf("dailyquiz:%s:%s", subject, day.Format("2006-01-02"))
}

// GetOrCreate возвращает дневной квиз на сегодня, создавая его при необходимости.
// Порядок: кеш → база → генерация. Конкурентная первая загрузка дня разрешается
// уникальным индексом (subject, quiz_date): проигравший вставку перечитывает
// квиз победителя вместо создания дубликата.
func (s *DailyQuizService) GetOrCreate(ctx context.Context, subject string) (*entity.Quiz, error) {
	if !IsValidSubject(subject) {
		return nil, fmt.Errorf("%w: unknown subject %q", apperrors.ErrValidation, subject)
	}

	today := s.now()
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	cacheKey := dailyQuizCacheKey(subject, dayStart)

	if s.cacheRepo != nil {
		var cached entity.Quiz
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil && len(cached.Questions) > 0 {
			return &cached, nil
		}
	}

	quiz, err := s.quizRepo.GetDailyBySubjectAndDate(subject, dayStart)
	if err == nil {
		s.cacheQuiz(cacheKey, quiz, dayStart)
		return quiz, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up daily quiz: %w", err)
	}

	// Квиза на сегодня нет — генерируем. Таймаут держит httpClient генератора;
	// его отказ возвращается как ErrUpstreamUnavailable, ничего не записывая.
	questions, err := s.generator.GenerateQuestions(ctx, subject, DailyQuizQuestionCount)
	if err != nil {
		return nil, err
	}

	// Дневной квиз принадлежит системе, а не запросившему пользователю:
	// CreatedBy остаётся nil, чтобы квиз не попадал в каталоги учителя
	// и не редактировался через операции владельца.
	quiz = &entity.Quiz{
		Title:     subject + " Daily Quiz",
		Subject:   subject,
		IsDaily:   true,
		QuizDate:  &dayStart,
		Questions: questions,
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicateDailyQuiz) {
			// Конкурентный запрос успел первым — перечитываем его квиз
			log.Printf("[DailyQuizService] Дневной квиз %s/%s уже создан конкурентно, перечитываем",
				subject, dayStart.Format("2006-01-02"))
			return s.quizRepo.GetDailyBySubjectAndDate(subject, dayStart)
		}
		return nil, fmt.Errorf("failed to save daily quiz: %w", err)
	}

	s.cacheQuiz(cacheKey, quiz, dayStart)
	return quiz, nil
}

// cacheQuiz кладёт квиз в кеш до конца календарного дня. Ошибки кеша только логируются.
func (s *DailyQuizService) cacheQuiz(key string, quiz *entity.Quiz, dayStart time.Time) {
	if s.cacheRepo == nil {
		return
	}
	ttl := time.Until(dayStart.Add(24 * time.Hour))
	if ttl <= 0 {
		return
	}
	if err := s.cacheRepo.SetJSON(key, quiz, ttl); err != nil {
		log.Printf("[DailyQuizService] Не удалось закешировать дневной квиз %s: %v", key, err)
	}
}
