package repository

import "errors"

var (
	// ErrDuplicateDailyQuiz означает, что дневной квиз на (subject, день) уже создан
	// конкурентным запросом. Вызывающий код должен перечитать существующий квиз.
	ErrDuplicateDailyQuiz = errors.New("daily quiz already exists for this subject and day")

	// ErrDuplicateEmail означает нарушение уникальности email при создании пользователя.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)
