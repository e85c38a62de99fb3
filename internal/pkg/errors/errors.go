package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, невалидный или истёкший токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная регистрация email).
	ErrConflict = errors.New("resource state conflict")

	// ErrUpstreamUnavailable используется, когда внешний коллаборатор (генератор вопросов)
	// недоступен или вернул непригодный ответ.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
