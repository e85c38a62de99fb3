package repository

import "time"

// CacheRepository определяет методы для работы с кешем.
// Кеш — необязательная зависимость: при недоступности Redis сервисы
// продолжают работать напрямую через базу.
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Delete(key string) error
}
