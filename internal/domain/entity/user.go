package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User представляет пользователя в системе.
// Role и IsAdmin — независимые оси: пользователь с role=teacher может одновременно
// иметь IsAdmin=true. Доступ к админским операциям проверяется только по IsAdmin.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	IsAdmin  bool   `gorm:"not null;default:false" json:"is_admin"`
	Role     string `gorm:"size:20;not null;default:'student'" json:"role"` // "student", "teacher" или "admin"

	// ReferredBy — id учителя, к которому привязан студент. Заполняется только для студентов.
	ReferredBy *uint `gorm:"index" json:"referred_by,omitempty"`

	// ReferralCode — уникальный код учителя, генерируется лениво по запросу.
	// Каноническим реферальным идентификатором остаётся ID учителя.
	ReferralCode *string `gorm:"size:40;uniqueIndex" json:"referral_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsStudent проверяет, является ли пользователь студентом
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher проверяет, является ли пользователь учителем
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsValidRole проверяет, что роль входит в допустимый набор
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
