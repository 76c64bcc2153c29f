package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern определяет допустимый формат email
// Упрощенная проверка: local@domain.tld без пробелов
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinDisplayNameLen минимальная длина отображаемого имени
	MinDisplayNameLen = 1
	// MaxDisplayNameLen максимальная длина отображаемого имени
	MaxDisplayNameLen = 64
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 254
)

// ValidateEmail проверяет, что email соответствует требованиям
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email has invalid format")
	}

	return nil
}

// ValidateDisplayName проверяет, что отображаемое имя соответствует требованиям
// Длина: 1-64 символа
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("display name cannot be empty")
	}

	if len(displayName) > MaxDisplayNameLen {
		return fmt.Errorf("display name must not exceed %d characters", MaxDisplayNameLen)
	}

	return nil
}

// ValidatePassword проверяет требования к паролю.
// Требование одно: пароль не пустой. Длина и состав не ограничиваются.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	return nil
}
