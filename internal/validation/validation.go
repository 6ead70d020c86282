package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrValidation базовая ошибка валидации
// Все ошибки пакета оборачивают ее, чтобы вызывающий код мог
// отличить некорректный ввод от инфраструктурных сбоев через errors.Is
var ErrValidation = errors.New("validation failed")

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
	// MinPassphraseLen минимальная длина master passphrase
	MinPassphraseLen = 12
	// MaxContentLen максимальная длина текста записи журнала
	MaxContentLen = 100_000
	// MaxCategoryLen максимальная длина категории заметки
	MaxCategoryLen = 64
)

// ValidateUsername проверяет, что username соответствует требованиям
// Формат: только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrValidation)
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters long", ErrValidation, MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username must not exceed %d characters", ErrValidation, MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)", ErrValidation)
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к master passphrase
// Минимум 12 символов
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("%w: passphrase cannot be empty", ErrValidation)
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("%w: passphrase must be at least %d characters long", ErrValidation, MinPassphraseLen)
	}

	return nil
}

// ValidateContent проверяет текст заметки, задачи или комментария
// Текст обязателен и ограничен сверху, чтобы дамп оставался переносимым
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}

	if len(content) > MaxContentLen {
		return fmt.Errorf("%w: content must not exceed %d bytes", ErrValidation, MaxContentLen)
	}

	return nil
}

// ValidateCategory проверяет категорию заметки (опциональное поле)
func ValidateCategory(category string) error {
	if len(category) > MaxCategoryLen {
		return fmt.Errorf("%w: category must not exceed %d bytes", ErrValidation, MaxCategoryLen)
	}

	return nil
}
