package domain

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки таксономии. HTTP-слой мапит их на статусы,
// usecase-слой решает, какие из них поглощаются деградацией.
var (
	// ErrNotFound профиль или диалог отсутствует либо принадлежит другому
	// пользователю - оба случая неразличимы снаружи, чтобы не светить
	// существование чужих данных
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized токен отсутствует, невалиден или истёк
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDependencyUnavailable внешний провайдер исчерпал ретраи или таймауты.
	// Восстановимая: триггерит деградацию, а не отказ запроса
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrPersistence запись в хранилище не удалась после успешного ответа
	// модели. Логируется, наружу как упавший ход не отдаётся
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError ошибка валидации тела запроса с указанием поля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
