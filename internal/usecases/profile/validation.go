package profile

import (
	"regexp"
	"strings"
	"time"

	"github.com/kimblewick/MiraAI/internal/domain"
)

const (
	nameMaxLen     = 50
	locationMinLen = 2
	locationMaxLen = 100
)

// Буквы, пробелы, дефисы и апострофы: "Mary-Jane", "O'Brien"
var namePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

var minBirthDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// validateInput проверяет и нормализует поля профиля.
// Первая невалидная находка возвращается как ValidationError с именем поля
func validateInput(input ProfileInput) (ProfileInput, error) {
	out := input

	var err error
	if out.FirstName, err = validateName("first_name", input.FirstName); err != nil {
		return out, err
	}
	if out.LastName, err = validateName("last_name", input.LastName); err != nil {
		return out, err
	}
	if err = validateBirthDate(input.BirthDate); err != nil {
		return out, err
	}
	out.BirthDate = strings.TrimSpace(input.BirthDate)

	if err = validateBirthTime(input.BirthTime); err != nil {
		return out, err
	}
	out.BirthTime = strings.TrimSpace(input.BirthTime)

	if out.BirthLocation, err = validatePlace("birth_location", input.BirthLocation); err != nil {
		return out, err
	}
	if out.BirthCountry, err = validatePlace("birth_country", input.BirthCountry); err != nil {
		return out, err
	}

	return out, nil
}

func validateName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", domain.NewValidationError(field, "cannot be empty")
	}
	if len([]rune(trimmed)) > nameMaxLen {
		return "", domain.NewValidationError(field, "must be at most 50 characters")
	}
	if !namePattern.MatchString(trimmed) {
		return "", domain.NewValidationError(field, "can only contain letters, spaces, hyphens, and apostrophes")
	}
	return trimmed, nil
}

func validateBirthDate(value string) error {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return domain.NewValidationError("birth_date", "invalid date format, expected YYYY-MM-DD")
	}
	if parsed.After(time.Now()) {
		return domain.NewValidationError("birth_date", "cannot be in the future")
	}
	if parsed.Before(minBirthDate) {
		return domain.NewValidationError("birth_date", "cannot be before 1900-01-01")
	}
	return nil
}

func validateBirthTime(value string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(value)); err != nil {
		return domain.NewValidationError("birth_time", "invalid time format, expected HH:MM")
	}
	return nil
}

func validatePlace(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", domain.NewValidationError(field, "cannot be empty")
	}
	length := len([]rune(trimmed))
	if length < locationMinLen {
		return "", domain.NewValidationError(field, "must be at least 2 characters")
	}
	if length > locationMaxLen {
		return "", domain.NewValidationError(field, "must be at most 100 characters")
	}
	return trimmed, nil
}
