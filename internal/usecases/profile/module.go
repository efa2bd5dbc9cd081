package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/repository"
)

// Service бизнес-логика профилей: валидация, знак зодиака, запись
type Service struct {
	ProfileRepo repository.IProfileRepo
	Log         *slog.Logger
}

// New создаёт новый сервис профилей
func New(profileRepo repository.IProfileRepo, log *slog.Logger) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		Log:         log,
	}
}

// ProfileInput входные данные профиля до валидации
type ProfileInput struct {
	FirstName     string
	LastName      string
	BirthDate     string
	BirthTime     string
	BirthLocation string
	BirthCountry  string
	Email         *string
}

// Save валидирует вход, вычисляет знак зодиака и сохраняет профиль.
// Повторный вызов полностью заменяет данные рождения
func (s *Service) Save(ctx context.Context, userID string, input ProfileInput) (*domain.UserProfile, error) {
	normalized, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	sign, err := domain.CalculateZodiacSign(normalized.BirthDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.UserProfile{
		UserID:        userID,
		Email:         input.Email,
		FirstName:     normalized.FirstName,
		LastName:      normalized.LastName,
		BirthDate:     normalized.BirthDate,
		BirthTime:     normalized.BirthTime,
		BirthLocation: normalized.BirthLocation,
		BirthCountry:  normalized.BirthCountry,
		ZodiacSign:    sign,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.ProfileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.Log.Info("profile saved",
		"user_id", userID,
		"zodiac_sign", sign)

	return profile, nil
}

// Get возвращает профиль пользователя, отсутствие - domain.ErrNotFound
func (s *Service) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.ProfileRepo.GetByUserID(ctx, userID)
}
