package profileRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/persistence"
	ports "github.com/kimblewick/MiraAI/internal/ports/repository"
)

type profileColumns struct {
	TableName     string
	UserID        string
	Email         string
	FirstName     string
	LastName      string
	BirthDate     string
	BirthTime     string
	BirthLocation string
	BirthCountry  string
	ZodiacSign    string
	CreatedAt     string
	UpdatedAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns profileColumns
}

// New создаёт новый репозиторий для работы с профилями
func New(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	cols := profileColumns{
		TableName:     "user_profiles",
		UserID:        "user_id",
		Email:         "email",
		FirstName:     "first_name",
		LastName:      "last_name",
		BirthDate:     "birth_date",
		BirthTime:     "birth_time",
		BirthLocation: "birth_location",
		BirthCountry:  "birth_country",
		ZodiacSign:    "zodiac_sign",
		CreatedAt:     "created_at",
		UpdatedAt:     "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (11 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.UserID,
		r.columns.Email,
		r.columns.FirstName,
		r.columns.LastName,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthLocation,
		r.columns.BirthCountry,
		r.columns.ZodiacSign,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// Upsert создаёт профиль или полностью заменяет существующий.
// created_at сохраняется от первой записи, updated_at всегда обновляется
func (r *Repository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (%s) DO UPDATE SET
		%s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
		%s = $7, %s = $8, %s = $9, %s = $11`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.UserID,
		r.columns.Email,
		r.columns.FirstName,
		r.columns.LastName,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthLocation,
		r.columns.BirthCountry,
		r.columns.ZodiacSign,
		r.columns.UpdatedAt)
	err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthLocation,
		profile.BirthCountry,
		profile.ZodiacSign,
		profile.CreatedAt,
		profile.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to upsert profile",
			"error", err,
			"user_id", profile.UserID)
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	r.Log.Debug("profile upserted successfully", "user_id", profile.UserID)
	return nil
}

// GetByUserID получает профиль по идентификатору пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID)
	err := r.db.Get(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("profile not found", "user_id", userID)
			return nil, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}
