package repository

import (
	"context"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// IProfileRepo интерфейс для работы с профилями пользователей
type IProfileRepo interface {
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
}
