package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// IConversationRepo интерфейс для работы с диалогами и их ходами.
// Все читающие и изменяющие методы скоупятся по userID: чужой или
// несуществующий диалог неразличимы и дают domain.ErrNotFound
type IConversationRepo interface {
	Create(ctx context.Context, conv *domain.ConversationSummary) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.ConversationSummary, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ConversationSummary, error)
	Rename(ctx context.Context, userID string, id uuid.UUID, title string) error
	SoftDelete(ctx context.Context, userID string, id uuid.UUID) error

	// AppendTurn атомарно пишет ход и обновляет метаданные диалога
	// (turn_count, last_message_preview, updated_at) в одной транзакции
	AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error
	// ListTurns возвращает страницу последних ходов до курсора before
	// (пустой - с конца), в хронологическом порядке
	ListTurns(ctx context.Context, userID string, conversationID uuid.UUID, limit int, before string) ([]domain.ConversationTurn, error)

	// Методы ретеншена, дергаются фоновой джобой
	DeleteExpiredTurns(ctx context.Context, now time.Time) (int64, error)
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}
