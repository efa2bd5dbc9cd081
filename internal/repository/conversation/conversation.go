package conversationRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/persistence"
	ports "github.com/kimblewick/MiraAI/internal/ports/repository"
)

const previewMaxLen = 100

type conversationColumns struct {
	TableName          string
	ID                 string
	UserID             string
	Title              string
	TurnCount          string
	LastMessagePreview string
	Deleted            string
	DeletedAt          string
	CreatedAt          string
	UpdatedAt          string
}

type turnColumns struct {
	TableName         string
	ConversationID    string
	Seq               string
	UserID            string
	UserMessage       string
	AssistantResponse string
	ChartURL          string
	CreatedAt         string
	ExpiresAt         string
}

type Repository struct {
	db    persistence.Persistence
	Log   *slog.Logger
	conv  conversationColumns
	turns turnColumns
}

// New создаёт новый репозиторий для работы с диалогами
func New(db persistence.Persistence, log *slog.Logger) ports.IConversationRepo {
	return &Repository{
		db:  db,
		Log: log,
		conv: conversationColumns{
			TableName:          "conversations",
			ID:                 "id",
			UserID:             "user_id",
			Title:              "title",
			TurnCount:          "turn_count",
			LastMessagePreview: "last_message_preview",
			Deleted:            "deleted",
			DeletedAt:          "deleted_at",
			CreatedAt:          "created_at",
			UpdatedAt:          "updated_at",
		},
		turns: turnColumns{
			TableName:         "conversation_turns",
			ConversationID:    "conversation_id",
			Seq:               "seq",
			UserID:            "user_id",
			UserMessage:       "user_message",
			AssistantResponse: "assistant_response",
			ChartURL:          "chart_url",
			CreatedAt:         "created_at",
			ExpiresAt:         "expires_at",
		},
	}
}

// convColumnsList возвращает строку со всеми колонками диалога (9 колонок)
func (r *Repository) convColumnsList() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.conv.ID,
		r.conv.UserID,
		r.conv.Title,
		r.conv.TurnCount,
		r.conv.LastMessagePreview,
		r.conv.Deleted,
		r.conv.DeletedAt,
		r.conv.CreatedAt,
		r.conv.UpdatedAt)
}

// turnColumnsList возвращает строку со всеми колонками хода (8 колонок)
func (r *Repository) turnColumnsList() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		r.turns.ConversationID,
		r.turns.Seq,
		r.turns.UserID,
		r.turns.UserMessage,
		r.turns.AssistantResponse,
		r.turns.ChartURL,
		r.turns.CreatedAt,
		r.turns.ExpiresAt)
}

// Create создаёт новый диалог
func (r *Repository) Create(ctx context.Context, conv *domain.ConversationSummary) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.conv.TableName,
		r.convColumnsList())
	err := r.db.Exec(ctx, query,
		conv.ID,
		conv.UserID,
		conv.Title,
		conv.TurnCount,
		conv.LastMessagePreview,
		conv.Deleted,
		conv.DeletedAt,
		conv.CreatedAt,
		conv.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create conversation",
			"error", err,
			"conversation_id", conv.ID,
			"user_id", conv.UserID)
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	r.Log.Debug("conversation created successfully",
		"conversation_id", conv.ID,
		"user_id", conv.UserID)
	return nil
}

// GetByID получает диалог по ID в рамках пользователя.
// Чужой, удалённый и несуществующий диалог дают одинаковый ErrNotFound
func (r *Repository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.ConversationSummary, error) {
	var conv domain.ConversationSummary
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND NOT %s`,
		r.convColumnsList(),
		r.conv.TableName,
		r.conv.ID,
		r.conv.UserID,
		r.conv.Deleted)
	err := r.db.Get(ctx, &conv, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get conversation",
			"error", err,
			"conversation_id", id)
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// ListByUser возвращает неудалённые диалоги пользователя, свежие первыми
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	conversations := make([]domain.ConversationSummary, 0)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND NOT %s ORDER BY %s DESC LIMIT $2`,
		r.convColumnsList(),
		r.conv.TableName,
		r.conv.UserID,
		r.conv.Deleted,
		r.conv.UpdatedAt)
	err := r.db.Select(ctx, &conversations, query, userID, limit)
	if err != nil {
		r.Log.Error("failed to list conversations",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// Rename меняет заголовок диалога
func (r *Repository) Rename(ctx context.Context, userID string, id uuid.UUID, title string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2 AND NOT %s`,
		r.conv.TableName,
		r.conv.Title,
		r.conv.UpdatedAt,
		r.conv.ID,
		r.conv.UserID,
		r.conv.Deleted)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, id, userID, title)
	if err != nil {
		r.Log.Error("failed to rename conversation",
			"error", err,
			"conversation_id", id)
		return fmt.Errorf("failed to rename conversation: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete помечает диалог удалённым, ходы остаются до ретеншена.
// Повторное удаление идемпотентно
func (r *Repository) SoftDelete(ctx context.Context, userID string, id uuid.UUID) error {
	exists := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.conv.ID,
		r.conv.TableName,
		r.conv.ID,
		r.conv.UserID)
	var foundID uuid.UUID
	if err := r.db.Get(ctx, &foundID, exists, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to check conversation: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW(), %s = NOW() WHERE %s = $1 AND %s = $2 AND NOT %s`,
		r.conv.TableName,
		r.conv.Deleted,
		r.conv.DeletedAt,
		r.conv.UpdatedAt,
		r.conv.ID,
		r.conv.UserID,
		r.conv.Deleted)
	if err := r.db.Exec(ctx, query, id, userID); err != nil {
		r.Log.Error("failed to soft delete conversation",
			"error", err,
			"conversation_id", id)
		return fmt.Errorf("failed to soft delete conversation: %w", err)
	}
	r.Log.Debug("conversation soft deleted", "conversation_id", id)
	return nil
}

// AppendTurn пишет ход и обновляет метаданные диалога в одной транзакции.
// Читатель либо видит ход вместе с обновлённым счётчиком, либо не видит ничего
func (r *Repository) AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	// Обрезка по рунам: байтовая рвёт многобайтовый символ, и Postgres
	// отбрасывает невалидный UTF-8 вместе со всей транзакцией
	preview := turn.AssistantResponse
	if runes := []rune(preview); len(runes) > previewMaxLen {
		preview = string(runes[:previewMaxLen])
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		insertTurn := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.turns.TableName,
			r.turnColumnsList())
		if err := tx.Exec(ctx, insertTurn,
			turn.ConversationID,
			turn.Seq,
			turn.UserID,
			turn.UserMessage,
			turn.AssistantResponse,
			turn.ChartURL,
			turn.CreatedAt,
			turn.ExpiresAt); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}

		bumpConv := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = $3, %s = $4 WHERE %s = $1 AND %s = $2 AND NOT %s`,
			r.conv.TableName,
			r.conv.TurnCount,
			r.conv.TurnCount,
			r.conv.LastMessagePreview,
			r.conv.UpdatedAt,
			r.conv.ID,
			r.conv.UserID,
			r.conv.Deleted)
		rowsAffected, err := tx.ExecWithResult(ctx, bumpConv,
			turn.ConversationID,
			turn.UserID,
			preview,
			turn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to bump conversation metadata: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("conversation %s: %w", turn.ConversationID, domain.ErrNotFound)
		}

		return nil
	})
}

// ListTurns возвращает страницу последних ходов диалога до курсора before.
// Выборка идёт с конца, наружу страница отдаётся в хронологическом порядке.
// Сначала проверяется принадлежность диалога пользователю
func (r *Repository) ListTurns(ctx context.Context, userID string, conversationID uuid.UUID, limit int, before string) ([]domain.ConversationTurn, error) {
	if _, err := r.GetByID(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	turns := make([]domain.ConversationTurn, 0)
	var err error
	if before == "" {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2`,
			r.turnColumnsList(),
			r.turns.TableName,
			r.turns.ConversationID,
			r.turns.Seq)
		err = r.db.Select(ctx, &turns, query, conversationID, limit)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s < $2 ORDER BY %s DESC LIMIT $3`,
			r.turnColumnsList(),
			r.turns.TableName,
			r.turns.ConversationID,
			r.turns.Seq,
			r.turns.Seq)
		err = r.db.Select(ctx, &turns, query, conversationID, before, limit)
	}
	if err != nil {
		r.Log.Error("failed to list turns",
			"error", err,
			"conversation_id", conversationID)
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	// Разворачиваем в хронологический порядок
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteExpiredTurns удаляет ходы с истёкшим TTL, возвращает количество
func (r *Repository) DeleteExpiredTurns(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s <= $1`,
		r.turns.TableName,
		r.turns.ExpiresAt)
	deleted, err := r.db.ExecWithResult(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired turns: %w", err)
	}
	return deleted, nil
}

// PurgeDeleted физически удаляет давно soft-deleted диалоги вместе с ходами
func (r *Repository) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s AND %s <= $1`,
		r.conv.TableName,
		r.conv.Deleted,
		r.conv.DeletedAt)
	purged, err := r.db.ExecWithResult(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deleted conversations: %w", err)
	}
	return purged, nil
}
