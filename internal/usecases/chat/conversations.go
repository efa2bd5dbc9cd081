package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/domain"
)

const (
	defaultConversationLimit = 20
	maxConversationLimit     = 100
	defaultMessageLimit      = 50
	maxMessageLimit          = 200
)

// CreateConversation создаёт пустой диалог с опциональным заголовком
func (s *Service) CreateConversation(ctx context.Context, userID, title string) (*domain.ConversationSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	if len([]rune(title)) > titleMaxLen {
		return nil, domain.NewValidationError("title", "title must be 100 characters or less")
	}

	now := time.Now().UTC()
	conv := &domain.ConversationSummary{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ConversationRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// ListConversations возвращает диалоги пользователя, свежие первыми
func (s *Service) ListConversations(ctx context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	limit = clampLimit(limit, defaultConversationLimit, maxConversationLimit)
	return s.ConversationRepo.ListByUser(ctx, userID, limit)
}

// GetMessages возвращает страницу ходов диалога до курсора before
// и курсор следующей страницы. Полная страница означает, что до
// seq её первого (самого раннего) хода могут быть ещё ходы
func (s *Service) GetMessages(ctx context.Context, userID string, conversationID uuid.UUID, limit int, before string) ([]domain.ConversationTurn, string, error) {
	limit = clampLimit(limit, defaultMessageLimit, maxMessageLimit)

	turns, err := s.ConversationRepo.ListTurns(ctx, userID, conversationID, limit, before)
	if err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(turns) == limit {
		nextCursor = turns[0].Seq
	}

	return turns, nextCursor, nil
}

// RenameConversation меняет заголовок диалога
func (s *Service) RenameConversation(ctx context.Context, userID string, conversationID uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.NewValidationError("title", "title is required")
	}
	if len([]rune(title)) > titleMaxLen {
		return domain.NewValidationError("title", "title must be 100 characters or less")
	}

	return s.ConversationRepo.Rename(ctx, userID, conversationID, title)
}

// DeleteConversation soft-delete диалога, идемпотентен для уже удалённого
func (s *Service) DeleteConversation(ctx context.Context, userID string, conversationID uuid.UUID) error {
	return s.ConversationRepo.SoftDelete(ctx, userID, conversationID)
}

// clampLimit дефолт при нуле и отрицательных, потолок сверху
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
