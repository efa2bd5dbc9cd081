package events

import (
	"context"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// IEventProducer интерфейс для публикации событий обработки ходов.
// Отправка fire-and-forget: сбой продюсера не должен ронять запрос
type IEventProducer interface {
	SendTurnEvent(ctx context.Context, event domain.TurnEvent) error
	Close() error
}
