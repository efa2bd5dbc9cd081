package service

import (
	"context"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// ILLMService интерфейс вызова генеративной модели.
// Generate не возвращает error: любой исход классифицирован в Generation,
// оркестратор выбирает стратегию ответа по статусу
type ILLMService interface {
	Generate(ctx context.Context, payload domain.PromptPayload) domain.Generation
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}
