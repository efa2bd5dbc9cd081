package service

import (
	"context"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// IAstroAPIService интерфейс провайдера натальных карт.
// ComputeChart возвращает сырой JSON карты и отрисованный SVG
type IAstroAPIService interface {
	ComputeChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, []byte, error)
}
