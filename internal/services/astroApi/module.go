package astroApi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	astroApiAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/astroApi"
	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/pkg/retry"
	"github.com/kimblewick/MiraAI/internal/ports/service"
)

const (
	maxAttempts = 3
	baseDelay   = 1 * time.Second
)

var activePoints = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
	"Ascendant", "Medium_Coeli",
}

// Service реализует IAstroAPIService поверх астро-API с ретраями
type Service struct {
	client *astroApiAdapter.Client
	log    *slog.Logger
	policy retry.Policy
}

// New создаёт новый сервис для работы с астро-API
func New(client *astroApiAdapter.Client, log *slog.Logger) service.IAstroAPIService {
	return &Service{
		client: client,
		log:    log,
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			BaseDelay:   baseDelay,
			Retryable:   isTransient,
		},
	}
}

// isTransient сетевые сбои и 5xx повторяемы, 4xx - нет
func isTransient(err error) bool {
	var apiErr *astroApiAdapter.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsTransient()
	}
	return true
}

// ComputeChart рассчитывает натальную карту по профилю.
// После исчерпания ретраев возвращает ErrDependencyUnavailable -
// вызывающая сторона деградирует, а не падает
func (s *Service) ComputeChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, []byte, error) {
	req, err := buildRequest(profile)
	if err != nil {
		return nil, nil, err
	}

	var resp *astroApiAdapter.NatalChartResponse
	err = s.policy.Do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = s.client.CalculateNatalChart(ctx, req)
		return callErr
	})
	if err != nil {
		// 4xx - отказ провайдера по существу запроса, не недоступность
		var apiErr *astroApiAdapter.APIError
		if errors.As(err, &apiErr) && !apiErr.IsTransient() {
			return nil, nil, fmt.Errorf("chart request rejected: %w", err)
		}

		s.log.Warn("astro provider unavailable after retries",
			"error", err,
			"user_id", profile.UserID)
		return nil, nil, fmt.Errorf("compute chart: %w: %w", domain.ErrDependencyUnavailable, err)
	}

	if len(resp.Data) == 0 {
		return nil, nil, fmt.Errorf("astro API returned empty chart data")
	}

	if resp.Status != "" && resp.Status != "success" {
		return nil, nil, fmt.Errorf("astro API returned error: status=%s, code=%d, message=%s",
			resp.Status, resp.Code, resp.Message)
	}

	return domain.ChartData(resp.Data), []byte(resp.SVG), nil
}

// buildRequest собирает запрос к API из данных рождения профиля
func buildRequest(profile *domain.UserProfile) (astroApiAdapter.NatalChartRequest, error) {
	birthDate, err := time.Parse("2006-01-02", profile.BirthDate)
	if err != nil {
		return astroApiAdapter.NatalChartRequest{}, fmt.Errorf("invalid birth_date %q: %w", profile.BirthDate, err)
	}

	hour, minute, err := parseBirthTime(profile.BirthTime)
	if err != nil {
		return astroApiAdapter.NatalChartRequest{}, err
	}

	return astroApiAdapter.NatalChartRequest{
		Subject: astroApiAdapter.Subject{
			Name: profile.FullName(),
			BirthData: astroApiAdapter.BirthData{
				Year:    birthDate.Year(),
				Month:   int(birthDate.Month()),
				Day:     birthDate.Day(),
				Hour:    hour,
				Minute:  minute,
				City:    profile.BirthLocation,
				Country: profile.BirthCountry,
			},
		},
		Options: astroApiAdapter.ChartOptions{
			HouseSystem:  "P", // Плацидус
			ZodiacType:   "Tropic",
			ActivePoints: activePoints,
			IncludeSVG:   true,
		},
	}, nil
}

// parseBirthTime парсит время рождения в формате HH:MM
func parseBirthTime(birthTime string) (int, int, error) {
	parts := strings.SplitN(birthTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid birth_time %q: expected HH:MM", birthTime)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid birth_time hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid birth_time minute %q", parts[1])
	}

	return hour, minute, nil
}
