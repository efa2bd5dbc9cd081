package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/cache"
)

const chartKeyPrefix = "astro:chart:"

// chartFingerprint детерминированный ключ кеша: данные рождения + окно эпохи.
// Смена любой компоненты рождения или переход в следующее окно дают новый ключ,
// старые записи не инвалидируются - их добивает TTL
func chartFingerprint(profile *domain.UserProfile, now time.Time, epoch time.Duration) string {
	bucket := now.UTC().Truncate(epoch).Unix()
	payload := fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		profile.UserID,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthLocation,
		profile.BirthCountry,
		bucket)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// GetOrCompute возвращает карту из кеша либо считает через провайдера.
// Недоступность провайдера и кеша не ошибка: возвращается Unavailable,
// деградацию решает оркестратор. Параллельные промахи могут посчитать
// карту дважды - принятый компромисс вместо распределённого лока
func (s *Service) GetOrCompute(ctx context.Context, profile *domain.UserProfile) domain.ChartResult {
	fp := chartFingerprint(profile, time.Now(), s.epoch)
	key := chartKeyPrefix + fp

	if entry, ok := s.cacheLookup(ctx, key); ok {
		url := s.presignArtifact(ctx, entry.ArtifactKey)
		return domain.ChartResult{
			Data:     entry.ChartData,
			ChartURL: url,
			CacheHit: true,
		}
	}

	chartData, svg, err := s.AstroService.ComputeChart(ctx, profile)
	if err != nil {
		if errors.Is(err, domain.ErrDependencyUnavailable) {
			s.Log.Warn("chart provider unavailable, degrading",
				"user_id", profile.UserID,
				"error", err)
			return domain.ChartResult{Unavailable: true}
		}
		s.Log.Error("chart computation failed",
			"user_id", profile.UserID,
			"error", err)
		return domain.ChartResult{Unavailable: true}
	}

	artifactKey := s.uploadArtifact(ctx, profile.UserID, svg)

	entry := domain.ChartCacheEntry{
		ChartData:   chartData,
		ArtifactKey: artifactKey,
		ComputedAt:  time.Now().UTC(),
	}
	s.cacheStore(ctx, key, entry)

	return domain.ChartResult{
		Data:     chartData,
		ChartURL: s.presignArtifact(ctx, artifactKey),
	}
}

// cacheLookup читает запись кеша, промах и сбой Redis неразличимы для вызова
func (s *Service) cacheLookup(ctx context.Context, key string) (domain.ChartCacheEntry, bool) {
	var entry domain.ChartCacheEntry

	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.Log.Warn("chart cache read failed", "error", err)
		}
		return entry, false
	}

	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.Log.Warn("chart cache entry corrupted, recomputing", "error", err)
		return entry, false
	}

	return entry, true
}

// cacheStore пишет запись кеша fire-and-forget: сбой логируется, не всплывает
func (s *Service) cacheStore(ctx context.Context, key string, entry domain.ChartCacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		s.Log.Error("failed to marshal chart cache entry", "error", err)
		return
	}

	if err := s.Cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.Log.Warn("chart cache write failed", "error", err)
	}
}

// uploadArtifact кладёт SVG карты в S3, возвращает ключ или пустую строку
func (s *Service) uploadArtifact(ctx context.Context, userID string, svg []byte) string {
	if len(svg) == 0 {
		return ""
	}

	key := fmt.Sprintf("charts/%s/%d.svg", userID, time.Now().Unix())
	if err := s.S3.PutFile(ctx, key, svg, "image/svg+xml"); err != nil {
		s.Log.Warn("chart artifact upload failed", "error", err, "key", key)
		return ""
	}
	return key
}

// presignArtifact выдаёт временную ссылку на SVG, пустой ключ - пустая ссылка
func (s *Service) presignArtifact(ctx context.Context, artifactKey string) string {
	if artifactKey == "" {
		return ""
	}

	url, err := s.S3.GetPresignedURL(ctx, artifactKey, presignExpiry)
	if err != nil {
		s.Log.Warn("chart artifact presign failed", "error", err, "key", artifactKey)
		return ""
	}
	return url
}
