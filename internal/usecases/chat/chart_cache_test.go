package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimblewick/MiraAI/internal/domain"
)

func TestChartFingerprint_StableWithinEpoch(t *testing.T) {
	profile := testProfile()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := chartFingerprint(profile, now, 24*time.Hour)
	b := chartFingerprint(profile, now.Add(3*time.Hour), 24*time.Hour)

	assert.Equal(t, a, b)
}

func TestChartFingerprint_ChangesAcrossEpochBoundary(t *testing.T) {
	profile := testProfile()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := chartFingerprint(profile, now, 24*time.Hour)
	b := chartFingerprint(profile, now.Add(24*time.Hour), 24*time.Hour)

	assert.NotEqual(t, a, b)
}

func TestChartFingerprint_ChangesWithBirthData(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := chartFingerprint(testProfile(), now, 24*time.Hour)

	other := testProfile()
	other.BirthDate = "1991-06-15"
	b := chartFingerprint(other, now, 24*time.Hour)

	assert.NotEqual(t, a, b)
}

func TestGetOrCompute_MissComputesAndCaches(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(deps)

	result := svc.GetOrCompute(context.Background(), testProfile())

	assert.False(t, result.CacheHit)
	assert.False(t, result.Unavailable)
	assert.Equal(t, deps.astro.data, result.Data)
	assert.NotEmpty(t, result.ChartURL)
	assert.Equal(t, 1, deps.astro.calls)

	// SVG ушёл в S3, запись легла в кеш
	assert.Len(t, deps.s3.files, 1)
	assert.Len(t, deps.cache.data, 1)
}

func TestGetOrCompute_HitSkipsProvider(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(deps)

	profile := testProfile()
	entry := domain.ChartCacheEntry{
		ChartData:   domain.ChartData(`{"data":{},"aspects":[]}`),
		ArtifactKey: "charts/user-1/123.svg",
		ComputedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	key := chartKeyPrefix + chartFingerprint(profile, time.Now(), svc.epoch)
	deps.cache.data[key] = string(raw)

	result := svc.GetOrCompute(context.Background(), profile)

	assert.True(t, result.CacheHit)
	assert.Equal(t, 0, deps.astro.calls)
	assert.Equal(t, "https://s3.local/charts/user-1/123.svg", result.ChartURL)
}

func TestGetOrCompute_CorruptedEntryRecomputes(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(deps)

	profile := testProfile()
	key := chartKeyPrefix + chartFingerprint(profile, time.Now(), svc.epoch)
	deps.cache.data[key] = "{not json"

	result := svc.GetOrCompute(context.Background(), profile)

	assert.False(t, result.CacheHit)
	assert.Equal(t, 1, deps.astro.calls)
}

func TestGetOrCompute_CacheFailureFallsThroughToProvider(t *testing.T) {
	deps := defaultDeps()
	deps.cache.getErr = errors.New("connection reset")
	svc := newTestService(deps)

	result := svc.GetOrCompute(context.Background(), testProfile())

	assert.False(t, result.CacheHit)
	assert.False(t, result.Unavailable)
	assert.Equal(t, 1, deps.astro.calls)
}

func TestGetOrCompute_ProviderDownReturnsUnavailable(t *testing.T) {
	deps := defaultDeps()
	deps.astro = &fakeAstroService{err: domain.ErrDependencyUnavailable}
	svc := newTestService(deps)

	result := svc.GetOrCompute(context.Background(), testProfile())

	assert.True(t, result.Unavailable)
	assert.Empty(t, result.ChartURL)
	assert.Empty(t, deps.cache.data)
}

func TestGetOrCompute_UploadFailureStillReturnsChart(t *testing.T) {
	deps := defaultDeps()
	deps.s3.putErr = errors.New("bucket unavailable")
	svc := newTestService(deps)

	result := svc.GetOrCompute(context.Background(), testProfile())

	assert.False(t, result.Unavailable)
	assert.Equal(t, deps.astro.data, result.Data)
	assert.Empty(t, result.ChartURL)
}
