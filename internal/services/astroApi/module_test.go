package astroApi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	astroApiAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/astroApi"
	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/pkg/retry"
)

func newTestServiceFor(serverURL string) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := astroApiAdapter.NewClient(&astroApiAdapter.Config{
		BaseURL:    serverURL,
		ApiVersion: "v1",
	}, log)
	return &Service{
		client: client,
		log:    log,
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			BaseDelay:   time.Millisecond,
			Retryable:   isTransient,
		},
	}
}

func chartProfile() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        "user-1",
		FirstName:     "Anna",
		LastName:      "Smith",
		BirthDate:     "1990-06-15",
		BirthTime:     "14:30",
		BirthLocation: "New York, NY",
		BirthCountry:  "United States",
	}
}

func TestComputeChart_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"planets":[]},"svg":"<svg/>"}`))
	}))
	defer server.Close()

	svc := newTestServiceFor(server.URL)

	data, svg, err := svc.ComputeChart(context.Background(), chartProfile())

	require.NoError(t, err)
	assert.JSONEq(t, `{"planets":[]}`, string(data))
	assert.Equal(t, "<svg/>", string(svg))
}

func TestComputeChart_RejectedRequestIsNotDependencyUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"status":"error","message":"unknown city"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	svc := newTestServiceFor(server.URL)

	_, _, err := svc.ComputeChart(context.Background(), chartProfile())

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDependencyUnavailable))

	var apiErr *astroApiAdapter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	// 4xx не повторяется
	assert.Equal(t, int32(1), calls.Load())
}

func TestComputeChart_ExhaustedRetriesIsDependencyUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestServiceFor(server.URL)

	_, _, err := svc.ComputeChart(context.Background(), chartProfile())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestComputeChart_InvalidBirthDate(t *testing.T) {
	svc := newTestServiceFor("http://127.0.0.1:0")

	profile := chartProfile()
	profile.BirthDate = "15/06/1990"

	_, _, err := svc.ComputeChart(context.Background(), profile)

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDependencyUnavailable))
}
