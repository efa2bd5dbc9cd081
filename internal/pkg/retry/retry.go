package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy политика повторов с экспоненциальными паузами.
// Retryable решает, имеет ли смысл повторять: клиентские ошибки (4xx,
// невалидный вход) повторять бессмысленно, сетевые и 5xx - да.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// Do выполняет fn до первого успеха или исчерпания попыток.
// Пауза перед попыткой n равна BaseDelay * 2^(n-1): 1s, 2s, 4s при базе в секунду.
// Контекст проверяется перед каждой паузой, отмена возвращается немедленно.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	delay := p.BaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry interrupted after %d attempts: %w", attempt-1, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
