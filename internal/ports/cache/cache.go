package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss ключ отсутствует в кэше. Промах не сбой: вызывающая сторона
// матчит его через errors.Is и идёт за данными к источнику
var ErrMiss = errors.New("cache miss")

// Cache интерфейс key-value кэша (Redis)
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
