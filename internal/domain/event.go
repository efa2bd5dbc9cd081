package domain

import (
	"time"

	"github.com/google/uuid"
)

// TurnEvent событие обработки хода для потока наблюдаемости (Kafka)
type TurnEvent struct {
	UserID         string           `json:"user_id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Seq            string           `json:"seq"`
	Status         GenerationStatus `json:"status"`
	ChartCacheHit  bool             `json:"chart_cache_hit"`
	Degraded       bool             `json:"degraded"`
	LatencyMs      int64            `json:"latency_ms"`
	CreatedAt      time.Time        `json:"created_at"`
}
