package domain

import "time"

// ChartData - JSON представление натальной карты от астро-провайдера
// Хранится в кеше как есть, парсится только при сборке промпта
type ChartData []byte

// ChartCacheEntry запись кеша карт, иммутабельная после записи
// Ключуется фингерпринтом (данные рождения + окно эпохи)
type ChartCacheEntry struct {
	ChartData  ChartData `json:"chart_data"`
	ArtifactKey string   `json:"artifact_key"` // ключ SVG в S3
	ComputedAt time.Time `json:"computed_at"`
}

// ChartResult результат обращения к кешу карт.
// Unavailable=true означает, что провайдер недоступен после ретраев -
// вызывающая сторона решает, как деградировать
type ChartResult struct {
	Data        ChartData
	ChartURL    string // presigned URL на отрисованную карту
	CacheHit    bool
	Unavailable bool
}
