package astroApi

import "encoding/json"

// BirthData представляет данные о рождении для API запроса
type BirthData struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Subject представляет субъекта натальной карты
type Subject struct {
	Name      string    `json:"name"`
	BirthData BirthData `json:"birth_data"`
}

// ChartOptions представляет опции для расчета карты
type ChartOptions struct {
	HouseSystem  string   `json:"house_system"`  // "P" для Плацидуса
	ZodiacType   string   `json:"zodiac_type"`   // "Tropic" для тропического
	ActivePoints []string `json:"active_points"` // ["Sun", "Moon", ...]
	IncludeSVG   bool     `json:"include_svg"`
}

// NatalChartRequest представляет запрос на расчет натальной карты
type NatalChartRequest struct {
	Subject Subject      `json:"subject"`
	Options ChartOptions `json:"options"`
}

// NatalChartResponse представляет ответ API.
// Data не парсится глубже: сырой JSON уходит в кеш и промпт как есть
type NatalChartResponse struct {
	Status  string          `json:"status"`
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	SVG     string          `json:"svg,omitempty"`
}
