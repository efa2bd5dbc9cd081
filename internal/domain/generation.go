package domain

// GenerationStatus замкнутый набор исходов вызова генеративной модели
type GenerationStatus string

const (
	GenerationOK      GenerationStatus = "ok"
	GenerationTimeout GenerationStatus = "timeout"
	GenerationError   GenerationStatus = "error"
)

// Generation исход вызова модели: либо текст, либо классифицированная ошибка
// Никогда не "голая" ошибка - оркестратор матчит стратегию ответа по статусу
type Generation struct {
	Status GenerationStatus
	Text   string
	Err    error // детали для логирования, nil при Status=ok
}

// PromptMessage одно сообщение в формате chat-completion
type PromptMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// PromptPayload собранный вход модели: system-персона + контекст + история
type PromptPayload struct {
	Messages []PromptMessage `json:"messages"`
}
