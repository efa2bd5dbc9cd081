package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationSummary метаданные треда диалога
type ConversationSummary struct {
	ID                 uuid.UUID  `json:"conversation_id" db:"id"`
	UserID             string     `json:"-" db:"user_id"`
	Title              string     `json:"title" db:"title"`
	TurnCount          int        `json:"message_count" db:"turn_count"`
	LastMessagePreview string     `json:"last_message_preview" db:"last_message_preview"`
	Deleted            bool       `json:"-" db:"deleted"`
	DeletedAt          *time.Time `json:"-" db:"deleted_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// ConversationTurn одна пара "вопрос пользователя + ответ ассистента"
// Запись атомарная: создаётся уже с ответом, промежуточное состояние не видно
type ConversationTurn struct {
	ConversationID    uuid.UUID `json:"-" db:"conversation_id"`
	UserID            string    `json:"-" db:"user_id"`
	Seq               string    `json:"seq" db:"seq"`
	UserMessage       string    `json:"user_message" db:"user_message"`
	AssistantResponse string    `json:"ai_response" db:"assistant_response"`
	ChartURL          *string   `json:"chart_url,omitempty" db:"chart_url"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	ExpiresAt         time.Time `json:"-" db:"expires_at"`
}

// NewSeqMarker генерирует маркер порядка хода без координатора.
// Лексикографический порядок маркеров совпадает с хронологическим:
// наносекунды с нулевым паддингом плюс случайный суффикс на случай
// совпадения времени у параллельных записей.
func NewSeqMarker(now time.Time) string {
	return fmt.Sprintf("%020d-%s", now.UnixNano(), uuid.NewString()[:8])
}
