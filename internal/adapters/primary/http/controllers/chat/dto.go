package chatController

// ChatRequest тело POST /chat
type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

// ChatResponse ответ POST /chat
type ChatResponse struct {
	ConversationID  *string `json:"conversation_id"`
	Message         string  `json:"message"`
	ChartURL        string  `json:"chart_url,omitempty"`
	NeedsOnboarding bool    `json:"needs_onboarding,omitempty"`
}
