package conversationsController

// CreateConversationRequest тело POST /conversations
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// RenameConversationRequest тело PATCH /conversations/:id
type RenameConversationRequest struct {
	Title string `json:"title"`
}
