package chatController

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/httperr"
	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/middlewares"
	"github.com/kimblewick/MiraAI/internal/domain"
	chatUsecase "github.com/kimblewick/MiraAI/internal/usecases/chat"
)

type Controller struct {
	ChatService *chatUsecase.Service
	Auth        gin.HandlerFunc
	Log         *slog.Logger
}

func New(chatService *chatUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		ChatService: chatService,
		Auth:        auth,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", c.Auth, c.handleChat)
}

// handleChat один ход диалога: сообщение внутрь, ответ ассистента наружу
func (c *Controller) handleChat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind chat request", "error", err)
		httperr.Respond(ctx, domain.NewValidationError("body", "invalid request body"), "")
		return
	}

	userID := ctx.GetString(middlewares.ContextUserID)

	var conversationID *uuid.UUID
	if req.ConversationID != nil && *req.ConversationID != "" {
		parsed, err := uuid.Parse(*req.ConversationID)
		if err != nil {
			httperr.Respond(ctx, domain.NewValidationError("conversation_id", "must be a valid UUID"), "")
			return
		}
		conversationID = &parsed
	}

	result, err := c.ChatService.HandleTurn(ctx.Request.Context(), userID, conversationID, req.Message)
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	resp := ChatResponse{
		Message:         result.Message,
		ChartURL:        result.ChartURL,
		NeedsOnboarding: result.NeedsOnboarding,
	}
	if result.ConversationID != nil {
		id := result.ConversationID.String()
		resp.ConversationID = &id
	}

	ctx.JSON(http.StatusOK, resp)
}
