package conversationsController

import (
	"log/slog"
	"net/http"
	"strconv"

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
	group := router.Group("/conversations", c.Auth)
	group.POST("", c.create)
	group.GET("", c.list)
	group.GET("/:id/messages", c.messages)
	group.PATCH("/:id", c.rename)
	group.DELETE("/:id", c.remove)
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateConversationRequest
	// Тело опционально: пустое даёт дефолтный заголовок
	_ = ctx.ShouldBindJSON(&req)

	userID := ctx.GetString(middlewares.ContextUserID)

	conv, err := c.ChatService.CreateConversation(ctx.Request.Context(), userID, req.Title)
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusCreated, conv)
}

func (c *Controller) list(ctx *gin.Context) {
	userID := ctx.GetString(middlewares.ContextUserID)
	limit := parseLimit(ctx.Query("limit"))

	conversations, err := c.ChatService.ListConversations(ctx.Request.Context(), userID, limit)
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

func (c *Controller) messages(ctx *gin.Context) {
	userID := ctx.GetString(middlewares.ContextUserID)

	conversationID, err := parseConversationID(ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	limit := parseLimit(ctx.Query("limit"))
	before := ctx.Query("before")

	turns, nextCursor, err := c.ChatService.GetMessages(ctx.Request.Context(), userID, conversationID, limit, before)
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	body := gin.H{
		"conversation_id": conversationID,
		"messages":        turns,
		"count":           len(turns),
	}
	if nextCursor != "" {
		body["next_cursor"] = nextCursor
	}

	ctx.JSON(http.StatusOK, body)
}

func (c *Controller) rename(ctx *gin.Context) {
	userID := ctx.GetString(middlewares.ContextUserID)

	conversationID, err := parseConversationID(ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	var req RenameConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httperr.Respond(ctx, domain.NewValidationError("body", "invalid request body"), "")
		return
	}

	if err := c.ChatService.RenameConversation(ctx.Request.Context(), userID, conversationID, req.Title); err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"title":           req.Title,
	})
}

func (c *Controller) remove(ctx *gin.Context) {
	userID := ctx.GetString(middlewares.ContextUserID)

	conversationID, err := parseConversationID(ctx.Param("id"))
	if err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	if err := c.ChatService.DeleteConversation(ctx.Request.Context(), userID, conversationID); err != nil {
		httperr.Respond(ctx, err, "CONVERSATION_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseConversationID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("conversation_id", "must be a valid UUID")
	}
	return id, nil
}

// parseLimit невалидный лимит молча заменяется дефолтом в usecase
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
