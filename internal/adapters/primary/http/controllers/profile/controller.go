package profileController

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/httperr"
	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/middlewares"
	"github.com/kimblewick/MiraAI/internal/domain"
	profileUsecase "github.com/kimblewick/MiraAI/internal/usecases/profile"
)

type Controller struct {
	ProfileService *profileUsecase.Service
	Auth           gin.HandlerFunc
	Log            *slog.Logger
}

func New(profileService *profileUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		ProfileService: profileService,
		Auth:           auth,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/profile", c.Auth)
	group.POST("", c.save)
	group.GET("", c.get)
}

func (c *Controller) save(ctx *gin.Context) {
	var req SaveProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind profile request", "error", err)
		httperr.Respond(ctx, domain.NewValidationError("body", "invalid request body"), "")
		return
	}

	userID := ctx.GetString(middlewares.ContextUserID)

	input := profileUsecase.ProfileInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BirthDate:     req.BirthDate,
		BirthTime:     req.BirthTime,
		BirthLocation: req.BirthLocation,
		BirthCountry:  req.BirthCountry,
	}
	if email := ctx.GetString(middlewares.ContextEmail); email != "" {
		input.Email = &email
	}

	saved, err := c.ProfileService.Save(ctx.Request.Context(), userID, input)
	if err != nil {
		httperr.Respond(ctx, err, "PROFILE_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusOK, saved)
}

func (c *Controller) get(ctx *gin.Context) {
	userID := ctx.GetString(middlewares.ContextUserID)

	found, err := c.ProfileService.Get(ctx.Request.Context(), userID)
	if err != nil {
		httperr.Respond(ctx, err, "PROFILE_NOT_FOUND")
		return
	}

	ctx.JSON(http.StatusOK, found)
}
