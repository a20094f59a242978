package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/config"
	"github.com/purechef/purechef/internal/domain/recipe"
	"github.com/purechef/purechef/internal/http/middlewares"
	"github.com/purechef/purechef/internal/recency"
)

// RecentHandler fronts the recency manager: record-view applies the
// retention policy inline, list-recent reads the windowed page.
type RecentHandler struct {
	manager *recency.Manager
}

func NewRecentHandler(manager *recency.Manager) *RecentHandler {
	return &RecentHandler{manager: manager}
}

type RecordViewRequest struct {
	Recipe recipe.Generated `json:"recipe" binding:"required"`
}

func (h *RecentHandler) RecordView(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req RecordViewRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Recipe.Title == "" {
		RespondBadRequest(ctx, "Recipe with title is required.", nil)
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	view, err := h.manager.RecordView(cctx, userID, req.Recipe)

	if err != nil {
		RespondPersistence(ctx, "Failed to record recipe view.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "View recorded",
		"recentRecipe": view,
	})
}

func (h *RecentHandler) ListRecent(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	views, err := h.manager.ListRecent(cctx, userID)

	if err != nil {
		RespondPersistence(ctx, "Failed to load recent recipes.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"recentRecipes": views,
		"count":         len(views),
	})
}
