package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/config"
	"github.com/purechef/purechef/internal/domain/recipe"
	"github.com/purechef/purechef/internal/http/middlewares"
	"github.com/purechef/purechef/internal/repo/mongodb"
)

type RecipeStore interface {
	Create(ctx context.Context, userID string, req recipe.SaveRecipeRequest) (recipe.Recipe, error)
	ListByUser(ctx context.Context, userID string) ([]recipe.Recipe, error)
	Delete(ctx context.Context, userID, id string) error
}

type RecipesHandler struct {
	store RecipeStore
}

func NewRecipesHandler(store RecipeStore) *RecipesHandler {
	return &RecipesHandler{store: store}
}

func (h *RecipesHandler) Save(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req recipe.SaveRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	saved, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondPersistence(ctx, "Failed to save recipe.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Saved to Cookbook!",
		"recipe":  saved,
	})
}

func (h *RecipesHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	recipes, err := h.store.ListByUser(cctx, userID)

	if err != nil {
		RespondPersistence(ctx, "Failed to load cookbook.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipes": recipes,
		"count":   len(recipes),
	})
}

func (h *RecipesHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, userID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			RespondNotFound(ctx, "Recipe not found or not authorized.")
			return
		}

		RespondPersistence(ctx, "Failed to delete recipe.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe deleted!"})
}
