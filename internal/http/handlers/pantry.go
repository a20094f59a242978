package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/config"
	"github.com/purechef/purechef/internal/domain/pantry"
	"github.com/purechef/purechef/internal/http/middlewares"
	"github.com/purechef/purechef/internal/repo/mongodb"
)

type PantryStore interface {
	ListByUser(ctx context.Context, userID string) ([]pantry.Item, error)
	ExistsByName(ctx context.Context, userID, name string) (bool, error)
	Create(ctx context.Context, userID, name string) (pantry.Item, error)
	Delete(ctx context.Context, userID, id string) error
}

type PantryHandler struct {
	store PantryStore
}

func NewPantryHandler(store PantryStore) *PantryHandler {
	return &PantryHandler{store: store}
}

type AddPantryRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

func (h *PantryHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.store.ListByUser(cctx, userID)

	if err != nil {
		RespondPersistence(ctx, "Failed to load pantry.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
		"count":   len(items),
	})
}

// Add inserts each submitted name that is not already present for the user
// under case-insensitive comparison. Duplicates are skipped, not rejected:
// the response reports how many items were actually added.
func (h *PantryHandler) Add(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req AddPantryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	added := 0

	for _, name := range req.Ingredients {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		exists, err := h.store.ExistsByName(cctx, userID, name)
		if err != nil {
			RespondPersistence(ctx, "Failed to save ingredients.")
			return
		}
		if exists {
			continue
		}

		if _, err := h.store.Create(cctx, userID, name); err != nil {
			RespondPersistence(ctx, "Failed to save ingredients.")
			return
		}
		added++
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Added %d items to pantry.", added),
		"added":   added,
	})
}

func (h *PantryHandler) Delete(ctx *gin.Context) {
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
			RespondNotFound(ctx, "Ingredient not found or not authorized.")
			return
		}

		RespondPersistence(ctx, "Failed to remove ingredient.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Ingredient removed!"})
}
