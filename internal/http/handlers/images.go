package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/imagestore"
)

// ImagesHandler serves generated recipe photos back out of the image store.
type ImagesHandler struct {
	store imagestore.Store
}

func NewImagesHandler(store imagestore.Store) *ImagesHandler {
	return &ImagesHandler{store: store}
}

func (h *ImagesHandler) Get(ctx *gin.Context) {
	data, contentType, err := h.store.Open(ctx.Request.Context(), ctx.Param("name"))

	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			RespondNotFound(ctx, "Image not found")
			return
		}

		RespondPersistence(ctx, "Failed to load image")
		return
	}

	ctx.Header("Cache-Control", "public, max-age=86400, immutable")
	ctx.Data(http.StatusOK, contentType, data)
}
