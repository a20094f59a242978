package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/purechef/purechef/internal/cache"
	"github.com/purechef/purechef/internal/domain/recipe"
	"github.com/purechef/purechef/internal/genai"
	"github.com/purechef/purechef/internal/imagestore"
)

const (
	defaultMood        = "hungry"
	defaultIngredients = "none"
	fridgeImageField   = "fridgeImage"
)

// RecipeGenerator is the slice of the Gemini client the AI routes need.
type RecipeGenerator interface {
	DetectIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error)
	GenerateRecipes(ctx context.Context, mood, ingredients string) ([]recipe.Generated, error)
	AnalyzeFridge(ctx context.Context, image []byte, mimeType, mood, ingredients string) ([]recipe.Generated, error)
	GenerateRecipeImage(ctx context.Context, title, description string) ([]byte, string, error)
}

type AIHandler struct {
	ai      RecipeGenerator
	images  imagestore.Store
	cache   *cache.RecipeCache
	log     *slog.Logger
	baseURL string
}

func NewAIHandler(ai RecipeGenerator, images imagestore.Store, recipeCache *cache.RecipeCache, log *slog.Logger, baseURL string) *AIHandler {
	return &AIHandler{
		ai:      ai,
		images:  images,
		cache:   recipeCache,
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// DetectIngredients reads the uploaded fridge photo and returns the
// ingredient names the model saw.
func (h *AIHandler) DetectIngredients(ctx *gin.Context) {
	image, mimeType, ok := h.readFridgeImage(ctx)
	if !ok {
		return
	}

	ingredients, err := h.ai.DetectIngredients(ctx.Request.Context(), image, mimeType)

	if err != nil {
		h.respondAIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "ingredients": ingredients})
}

type DetectBase64Request struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

// DetectIngredientsBase64 is the same contract for clients that send the
// photo as a base64 JSON field instead of multipart.
func (h *AIHandler) DetectIngredientsBase64(ctx *gin.Context) {
	var req DetectBase64Request

	if !BindJSON(ctx, &req) {
		return
	}

	raw := req.Image
	// tolerate data URLs: data:image/png;base64,....
	if i := strings.Index(raw, "base64,"); i >= 0 {
		raw = raw[i+len("base64,"):]
	}

	image, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(image) == 0 {
		RespondBadRequest(ctx, "Image must be valid base64.", nil)
		return
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ingredients, err := h.ai.DetectIngredients(ctx.Request.Context(), image, mimeType)

	if err != nil {
		h.respondAIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "ingredients": ingredients})
}

type GenerateRecipesRequest struct {
	Mood string `json:"mood"`
	// Accepts either a free-text string or an array of ingredient names.
	Ingredients json.RawMessage `json:"ingredients"`
}

func (r GenerateRecipesRequest) mood() string {
	if strings.TrimSpace(r.Mood) == "" {
		return defaultMood
	}
	return r.Mood
}

func (r GenerateRecipesRequest) ingredientsText() (string, bool) {
	if len(r.Ingredients) == 0 {
		return defaultIngredients, true
	}

	var asString string
	if err := json.Unmarshal(r.Ingredients, &asString); err == nil {
		if strings.TrimSpace(asString) == "" {
			return defaultIngredients, true
		}
		return asString, true
	}

	var asList []string
	if err := json.Unmarshal(r.Ingredients, &asList); err == nil {
		if len(asList) == 0 {
			return defaultIngredients, true
		}
		return strings.Join(asList, ", "), true
	}

	return "", false
}

// GenerateRecipes asks the model for three dishes matching the mood and
// ingredients. Responses are cached briefly so identical prompts skip the
// model round trip.
func (h *AIHandler) GenerateRecipes(ctx *gin.Context) {
	recipes, ok := h.generateFromText(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

// GenerateRecipesV2 additionally generates a photo per recipe. The three
// image calls fan out concurrently; a failed image degrades that one recipe
// to no photo instead of failing the batch.
func (h *AIHandler) GenerateRecipesV2(ctx *gin.Context) {
	recipes, ok := h.generateFromText(ctx)
	if !ok {
		return
	}

	h.enrichWithImages(ctx.Request.Context(), recipes)

	ctx.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

func (h *AIHandler) generateFromText(ctx *gin.Context) ([]recipe.Generated, bool) {
	var req GenerateRecipesRequest

	if !BindJSON(ctx, &req) {
		return nil, false
	}

	ingredients, ok := req.ingredientsText()
	if !ok {
		RespondBadRequest(ctx, "Ingredients must be a string or an array of strings.", nil)
		return nil, false
	}
	mood := req.mood()

	key := cache.Key(mood, ingredients)
	if recipes, hit := h.cache.Get(ctx.Request.Context(), key); hit {
		return recipes, true
	}

	recipes, err := h.ai.GenerateRecipes(ctx.Request.Context(), mood, ingredients)

	if err != nil {
		h.respondAIError(ctx, err)
		return nil, false
	}

	h.cache.Set(ctx.Request.Context(), key, recipes)

	return recipes, true
}

// AnalyzeFridge combines the fridge photo with optional mood/ingredients
// form fields in a single model call.
func (h *AIHandler) AnalyzeFridge(ctx *gin.Context) {
	image, mimeType, ok := h.readFridgeImage(ctx)
	if !ok {
		return
	}

	mood := ctx.PostForm("mood")
	if strings.TrimSpace(mood) == "" {
		mood = defaultMood
	}

	ingredients := ctx.PostForm("ingredients")
	if strings.TrimSpace(ingredients) == "" {
		ingredients = defaultIngredients
	}

	recipes, err := h.ai.AnalyzeFridge(ctx.Request.Context(), image, mimeType, mood, ingredients)

	if err != nil {
		h.respondAIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

type GenerateRecipeImageRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// GenerateRecipeImage produces one photo for a single dish and returns the
// URL it is served under.
func (h *AIHandler) GenerateRecipeImage(ctx *gin.Context) {
	var req GenerateRecipeImageRequest

	if !BindJSON(ctx, &req) {
		return
	}

	data, mimeType, err := h.ai.GenerateRecipeImage(ctx.Request.Context(), req.Title, req.Description)

	if err != nil {
		h.respondAIError(ctx, err)
		return
	}

	name := imagestore.NewName(mimeType)

	if err := h.images.Save(ctx.Request.Context(), name, data, mimeType); err != nil {
		RespondPersistence(ctx, "Failed to store generated image.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": h.imageURL(name)})
}

func (h *AIHandler) enrichWithImages(ctx context.Context, recipes []recipe.Generated) {
	var g errgroup.Group

	for i := range recipes {
		i := i

		g.Go(func() error {
			data, mimeType, err := h.ai.GenerateRecipeImage(ctx, recipes[i].Title, recipes[i].Description)
			if err != nil {
				h.log.Warn("recipe image generation failed", "title", recipes[i].Title, "err", err)
				return nil
			}

			name := imagestore.NewName(mimeType)
			if err := h.images.Save(ctx, name, data, mimeType); err != nil {
				h.log.Warn("recipe image store failed", "title", recipes[i].Title, "err", err)
				return nil
			}

			// Each goroutine writes only its own index; no arrival-order
			// coordination is needed.
			recipes[i].ImageURL = h.imageURL(name)
			return nil
		})
	}

	_ = g.Wait()
}

func (h *AIHandler) imageURL(name string) string {
	return h.baseURL + "/images/" + name
}

func (h *AIHandler) readFridgeImage(ctx *gin.Context) ([]byte, string, bool) {
	file, header, err := ctx.Request.FormFile(fridgeImageField)

	if err != nil {
		RespondBadRequest(ctx, "No fridge picture uploaded!", nil)
		return nil, "", false
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		RespondBadRequest(ctx, "No fridge picture uploaded!", nil)
		return nil, "", false
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return image, mimeType, true
}

func (h *AIHandler) respondAIError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, genai.ErrNoAPIKey):
		RespondMisconfigured(ctx)
	case errors.Is(err, genai.ErrFormat):
		RespondUpstreamFormat(ctx, "The model returned an unexpected response. Please try again.")
	default:
		RespondUnavailable(ctx, "upstream_unavailable", "The recipe assistant is unavailable. Please try again later.")
	}
}
