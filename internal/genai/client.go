// Package genai is the HTTP client for the Gemini generateContent API:
// ingredient detection, recipe generation and recipe photo synthesis.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/purechef/purechef/internal/domain/recipe"
)

// ErrUnavailable means the upstream could not be reached or answered with a
// server-side failure. Distinct from ErrFormat, which is a reachable model
// producing garbage.
var ErrUnavailable = errors.New("generative upstream unavailable")

// ErrNoAPIKey is returned when the client was constructed without a key.
var ErrNoAPIKey = errors.New("gemini api key is not configured")

// Metrics is the slice of observability the client reports into.
type Metrics interface {
	ObserveGenAI(kind, result string, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	httpClient *http.Client
	metrics    Metrics
}

func NewClient(baseURL, apiKey, textModel, imageModel string, metrics Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		textModel:  textModel,
		imageModel: imageModel,
		// No client-side timeout: a hung model stalls the request until the
		// caller's context or the network layer gives up.
		httpClient: &http.Client{},
		metrics:    metrics,
	}
}

// wire types for the generateContent endpoint

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// DetectIngredients sends the image to the text model and parses the
// contracted {"ingredients":[...]} object.
func (c *Client) DetectIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	start := time.Now()

	raw, err := c.generateText(ctx, []part{
		{Text: detectIngredientsPrompt},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
	})
	if err != nil {
		c.observe("detect", err, start)
		return nil, err
	}

	ingredients, err := ParseIngredients(raw)
	c.observe("detect", err, start)
	return ingredients, err
}

// GenerateRecipes asks for exactly three recipes matching the mood and
// ingredient list. Parse failure fails the whole call.
func (c *Client) GenerateRecipes(ctx context.Context, mood, ingredients string) ([]recipe.Generated, error) {
	start := time.Now()

	raw, err := c.generateText(ctx, []part{
		{Text: generateRecipesPrompt(mood, ingredients)},
	})
	if err != nil {
		c.observe("recipes", err, start)
		return nil, err
	}

	recipes, err := ParseRecipes(raw)
	c.observe("recipes", err, start)
	return recipes, err
}

// AnalyzeFridge combines a fridge photo with the mood/ingredient hints and
// asks for three recipes in one shot.
func (c *Client) AnalyzeFridge(ctx context.Context, image []byte, mimeType, mood, ingredients string) ([]recipe.Generated, error) {
	start := time.Now()

	raw, err := c.generateText(ctx, []part{
		{Text: analyzeFridgePrompt(mood, ingredients)},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
	})
	if err != nil {
		c.observe("recipes", err, start)
		return nil, err
	}

	recipes, err := ParseRecipes(raw)
	c.observe("recipes", err, start)
	return recipes, err
}

// GenerateRecipeImage asks the image model for a photo of the dish and
// returns the raw bytes plus their mime type.
func (c *Client) GenerateRecipeImage(ctx context.Context, title, description string) ([]byte, string, error) {
	start := time.Now()

	resp, err := c.generate(ctx, c.imageModel, []part{
		{Text: recipeImagePrompt(title, description)},
	})
	if err != nil {
		c.observe("image", err, start)
		return nil, "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil {
				continue
			}

			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				err = fmt.Errorf("%w: bad image payload: %s", ErrFormat, err)
				c.observe("image", err, start)
				return nil, "", err
			}

			c.observe("image", nil, start)
			return data, p.InlineData.MimeType, nil
		}
	}

	err = fmt.Errorf("%w: no image part in response", ErrFormat)
	c.observe("image", err, start)
	return nil, "", err
}

func (c *Client) generateText(ctx context.Context, parts []part) (string, error) {
	resp, err := c.generate(ctx, c.textModel, parts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", ErrFormat)
	}
	return b.String(), nil
}

func (c *Client) generate(ctx context.Context, model string, parts []part) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUnavailable, model, resp.StatusCode, payload)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %s", ErrFormat, err)
	}

	return &out, nil
}

func (c *Client) observe(kind string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}

	result := "ok"
	switch {
	case errors.Is(err, ErrFormat):
		result = "format_error"
	case err != nil:
		result = "unavailable"
	}

	c.metrics.ObserveGenAI(kind, result, time.Since(start))
}
