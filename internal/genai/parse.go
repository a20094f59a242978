package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/purechef/purechef/internal/domain/recipe"
)

// ErrFormat means the model answered, but not with the JSON shape it was
// instructed to produce. Callers fail the whole request; there is no
// partial-parse recovery even when most of the payload looks valid.
var ErrFormat = errors.New("upstream response is not the contracted JSON shape")

// StripFences removes markdown code-fence wrapping the model sometimes adds
// despite being told not to.
func StripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseIngredients parses the detect-ingredients contract:
// {"ingredients": ["..."]}. An absent or null list is an empty result, not
// an error.
func ParseIngredients(raw string) ([]string, error) {
	var out struct {
		Ingredients []string `json:"ingredients"`
	}

	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFormat, err)
	}

	if out.Ingredients == nil {
		return []string{}, nil
	}
	return out.Ingredients, nil
}

// ParseRecipes parses the generate-recipes contract: a JSON array of recipe
// objects. Any malformed entry fails the whole batch.
func ParseRecipes(raw string) ([]recipe.Generated, error) {
	var out []recipe.Generated

	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFormat, err)
	}

	return out, nil
}
