package genai

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no_fences",
			in:   `{"ingredients":["Eggs"]}`,
			want: `{"ingredients":["Eggs"]}`,
		},
		{
			name: "json_fence",
			in:   "```json\n{\"ingredients\":[\"Eggs\"]}\n```",
			want: `{"ingredients":["Eggs"]}`,
		},
		{
			name: "bare_fence",
			in:   "```\n[1,2]\n```",
			want: `[1,2]`,
		},
		{
			name: "surrounding_whitespace",
			in:   "  \n```json\n{}\n```  \n",
			want: `{}`,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIngredients(t *testing.T) {
	got, err := ParseIngredients("```json\n{\"ingredients\":[\"Milk\",\"Cherry Tomatoes\"]}\n```")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(got) != 2 || got[0] != "Milk" || got[1] != "Cherry Tomatoes" {
		t.Fatalf("unexpected ingredients: %v", got)
	}
}

func TestParseIngredientsMissingListIsEmpty(t *testing.T) {
	got, err := ParseIngredients(`{}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %v", got)
	}
}

func TestParseIngredientsMalformedFails(t *testing.T) {
	if _, err := ParseIngredients("here are your ingredients!"); !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
}

func TestParseRecipes(t *testing.T) {
	raw := "```json\n" + `[
  {
    "title": "Baked Salmon",
    "description": "Flaky and bright",
    "time": "20 mins",
    "calories": "450 kcal",
    "protein": "35g",
    "carbs": "10g",
    "match": "Perfect Match",
    "ingredients": [{"name": "Salmon Fillets", "amount": "2 portions"}],
    "instructions": ["Preheat oven.", "Bake."]
  }
]` + "\n```"

	got, err := ParseRecipes(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d recipes, want 1", len(got))
	}

	r := got[0]
	if r.Title != "Baked Salmon" || len(r.Ingredients) != 1 || r.Ingredients[0].Amount != "2 portions" {
		t.Fatalf("unexpected recipe: %+v", r)
	}
}

func TestParseRecipesNoPartialRecovery(t *testing.T) {
	// Two valid entries followed by truncation: the whole batch fails.
	raw := `[{"title":"A"},{"title":"B"},{"title":`

	got, err := ParseRecipes(raw)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
	if got != nil {
		t.Fatalf("expected zero recipes on parse failure, got %v", got)
	}
}
