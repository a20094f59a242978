package genai

import "fmt"

const detectIngredientsPrompt = `Look at this picture of a fridge or food items and identify ALL visible food ingredients.

You MUST respond ONLY with a valid JSON object — no markdown, no backticks, no explanation.
Use this EXACT structure:
{"ingredients":["Chicken Breast","Eggs","Milk","Tomato","Lettuce","Cheese"]}

Be specific with ingredient names (e.g. "Cherry Tomatoes" not "vegetables").
Only include food items, not containers or non-food objects.`

const recipeShape = `[
  {
    "title": "Dish Name",
    "description": "A short catchy 1-line description",
    "time": "20 mins",
    "calories": "450 kcal",
    "protein": "35g",
    "carbs": "10g",
    "match": "Perfect Match",
    "ingredients": [
      {"name": "Salmon Fillets", "amount": "2 portions (200g each)"},
      {"name": "Fresh Lemon", "amount": "1 large"}
    ],
    "instructions": [
      "Preheat oven to 400°F (200°C).",
      "Season the fillets with salt and pepper.",
      "Bake for 12-15 minutes until flaky."
    ]
  }
]`

func generateRecipesPrompt(mood, ingredients string) string {
	return fmt.Sprintf(`You are a creative chef AI. Based on the following information, recommend 3 unique and delicious dishes.

Available Ingredients: %s
User Mood / Preference: %s

You MUST respond ONLY with a valid JSON array — no markdown, no backticks, no explanation.
Return exactly 3 recipe objects with this EXACT structure:
%s`, ingredients, mood, recipeShape)
}

func analyzeFridgePrompt(mood, ingredients string) string {
	return fmt.Sprintf(`Look at this picture of a fridge and identify the ingredients.
User Mood: %s. Manual Ingredients: %s.

Recommend 3 dishes. You MUST respond ONLY with a valid JSON array — no markdown, no backticks, no explanation.
Return exactly 3 objects with this EXACT structure:
%s`, mood, ingredients, recipeShape)
}

func recipeImagePrompt(title, description string) string {
	return fmt.Sprintf(`A professional food photograph of "%s". %s
Overhead shot, natural light, appetizing plating, restaurant quality. No text or watermarks.`, title, description)
}
