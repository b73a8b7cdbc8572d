package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qook-backend/internal/llm"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
)

// DetailsRequest asks for the full recipe of a previously served meal.
type DetailsRequest struct {
	MealID        string `json:"meal_id"`
	MealTitle     string `json:"meal_title"`
	Mode          string `json:"mode"`
	AdultsCount   int    `json:"adultsCount"`
	ChildrenCount int    `json:"childrenCount"`
	Language      string `json:"language"`
}

// Nutrition carries per-portion nutrition facts.
type Nutrition struct {
	Calories int `json:"calories"`
}

// RecipeDetails is the full cooking breakdown of one meal.
type RecipeDetails struct {
	ID          string              `json:"id,omitempty"`
	Title       string              `json:"title,omitempty"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Steps       []recipe.Step       `json:"steps"`
	Supplies    []string            `json:"supplies,omitempty"`
	Nutrition   *Nutrition          `json:"nutrition,omitempty"`
	PlatingTips string              `json:"plating_tips,omitempty"`
	WinePairing *recipe.WinePairing `json:"wine_pairing,omitempty"`
	Servings    int                 `json:"servings,omitempty"`
}

// RecipeDetails serves the cache-then-fill pattern: details already in the
// bank are returned as-is; otherwise the oracle generates them and they
// are backfilled onto the stored recipe for next time.
func (a *App) RecipeDetails(ctx context.Context, req DetailsRequest) (*RecipeDetails, error) {
	servings := req.AdultsCount + req.ChildrenCount
	if servings <= 0 {
		servings = 2
	}

	var stored *recipe.Recipe
	if req.MealID != "" {
		rec, err := a.recipes.Get(ctx, req.MealID)
		if err != nil {
			// Best-effort cache: fall through to generation.
			a.log.Warn("recipe lookup failed, generating details", "meal_id", req.MealID, "error", err)
		} else {
			stored = rec
		}
	}

	if stored != nil && stored.HasDetails() {
		return &RecipeDetails{
			ID:          stored.ID,
			Title:       stored.Title,
			Ingredients: stored.Ingredients,
			Steps:       stored.Steps,
			Nutrition:   &Nutrition{Calories: stored.CaloriesPerPortion},
			PlatingTips: stored.PlatingTips,
			WinePairing: stored.WinePairing,
			Servings:    servings,
		}, nil
	}

	title := req.MealTitle
	mode := req.Mode
	if stored != nil {
		title = stored.Title
		if mode == "" {
			mode = stored.Mode
		}
	}
	if title == "" {
		return nil, fmt.Errorf("meal title is required when the meal is not in the bank")
	}

	details, err := a.generateDetails(ctx, title, mode, req.Language, servings)
	if err != nil {
		return nil, err
	}

	if stored != nil {
		calories := 0
		if details.Nutrition != nil {
			calories = details.Nutrition.Calories
		}
		upd := recipe.DetailUpdate{
			Ingredients:        details.Ingredients,
			Steps:              details.Steps,
			CaloriesPerPortion: calories,
			PlatingTips:        details.PlatingTips,
			WinePairing:        details.WinePairing,
		}
		if err := a.recipes.UpdateDetails(ctx, stored.ID, upd); err != nil {
			a.log.Warn("failed to backfill recipe details", "meal_id", stored.ID, "error", err)
		}
		details.ID = stored.ID
	}
	details.Title = title
	details.Servings = servings
	return details, nil
}

func (a *App) generateDetails(ctx context.Context, title, mode, language string, servings int) (*RecipeDetails, error) {
	prompt := fmt.Sprintf(`Full recipe for: %s. Mode: %s. Servings: %d. Language for all user-facing text: %s.

Return the result strictly as a JSON object with this structure:
{
  "ingredients": [{"name": "...", "amount": 0, "unit": "..."}],
  "steps": [{"step_index": 1, "user_text": "...", "needs_timer": false, "timer_label": "...", "estimated_duration_seconds": 0}],
  "supplies": ["..."],
  "nutrition": {"calories": 0},
  "plating_tips": "...",
  "wine_pairing": {"type": "...", "description": "..."}
}

STRICT TIMER RULES:
1. NEVER a timer for the oven (ovens have their own timers).
2. NEVER a timer for preparation (cutting, washing, measuring).
3. NEVER a timer for preheating.
4. ONLY a timer for active stove-top processes (boiling, simmering, frying) or passive processes (resting, marinating) where exact timing is essential.
5. The "timer_label" must describe briefly what is being timed.`,
		title, mode, servings, language)

	start := time.Now()
	resp, err := a.textGen.GenerateContent(ctx, llm.Request{
		Prompt:          prompt,
		Temperature:     0.4,
		MaxOutputTokens: 4096,
		JSONOutput:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate recipe details: %w", err)
	}
	a.recordMeta(ctx, shared.CallMeta{Operation: "recipe-details", Usage: resp.Usage, Latency: time.Since(start)})

	extracted, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse recipe details: %w", err)
	}

	var details RecipeDetails
	if err := json.Unmarshal(extracted.JSON, &details); err != nil {
		return nil, fmt.Errorf("decode recipe details: %w", err)
	}
	return &details, nil
}
