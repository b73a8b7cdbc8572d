package app

import (
	"context"
	"errors"
	"testing"

	"qook-backend/internal/recipe"
)

const detailsJSON = `{
	"ingredients": [{"name": "Rijst", "amount": 300, "unit": "gram"}],
	"steps": [{"step_index": 1, "user_text": "Bak de rijst aan.", "needs_timer": true, "timer_label": "Rijst aanbakken", "estimated_duration_seconds": 120}],
	"supplies": ["Hapjespan"],
	"nutrition": {"calories": 480},
	"plating_tips": "Serveer met verse peterselie."
}`

func TestRecipeDetailsServedFromBank(t *testing.T) {
	recipes := newStubRecipeStore()
	recipes.recipes["r1"] = &recipe.Recipe{
		ID:                 "r1",
		Title:              "Risotto",
		CaloriesPerPortion: 500,
		Ingredients:        []recipe.Ingredient{{Name: "Rijst", Amount: 300, Unit: "gram"}},
		Steps:              []recipe.Step{{StepIndex: 1, UserText: "Bak de rijst aan."}},
	}
	gen := &stubTextGen{}
	a := newTestApp(testDeps{recipes: recipes, textGen: gen})

	details, err := a.RecipeDetails(context.Background(), DetailsRequest{MealID: "r1", AdultsCount: 2, ChildrenCount: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gen.callCount != 0 {
		t.Error("stored details must not invoke the oracle")
	}
	if details.Title != "Risotto" || len(details.Ingredients) != 1 {
		t.Errorf("unexpected details: %+v", details)
	}
	if details.Nutrition == nil || details.Nutrition.Calories != 500 {
		t.Errorf("expected stored calories, got %+v", details.Nutrition)
	}
	if details.Servings != 3 {
		t.Errorf("expected 3 servings, got %d", details.Servings)
	}
}

func TestRecipeDetailsGeneratedAndBackfilled(t *testing.T) {
	recipes := newStubRecipeStore()
	recipes.recipes["r1"] = &recipe.Recipe{ID: "r1", Title: "Risotto", Mode: "premium"}
	gen := &stubTextGen{response: detailsJSON}
	metrics := &stubMetrics{}
	a := newTestApp(testDeps{recipes: recipes, textGen: gen, metrics: metrics})

	details, err := a.RecipeDetails(context.Background(), DetailsRequest{MealID: "r1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gen.callCount != 1 {
		t.Fatalf("expected one oracle call, got %d", gen.callCount)
	}
	if details.ID != "r1" || details.Title != "Risotto" {
		t.Errorf("unexpected details identity: %+v", details)
	}
	if len(details.Steps) != 1 || !details.Steps[0].NeedsTimer {
		t.Errorf("unexpected steps: %+v", details.Steps)
	}

	upd, ok := recipes.updates["r1"]
	if !ok {
		t.Fatal("expected the details to be backfilled")
	}
	if upd.CaloriesPerPortion != 480 {
		t.Errorf("expected backfilled calories, got %d", upd.CaloriesPerPortion)
	}

	if len(metrics.metas) != 1 || metrics.metas[0].Operation != "recipe-details" {
		t.Errorf("expected a recipe-details metric, got %+v", metrics.metas)
	}
}

func TestRecipeDetailsBackfillFailureIsNotFatal(t *testing.T) {
	recipes := newStubRecipeStore()
	recipes.recipes["r1"] = &recipe.Recipe{ID: "r1", Title: "Risotto"}
	recipes.updateErr = errors.New("db locked")
	a := newTestApp(testDeps{recipes: recipes, textGen: &stubTextGen{response: detailsJSON}})

	if _, err := a.RecipeDetails(context.Background(), DetailsRequest{MealID: "r1"}); err != nil {
		t.Fatalf("backfill failure must not fail the request, got %v", err)
	}
}

func TestRecipeDetailsUnknownMealGeneratesFromTitle(t *testing.T) {
	gen := &stubTextGen{response: detailsJSON}
	a := newTestApp(testDeps{textGen: gen})

	details, err := a.RecipeDetails(context.Background(), DetailsRequest{MealID: "ephemeral-1", MealTitle: "Wraps", Mode: "snel"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if details.Title != "Wraps" {
		t.Errorf("expected the request title, got %q", details.Title)
	}
	if details.ID != "" {
		t.Errorf("unknown meals must not gain an id, got %q", details.ID)
	}
}

func TestRecipeDetailsRequiresTitle(t *testing.T) {
	a := newTestApp(testDeps{})

	if _, err := a.RecipeDetails(context.Background(), DetailsRequest{}); err == nil {
		t.Fatal("expected an error without meal id or title")
	}
}

func TestRecipeDetailsLookupFailureFallsThrough(t *testing.T) {
	recipes := newStubRecipeStore()
	recipes.getErr = errors.New("db locked")
	gen := &stubTextGen{response: detailsJSON}
	a := newTestApp(testDeps{recipes: recipes, textGen: gen})

	details, err := a.RecipeDetails(context.Background(), DetailsRequest{MealID: "r1", MealTitle: "Risotto"})
	if err != nil {
		t.Fatalf("lookup failure must degrade to generation, got %v", err)
	}
	if gen.callCount != 1 {
		t.Errorf("expected one oracle call, got %d", gen.callCount)
	}
	if details.Title != "Risotto" {
		t.Errorf("expected the request title, got %q", details.Title)
	}
}
