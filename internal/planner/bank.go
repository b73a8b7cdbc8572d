package planner

import (
	"context"
	"math/rand/v2"

	"qook-backend/internal/recipe"
)

// lookupBank tries to satisfy the request from the persisted recipe bank.
// Recipes are matched on the dominant requested mode and, when the
// request carries real diet tags, on diet containment. Excluded titles
// are dropped. The threshold is all-or-nothing: only when at least seven
// candidates remain is a random seven-recipe selection returned; anything
// less (including a failing store query) falls through to generation so
// the bank can never make a request fail.
func (p *Planner) lookupBank(ctx context.Context, req *PlanRequest, excluded map[string]struct{}) ([]recipe.Recipe, bool) {
	mode := req.DominantMode()
	recipes, err := p.bank.ListByMode(ctx, mode)
	if err != nil {
		p.log.Warn("bank lookup failed, falling through to generation",
			"mode", mode, "error", err)
		return nil, false
	}

	diet := req.EffectiveDiet()
	var candidates []recipe.Recipe
	for _, rec := range recipes {
		if !rec.HasAllDietTags(diet) {
			continue
		}
		if _, skip := excluded[rec.Title]; skip {
			continue
		}
		candidates = append(candidates, rec)
	}

	if len(candidates) < DaysPerPlan {
		return nil, false
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	days := make([]recipe.Recipe, DaysPerPlan)
	copy(days, candidates[:DaysPerPlan])
	for i := range days {
		days[i].DayNumber = i
	}
	return days, true
}
