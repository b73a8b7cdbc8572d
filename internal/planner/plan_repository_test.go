package planner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"qook-backend/internal/database"
	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
)

func newTestRepos(t *testing.T) (*planner.PlanRepository, *recipe.Repository) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	recipes := recipe.NewRepository(db.SQL)
	return planner.NewPlanRepository(db.SQL, recipes), recipes
}

func week(prefix string) []recipe.Recipe {
	days := make([]recipe.Recipe, 0, planner.DaysPerPlan)
	for i := 0; i < planner.DaysPerPlan; i++ {
		days = append(days, recipe.Recipe{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			DayNumber: i,
			Title:     fmt.Sprintf("%s gerecht %d", prefix, i),
			Mode:      "premium",
		})
	}
	return days
}

func TestSavePlanAndRecentTitles(t *testing.T) {
	ctx := context.Background()
	plans, recipes := newTestRepos(t)

	planID, err := plans.SavePlan(ctx, "u1", "Geen restjes deze week.", week("a"))
	if err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if planID == "" {
		t.Fatal("expected a plan id")
	}

	count, err := recipes.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != planner.DaysPerPlan {
		t.Errorf("expected %d recipes, got %d", planner.DaysPerPlan, count)
	}

	titles, err := plans.RecentTitles(ctx, "u1", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("recent titles: %v", err)
	}
	if len(titles) != planner.DaysPerPlan {
		t.Errorf("expected %d recent titles, got %d", planner.DaysPerPlan, len(titles))
	}

	// Other users see no history.
	titles, err = plans.RecentTitles(ctx, "u2", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("recent titles: %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("expected no titles for another user, got %d", len(titles))
	}

	// A window starting in the future excludes the plan.
	titles, err = plans.RecentTitles(ctx, "u1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("recent titles: %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("expected no titles outside the window, got %d", len(titles))
	}
}

func TestSavePlanIsAtomic(t *testing.T) {
	ctx := context.Background()
	plans, recipes := newTestRepos(t)

	days := week("a")
	days[4].ID = days[3].ID // forces a primary key conflict mid-insert

	if _, err := plans.SavePlan(ctx, "u1", "", days); err == nil {
		t.Fatal("expected the conflicting insert to fail")
	}

	count, err := recipes.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to remove all recipes, got %d", count)
	}

	planCount, err := plans.PlanCount(ctx)
	if err != nil {
		t.Fatalf("plan count: %v", err)
	}
	if planCount != 0 {
		t.Errorf("expected rollback to remove the plan row, got %d", planCount)
	}
}
