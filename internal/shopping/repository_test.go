package shopping_test

import (
	"context"
	"path/filepath"
	"testing"

	"qook-backend/internal/database"
	"qook-backend/internal/shopping"
)

func newTestRepo(t *testing.T) *shopping.Repository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return shopping.NewRepository(db.SQL)
}

func TestShoppingListRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	list := &shopping.List{
		UserID: "u1",
		PlanID: "plan-1",
		Items: []shopping.Item{
			{ID: "it-0", Name: "Pompoen", Amount: 1, Unit: "stuks", Category: "Groente"},
			{ID: "it-1", Name: "Room", Amount: 250, Unit: "ml", Category: "Zuivel"},
		},
	}
	if _, err := repo.Save(ctx, list); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByPlanID(ctx, "plan-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected the list back, got nil")
	}
	if got.UserID != "u1" || len(got.Items) != 2 {
		t.Errorf("unexpected list: %+v", got)
	}
	if got.Items[0].Name != "Pompoen" || got.Items[0].Category != "Groente" {
		t.Errorf("items did not survive the round trip: %+v", got.Items)
	}
}

func TestShoppingListUnknownPlan(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetByPlanID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error for unknown plan, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown plan, got %+v", got)
	}
}

func TestShoppingListReplacesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := &shopping.List{UserID: "u1", PlanID: "plan-1", Items: []shopping.Item{{ID: "it-0", Name: "Brood"}}}
	if _, err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := &shopping.List{UserID: "u1", PlanID: "plan-1", Items: []shopping.Item{{ID: "it-0", Name: "Kaas"}, {ID: "it-1", Name: "Melk"}}}
	if _, err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.GetByPlanID(ctx, "plan-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "Kaas" {
		t.Errorf("expected the replacement list, got %+v", got.Items)
	}
}

func TestShoppingListDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	list := &shopping.List{UserID: "u1", PlanID: "plan-1", Items: []shopping.Item{{ID: "it-0", Name: "Brood"}}}
	if _, err := repo.Save(ctx, list); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.DeleteByPlanID(ctx, "plan-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.GetByPlanID(ctx, "plan-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected the list gone, got %+v", got)
	}
}
