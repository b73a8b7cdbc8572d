package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qook-backend/internal/recipe"
)

// PlanRepository is a database-backed PlanStore.
type PlanRepository struct {
	db      *sql.DB
	recipes *recipe.Repository
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB, recipes *recipe.Repository) *PlanRepository {
	return &PlanRepository{db: db, recipes: recipes}
}

// RecentTitles returns the titles of all recipes belonging to weekly
// plans the user created after the given instant.
func (r *PlanRepository) RecentTitles(ctx context.Context, userID string, since time.Time) ([]string, error) {
	const query = `
SELECT r.title
FROM recipes r
JOIN weekly_plans p ON r.weekly_plan_id = p.id
WHERE p.user_id = ? AND p.created_at >= ?`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("recent titles for user %s: %w", userID, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan recent title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// SavePlan inserts a weekly plan and its recipes in a single transaction,
// so a failure midway never leaves a partial plan behind.
func (r *PlanRepository) SavePlan(ctx context.Context, userID, zeroWasteReport string, days []recipe.Recipe) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin plan transaction: %w", err)
	}
	defer tx.Rollback()

	planID := uuid.NewString()
	const insertPlan = `
INSERT INTO weekly_plans (id, user_id, zero_waste_report, created_at)
VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertPlan, planID, userID, zeroWasteReport, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("insert weekly plan: %w", err)
	}

	for i := range days {
		days[i].WeeklyPlanID = planID
		if err := r.recipes.InsertTx(ctx, tx, &days[i]); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit weekly plan: %w", err)
	}
	return planID, nil
}

// PlanCount returns the number of persisted weekly plans.
func (r *PlanRepository) PlanCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weekly_plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count weekly plans: %w", err)
	}
	return count, nil
}
