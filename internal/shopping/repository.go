package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a shopping list, replacing any earlier list for the same plan.
func (r *Repository) Save(ctx context.Context, list *List) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (user_id, plan_id, items, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			user_id = excluded.user_id,
			items = excluded.items,
			created_at = excluded.created_at
	`, list.UserID, list.PlanID, string(itemsJSON), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list id: %w", err)
	}
	return id, nil
}

// GetByPlanID retrieves the shopping list stored for a weekly plan.
// Returns (nil, nil) when none exists.
func (r *Repository) GetByPlanID(ctx context.Context, planID string) (*List, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, items, created_at
		FROM shopping_lists
		WHERE plan_id = ?
	`, planID)

	var list List
	var itemsJSON string
	err := row.Scan(&list.ID, &list.UserID, &list.PlanID, &itemsJSON, &list.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list for plan %s: %w", planID, err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}

// DeleteByPlanID removes the shopping list stored for a weekly plan.
func (r *Repository) DeleteByPlanID(ctx context.Context, planID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list for plan %s: %w", planID, err)
	}
	return nil
}
