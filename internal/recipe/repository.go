package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const recipeColumns = `id, weekly_plan_id, day_number, title, short_description, ai_image_prompt,
image_url, mode, diet_tags, ingredients, steps, estimated_time_minutes,
calories_per_portion, difficulty, wine_pairing, plating_tips, created_at`

// Repository is a database-backed repository for the recipe bank.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListByMode returns all recipes carrying the given mode tag.
func (r *Repository) ListByMode(ctx context.Context, mode string) ([]Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE mode = ? ORDER BY created_at DESC`, recipeColumns)
	rows, err := r.db.QueryContext(ctx, query, mode)
	if err != nil {
		return nil, fmt.Errorf("list recipes by mode: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

// Get retrieves a recipe by its ID. Returns nil when the recipe is unknown.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = ?`, recipeColumns)
	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

// InsertTx inserts a recipe within an existing transaction.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, rec *Recipe) error {
	dietJSON, err := json.Marshal(emptyIfNil(rec.DietTags))
	if err != nil {
		return fmt.Errorf("marshal diet tags: %w", err)
	}
	ingredientsJSON, err := json.Marshal(emptyIfNilIngredients(rec.Ingredients))
	if err != nil {
		return fmt.Errorf("marshal ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(emptyIfNilSteps(rec.Steps))
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	wine := ""
	if rec.WinePairing != nil {
		raw, err := json.Marshal(rec.WinePairing)
		if err != nil {
			return fmt.Errorf("marshal wine pairing: %w", err)
		}
		wine = string(raw)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO recipes (id, weekly_plan_id, day_number, title, short_description, ai_image_prompt,
image_url, mode, diet_tags, ingredients, steps, estimated_time_minutes,
calories_per_portion, difficulty, wine_pairing, plating_tips, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		rec.ID, rec.WeeklyPlanID, rec.DayNumber, rec.Title, rec.ShortDescription, rec.AIImagePrompt,
		rec.ImageURL, rec.Mode, string(dietJSON), string(ingredientsJSON), string(stepsJSON),
		rec.EstimatedTimeMinutes, rec.CaloriesPerPortion, rec.Difficulty, wine, rec.PlatingTips,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recipe %q: %w", rec.Title, err)
	}
	return nil
}

// DetailUpdate carries the lazily generated fields backfilled onto a recipe.
type DetailUpdate struct {
	Ingredients        []Ingredient
	Steps              []Step
	CaloriesPerPortion int
	PlatingTips        string
	WinePairing        *WinePairing
}

// UpdateDetails backfills the full ingredient/step breakdown of a recipe.
func (r *Repository) UpdateDetails(ctx context.Context, id string, upd DetailUpdate) error {
	ingredientsJSON, err := json.Marshal(emptyIfNilIngredients(upd.Ingredients))
	if err != nil {
		return fmt.Errorf("marshal ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(emptyIfNilSteps(upd.Steps))
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	wine := ""
	if upd.WinePairing != nil {
		raw, err := json.Marshal(upd.WinePairing)
		if err != nil {
			return fmt.Errorf("marshal wine pairing: %w", err)
		}
		wine = string(raw)
	}

	const query = `
UPDATE recipes
SET ingredients = ?, steps = ?, calories_per_portion = CASE WHEN ? > 0 THEN ? ELSE calories_per_portion END,
    plating_tips = CASE WHEN ? != '' THEN ? ELSE plating_tips END,
    wine_pairing = CASE WHEN ? != '' THEN ? ELSE wine_pairing END
WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query,
		string(ingredientsJSON), string(stepsJSON),
		upd.CaloriesPerPortion, upd.CaloriesPerPortion,
		upd.PlatingTips, upd.PlatingTips,
		wine, wine,
		id,
	); err != nil {
		return fmt.Errorf("update recipe details: %w", err)
	}
	return nil
}

// UpdateImageURL stores a hosted image URL on a recipe.
func (r *Repository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	const query = `UPDATE recipes SET image_url = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, imageURL, id); err != nil {
		return fmt.Errorf("update recipe image url: %w", err)
	}
	return nil
}

// Count returns the number of recipes in the bank.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var rec Recipe
	var dietJSON, ingredientsJSON, stepsJSON, wineJSON string
	if err := row.Scan(
		&rec.ID, &rec.WeeklyPlanID, &rec.DayNumber, &rec.Title, &rec.ShortDescription, &rec.AIImagePrompt,
		&rec.ImageURL, &rec.Mode, &dietJSON, &ingredientsJSON, &stepsJSON, &rec.EstimatedTimeMinutes,
		&rec.CaloriesPerPortion, &rec.Difficulty, &wineJSON, &rec.PlatingTips, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan recipe: %w", err)
	}

	if err := json.Unmarshal([]byte(dietJSON), &rec.DietTags); err != nil {
		return nil, fmt.Errorf("unmarshal diet tags for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("unmarshal ingredients for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &rec.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps for %s: %w", rec.ID, err)
	}
	if wineJSON != "" {
		var wp WinePairing
		if err := json.Unmarshal([]byte(wineJSON), &wp); err != nil {
			return nil, fmt.Errorf("unmarshal wine pairing for %s: %w", rec.ID, err)
		}
		rec.WinePairing = &wp
	}
	return &rec, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilIngredients(s []Ingredient) []Ingredient {
	if s == nil {
		return []Ingredient{}
	}
	return s
}

func emptyIfNilSteps(s []Step) []Step {
	if s == nil {
		return []Step{}
	}
	return s
}
