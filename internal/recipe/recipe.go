package recipe

import "time"

// Ingredient is a single structured ingredient line.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Step is a single ordered cooking step.
type Step struct {
	StepIndex                int    `json:"step_index"`
	UserText                 string `json:"user_text"`
	NeedsTimer               bool   `json:"needs_timer"`
	TimerLabel               string `json:"timer_label,omitempty"`
	EstimatedDurationSeconds int    `json:"estimated_duration_seconds,omitempty"`
}

// WinePairing is an optional pairing suggestion for culinary-mode meals.
type WinePairing struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Recipe is a persisted meal belonging to one weekly plan. Titles act as
// the unit of exclusion/matching across plans; uniqueness is not enforced
// at the storage level.
type Recipe struct {
	ID                   string       `json:"id"`
	WeeklyPlanID         string       `json:"weekly_plan_id,omitempty"`
	DayNumber            int          `json:"day_number"`
	Title                string       `json:"title"`
	ShortDescription     string       `json:"short_description"`
	AIImagePrompt        string       `json:"ai_image_prompt,omitempty"`
	ImageURL             string       `json:"image_url,omitempty"`
	Mode                 string       `json:"mode"`
	DietTags             []string     `json:"diet_tags,omitempty"`
	Ingredients          []Ingredient `json:"ingredients,omitempty"`
	Steps                []Step       `json:"steps,omitempty"`
	EstimatedTimeMinutes int          `json:"estimated_time_minutes"`
	CaloriesPerPortion   int          `json:"calories_per_portion"`
	Difficulty           string       `json:"difficulty,omitempty"`
	WinePairing          *WinePairing `json:"wine_pairing,omitempty"`
	PlatingTips          string       `json:"plating_tips,omitempty"`
	CreatedAt            time.Time    `json:"-"`
}

// HasDetails reports whether the recipe already carries its full
// ingredient and step breakdown.
func (r *Recipe) HasDetails() bool {
	return len(r.Ingredients) > 0 && len(r.Steps) > 0
}

// HasAllDietTags reports whether the recipe's tags are a superset of the
// requested diet tags.
func (r *Recipe) HasAllDietTags(requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	tags := make(map[string]struct{}, len(r.DietTags))
	for _, t := range r.DietTags {
		tags[t] = struct{}{}
	}
	for _, want := range requested {
		if _, ok := tags[want]; !ok {
			return false
		}
	}
	return true
}
