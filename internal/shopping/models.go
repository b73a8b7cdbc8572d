package shopping

import "time"

// Item is a single consolidated shopping list entry.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Checked  bool    `json:"checked"`
}

// List is a stored shopping list for one weekly plan.
type List struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}
