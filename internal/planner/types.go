package planner

import "sort"

// AnonymousUserID is the sentinel the web client sends when no account is
// linked. Anonymous requests are served without touching persisted history
// and without writing anything.
const AnonymousUserID = "demo-user"

// DietNone is the "no dietary constraint" sentinel tag.
const DietNone = "Geen"

// DefaultMode is the weekday mode assumed when the request leaves a day unset.
const DefaultMode = "premium"

// PlanRequest carries the caller's preferences for one plan generation.
// It is supplied once per request and never mutated afterwards.
type PlanRequest struct {
	UserID            string         `json:"user_id"`
	AdultsCount       int            `json:"adultsCount"`
	ChildrenCount     int            `json:"childrenCount"`
	Diet              []string       `json:"diet"`
	Budget            string         `json:"budget"`
	DayModes          map[int]string `json:"dayModes"`
	Language          string         `json:"language"`
	GenerationHistory []string       `json:"generationHistory"`
	FavoriteTitles    []string       `json:"favorite_titles"`
	ZeroWasteLevel    *int           `json:"zeroWasteLevel"`
}

// Normalize applies the request defaults the web client relies on.
func (r *PlanRequest) Normalize() {
	if r.AdultsCount <= 0 {
		r.AdultsCount = 2
	}
	if r.ChildrenCount < 0 {
		r.ChildrenCount = 0
	}
	if r.Budget == "" {
		r.Budget = "Normaal"
	}
	if r.Language == "" {
		r.Language = "nl-NL"
	}
	if r.ZeroWasteLevel == nil {
		level := 50
		r.ZeroWasteLevel = &level
	} else if *r.ZeroWasteLevel < 0 {
		*r.ZeroWasteLevel = 0
	} else if *r.ZeroWasteLevel > 100 {
		*r.ZeroWasteLevel = 100
	}
}

// Anonymous reports whether the caller is the unauthenticated demo client.
func (r *PlanRequest) Anonymous() bool {
	return r.UserID == "" || r.UserID == AnonymousUserID
}

// ZeroWaste returns the normalized zero-waste intensity (0-100).
func (r *PlanRequest) ZeroWaste() int {
	if r.ZeroWasteLevel == nil {
		return 50
	}
	return *r.ZeroWasteLevel
}

// Mode returns the mode assigned to a day, falling back to DefaultMode.
func (r *PlanRequest) Mode(day int) string {
	if m, ok := r.DayModes[day]; ok && m != "" {
		return m
	}
	return DefaultMode
}

// DominantMode returns the most frequently requested day mode. Ties are
// broken alphabetically so bank queries stay deterministic.
func (r *PlanRequest) DominantMode() string {
	if len(r.DayModes) == 0 {
		return DefaultMode
	}
	counts := make(map[string]int)
	for _, m := range r.DayModes {
		if m == "" {
			m = DefaultMode
		}
		counts[m]++
	}
	modes := make([]string, 0, len(counts))
	for m := range counts {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	best := modes[0]
	for _, m := range modes[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

// EffectiveDiet returns the diet tags that actually constrain selection:
// the "Geen" sentinel carries no constraint and is dropped.
func (r *PlanRequest) EffectiveDiet() []string {
	var out []string
	for _, d := range r.Diet {
		if d != "" && d != DietNone {
			out = append(out, d)
		}
	}
	return out
}
