package planner

import (
	"context"
	"log/slog"
	"time"

	"qook-backend/internal/llm"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
)

// DaysPerPlan is the fixed length of a weekly plan.
const DaysPerPlan = 7

// BankPlanID is the sentinel plan identifier returned when a plan was
// served from the recipe bank and nothing new was persisted.
const BankPlanID = "reused-from-bank"

// historyWindow is the trailing window in which previously served titles
// are excluded from new plans.
const historyWindow = 90 * 24 * time.Hour

// PlanStore persists weekly plans and answers history queries.
type PlanStore interface {
	// RecentTitles returns the titles of all recipes belonging to the
	// user's weekly plans created after the given instant.
	RecentTitles(ctx context.Context, userID string, since time.Time) ([]string, error)
	// SavePlan atomically inserts a weekly plan and its recipes and
	// returns the new plan's identifier.
	SavePlan(ctx context.Context, userID, zeroWasteReport string, days []recipe.Recipe) (string, error)
}

// RecipeBank provides read access to the persisted recipe bank.
type RecipeBank interface {
	ListByMode(ctx context.Context, mode string) ([]recipe.Recipe, error)
}

// PlanResult is the outcome of a weekly plan resolution.
type PlanResult struct {
	// PlanID is the persisted plan's identifier, BankPlanID for plans
	// served from the bank, or empty for anonymous (ephemeral) plans.
	PlanID          string
	ZeroWasteReport string
	Days            []recipe.Recipe
	// Meta carries oracle usage for metrics; empty on the bank path.
	Meta []shared.CallMeta
}

// Planner resolves weekly plan requests: history exclusion, bank reuse,
// and AI generation with persistence.
type Planner struct {
	plans   PlanStore
	bank    RecipeBank
	textGen llm.TextGenerator
	log     *slog.Logger

	now func() time.Time
}

// NewPlanner creates a new Planner instance.
func NewPlanner(plans PlanStore, bank RecipeBank, textGen llm.TextGenerator, log *slog.Logger) *Planner {
	return &Planner{
		plans:   plans,
		bank:    bank,
		textGen: textGen,
		log:     log,
		now:     time.Now,
	}
}

// GenerateWeeklyPlan runs the full resolution flow for one request:
// resolve exclusions, try the bank, otherwise generate and persist.
func (p *Planner) GenerateWeeklyPlan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	req.Normalize()

	excluded := p.resolveHistory(ctx, req)

	if days, ok := p.lookupBank(ctx, req, excluded); ok {
		p.log.Info("weekly plan served from bank",
			"user_id", req.UserID, "mode", req.DominantMode())
		return &PlanResult{PlanID: BankPlanID, Days: days}, nil
	}

	return p.generate(ctx, req, excluded)
}
