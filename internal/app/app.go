package app

import (
	"context"
	"log/slog"

	"qook-backend/internal/llm"
	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
	"qook-backend/internal/shopping"
)

// WeeklyPlanner resolves weekly plan requests.
type WeeklyPlanner interface {
	GenerateWeeklyPlan(ctx context.Context, req *planner.PlanRequest) (*planner.PlanResult, error)
}

// RecipeStore is the slice of the recipe repository the app layer needs.
type RecipeStore interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	UpdateDetails(ctx context.Context, id string, upd recipe.DetailUpdate) error
	UpdateImageURL(ctx context.Context, id, imageURL string) error
}

// ImageUploader stores image bytes and returns a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// MetricsRecorder persists oracle usage metadata.
type MetricsRecorder interface {
	RecordMeta(ctx context.Context, meta shared.CallMeta) error
}

// ShoppingStore persists generated shopping lists per weekly plan.
type ShoppingStore interface {
	GetByPlanID(ctx context.Context, planID string) (*shopping.List, error)
	Save(ctx context.Context, list *shopping.List) (int64, error)
}

// App holds the application's dependencies and implements the operations
// behind each HTTP endpoint.
type App struct {
	planner       WeeklyPlanner
	recipes       RecipeStore
	textGen       llm.TextGenerator
	uploader      ImageUploader
	metrics       MetricsRecorder
	shoppingLists ShoppingStore
	jwtSecret     string
	log           *slog.Logger
}

// New creates and initializes a new App instance. The uploader may be nil
// when image storage is not configured.
func New(
	weeklyPlanner WeeklyPlanner,
	recipes RecipeStore,
	textGen llm.TextGenerator,
	uploader ImageUploader,
	metrics MetricsRecorder,
	shoppingLists ShoppingStore,
	jwtSecret string,
	log *slog.Logger,
) *App {
	return &App{
		planner:       weeklyPlanner,
		recipes:       recipes,
		textGen:       textGen,
		uploader:      uploader,
		metrics:       metrics,
		shoppingLists: shoppingLists,
		jwtSecret:     jwtSecret,
		log:           log,
	}
}

// GenerateWeeklyPlan runs the weekly plan resolution workflow and records
// oracle usage.
func (a *App) GenerateWeeklyPlan(ctx context.Context, req *planner.PlanRequest) (*planner.PlanResult, error) {
	result, err := a.planner.GenerateWeeklyPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, meta := range result.Meta {
		a.recordMeta(ctx, meta)
	}
	return result, nil
}

// recordMeta is best-effort: metrics never fail a request.
func (a *App) recordMeta(ctx context.Context, meta shared.CallMeta) {
	if a.metrics == nil {
		return
	}
	if err := a.metrics.RecordMeta(ctx, meta); err != nil {
		a.log.Warn("failed to record oracle metrics", "operation", meta.Operation, "error", err)
	}
}
