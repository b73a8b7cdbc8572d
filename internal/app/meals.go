package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"qook-backend/internal/llm"
	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
	"qook-backend/internal/shopping"
)

// ReplaceRequest asks for a single replacement meal for one day slot.
type ReplaceRequest struct {
	OldMealTitle string              `json:"old_meal_title"`
	DayIndex     int                 `json:"day_index"`
	Mode         string              `json:"mode"`
	Prefs        planner.PlanRequest `json:"prefs"`
}

// ReplaceMeal generates one substantially different meal for a day. The
// replacement is not persisted; the client keeps the original slot id.
func (a *App) ReplaceMeal(ctx context.Context, req ReplaceRequest) (*recipe.Recipe, error) {
	req.Prefs.Normalize()
	mode := req.Mode
	if mode == "" {
		mode = req.Prefs.Mode(req.DayIndex)
	}

	history := strings.Join(req.Prefs.GenerationHistory, ", ")
	if history == "" {
		history = "none"
	}
	favorites := strings.Join(req.Prefs.FavoriteTitles, ", ")
	if favorites == "" {
		favorites = "no favorites yet"
	}

	prompt := fmt.Sprintf(`You replace one dish in a weekly menu. Replace "%s" with a new dish in mode "%s".
The new dish MUST differ substantially from "%s" and MUST NOT appear in this history: %s.
TASTE: the user loves dishes such as: %s. Use them as style inspiration only.
CONSTRAINTS: diet %s, budget %s, language %s.

Return strictly one JSON object:
{
  "title": "...",
  "short_description": "...",
  "ai_image_prompt": "English food-photography prompt",
  "estimated_time_minutes": 30,
  "calories_per_portion": 600,
  "difficulty": "Makkelijk",
  "mode": "%s"
}`,
		req.OldMealTitle, mode, req.OldMealTitle, history, favorites,
		strings.Join(req.Prefs.EffectiveDiet(), ", "), req.Prefs.Budget, req.Prefs.Language, mode)

	start := time.Now()
	resp, err := a.textGen.GenerateContent(ctx, llm.Request{
		Prompt:          prompt,
		Temperature:     0.8,
		MaxOutputTokens: 2048,
		JSONOutput:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate replacement meal: %w", err)
	}
	a.recordMeta(ctx, shared.CallMeta{Operation: "replace-meal", Usage: resp.Usage, Latency: time.Since(start)})

	extracted, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse replacement meal: %w", err)
	}

	var meal recipe.Recipe
	if err := json.Unmarshal(extracted.JSON, &meal); err != nil {
		return nil, fmt.Errorf("decode replacement meal: %w", err)
	}
	meal.ID = uuid.NewString()
	meal.DayNumber = req.DayIndex
	meal.Mode = mode
	meal.DietTags = req.Prefs.EffectiveDiet()
	return &meal, nil
}

// ShoppingRequest aggregates a set of meals into a shopping list.
type ShoppingRequest struct {
	UserID     string   `json:"user_id"`
	PlanID     string   `json:"plan_id"`
	MealTitles []string `json:"meal_titles"`
	Language   string   `json:"language"`
}

// GenerateShoppingList asks the oracle for a consolidated, categorized
// shopping list covering the given meals. Lists for persisted plans are
// stored and served from the database on repeat requests.
func (a *App) GenerateShoppingList(ctx context.Context, req ShoppingRequest) ([]shopping.Item, error) {
	if len(req.MealTitles) == 0 {
		return nil, fmt.Errorf("no meals to build a shopping list for")
	}
	language := req.Language
	if language == "" {
		language = "nl-NL"
	}

	if stored := a.storedShoppingList(ctx, req.PlanID); stored != nil {
		return stored.Items, nil
	}

	prompt := fmt.Sprintf(`Consolidated shopping list for these meals: %s.
Combine duplicate ingredients, use language %s, group by supermarket category.
Return strictly a JSON array: [{"name": "...", "amount": 0, "unit": "...", "category": "..."}]`,
		strings.Join(req.MealTitles, ", "), language)

	start := time.Now()
	resp, err := a.textGen.GenerateContent(ctx, llm.Request{
		Prompt:          prompt,
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		JSONOutput:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate shopping list: %w", err)
	}
	a.recordMeta(ctx, shared.CallMeta{Operation: "shopping-list", Usage: resp.Usage, Latency: time.Since(start)})

	extracted, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse shopping list: %w", err)
	}

	var items []shopping.Item
	if err := json.Unmarshal(extracted.JSON, &items); err != nil {
		return nil, fmt.Errorf("decode shopping list: %w", err)
	}
	for i := range items {
		items[i].ID = fmt.Sprintf("it-%d", i)
		items[i].Checked = false
	}

	a.saveShoppingList(ctx, req, items)
	return items, nil
}

// storedShoppingList returns an earlier list for the plan, if any. Only
// persisted plans are cached; bank reuse shares one sentinel id across
// users and ephemeral plans have none.
func (a *App) storedShoppingList(ctx context.Context, planID string) *shopping.List {
	if a.shoppingLists == nil || planID == "" || planID == planner.BankPlanID {
		return nil
	}
	list, err := a.shoppingLists.GetByPlanID(ctx, planID)
	if err != nil {
		a.log.Warn("failed to load stored shopping list", "plan_id", planID, "error", err)
		return nil
	}
	return list
}

// saveShoppingList is best-effort: storage never fails the request.
func (a *App) saveShoppingList(ctx context.Context, req ShoppingRequest, items []shopping.Item) {
	if a.shoppingLists == nil || req.PlanID == "" || req.PlanID == planner.BankPlanID {
		return
	}
	_, err := a.shoppingLists.Save(ctx, &shopping.List{
		UserID: req.UserID,
		PlanID: req.PlanID,
		Items:  items,
	})
	if err != nil {
		a.log.Warn("failed to store shopping list", "plan_id", req.PlanID, "error", err)
	}
}

// FridgeRequest carries a base64 fridge photo to analyze.
type FridgeRequest struct {
	ImageData string `json:"image_data"`
	Language  string `json:"language"`
}

// FridgeScanResult lists the recognized ingredients and meal suggestions.
type FridgeScanResult struct {
	RecognizedItems []string        `json:"recognizedItems"`
	Suggestions     []recipe.Recipe `json:"suggestions"`
}

// AnalyzeFridge sends the fridge photo to the oracle and returns meal
// suggestions based on what it sees.
func (a *App) AnalyzeFridge(ctx context.Context, req FridgeRequest) (*FridgeScanResult, error) {
	data, format, err := decodeImagePayload(req.ImageData)
	if err != nil {
		return nil, err
	}
	language := req.Language
	if language == "" {
		language = "nl-NL"
	}

	prompt := fmt.Sprintf(`Look at this fridge photo. Which ingredients do you see?
Suggest 3 dishes that can be cooked with them. Use language %s.
Return strictly one JSON object:
{
  "recognizedItems": ["..."],
  "suggestions": [{"title": "...", "short_description": "...", "ai_image_prompt": "...", "estimated_time_minutes": 30, "calories_per_portion": 500, "difficulty": "Makkelijk", "mode": "magic"}]
}`, language)

	start := time.Now()
	resp, err := a.textGen.GenerateContent(ctx, llm.Request{
		Prompt:          prompt,
		Temperature:     0.5,
		MaxOutputTokens: 2048,
		JSONOutput:      true,
		ImageData:       data,
		ImageFormat:     format,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze fridge: %w", err)
	}
	a.recordMeta(ctx, shared.CallMeta{Operation: "fridge-scan", Usage: resp.Usage, Latency: time.Since(start)})

	extracted, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse fridge scan: %w", err)
	}

	var result FridgeScanResult
	if err := json.Unmarshal(extracted.JSON, &result); err != nil {
		return nil, fmt.Errorf("decode fridge scan: %w", err)
	}
	for i := range result.Suggestions {
		result.Suggestions[i].ID = fmt.Sprintf("scan-%d", i)
		result.Suggestions[i].Mode = "magic"
	}
	return &result, nil
}

// ChatRequest is one user turn in the Chef Qook conversation.
type ChatRequest struct {
	Message  string `json:"message"`
	History  []Turn `json:"history"`
	Language string `json:"language"`
}

// Turn is a prior conversation turn.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Chat answers a free-form cooking question in the Chef Qook persona.
func (a *App) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", fmt.Errorf("empty chat message")
	}
	language := req.Language
	if language == "" {
		language = "nl-NL"
	}

	var b strings.Builder
	for _, turn := range req.History {
		fmt.Fprintf(&b, "%s: %s\n", turn.Sender, turn.Text)
	}
	b.WriteString("user: " + req.Message)

	start := time.Now()
	resp, err := a.textGen.GenerateContent(ctx, llm.Request{
		System: fmt.Sprintf("You are Chef Qook (KOOQ), a friendly and practical cooking assistant. Answer in %s, briefly and concretely.", language),
		Prompt: b.String(),
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	a.recordMeta(ctx, shared.CallMeta{Operation: "chat", Usage: resp.Usage, Latency: time.Since(start)})
	return resp.Content, nil
}

// decodeImagePayload accepts raw base64 or a data URL and returns the
// image bytes with the genai image format ("jpeg", "png").
func decodeImagePayload(payload string) ([]byte, string, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, "", fmt.Errorf("empty image payload")
	}
	format := "jpeg"
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data url")
		}
		if strings.Contains(header, "image/png") {
			format = "png"
		} else if strings.Contains(header, "image/webp") {
			format = "webp"
		}
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	return data, format, nil
}
