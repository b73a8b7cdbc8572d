package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"qook-backend/internal/llm"
	"qook-backend/internal/recipe"
	"qook-backend/internal/shared"
)

//go:embed weekly_prompt.md
var weeklyPrompt string

var weeklyPromptTmpl = template.Must(template.New("weekly").Parse(weeklyPrompt))

type weeklyPromptData struct {
	Language       string
	Diet           string
	Budget         string
	Adults         int
	Children       int
	ZeroWasteLevel int
	Agenda         string
	Excluded       string
	Favorites      string
}

// generatedDay mirrors the oracle's per-day output shape.
type generatedDay struct {
	DayNumber            int                 `json:"day_number"`
	Title                string              `json:"title"`
	ShortDescription     string              `json:"short_description"`
	AIImagePrompt        string              `json:"ai_image_prompt"`
	Ingredients          []recipe.Ingredient `json:"ingredients"`
	Steps                []recipe.Step       `json:"steps"`
	EstimatedTimeMinutes int                 `json:"estimated_time_minutes"`
	CaloriesPerPortion   int                 `json:"calories_per_portion"`
	Difficulty           string              `json:"difficulty"`
	Mode                 string              `json:"mode"`
	WinePairing          *recipe.WinePairing `json:"wine_pairing,omitempty"`
	PlatingTips          string              `json:"plating_tips,omitempty"`
}

type weeklyPayload struct {
	ZeroWasteReport string         `json:"zero_waste_report"`
	Days            []generatedDay `json:"days"`
}

// generate builds the menu prompt, invokes the oracle, parses and repairs
// its output, and persists the new plan for non-anonymous users.
func (p *Planner) generate(ctx context.Context, req *PlanRequest, excluded map[string]struct{}) (*PlanResult, error) {
	prompt, err := buildWeeklyPrompt(req, excluded)
	if err != nil {
		return nil, &GenerationError{Op: "prompt", Err: err}
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, llm.Request{
		Prompt:          prompt,
		Temperature:     0.7,
		MaxOutputTokens: 8192,
		JSONOutput:      true,
	})
	if err != nil {
		return nil, &GenerationError{Op: "oracle", Err: err}
	}
	meta := shared.CallMeta{
		Operation: "weekly-plan",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	extracted, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, &GenerationError{Op: "parse", Err: err}
	}
	if extracted.Status == llm.JSONRepaired {
		p.log.Warn("repaired truncated oracle output", "user_id", req.UserID)
	}

	var payload weeklyPayload
	if err := json.Unmarshal(extracted.JSON, &payload); err != nil {
		return nil, &GenerationError{Op: "decode", Err: fmt.Errorf("%w: %s", err, string(extracted.JSON))}
	}
	if len(payload.Days) != DaysPerPlan {
		return nil, &GenerationError{Op: "validate", Err: fmt.Errorf("oracle returned %d days, want %d", len(payload.Days), DaysPerPlan)}
	}

	days := make([]recipe.Recipe, 0, DaysPerPlan)
	for i, d := range payload.Days {
		days = append(days, recipe.Recipe{
			ID:               uuid.NewString(),
			DayNumber:        i,
			Title:            d.Title,
			ShortDescription: d.ShortDescription,
			AIImagePrompt:    d.AIImagePrompt,
			ImageURL:         imageURL(d.Title),
			// The requested agenda is authoritative over whatever mode
			// the oracle echoed back.
			Mode: req.Mode(i),
			// Diet tags are copied from the request so tagging stays
			// authoritative at the server.
			DietTags:             req.EffectiveDiet(),
			Ingredients:          d.Ingredients,
			Steps:                d.Steps,
			EstimatedTimeMinutes: d.EstimatedTimeMinutes,
			CaloriesPerPortion:   d.CaloriesPerPortion,
			Difficulty:           d.Difficulty,
			WinePairing:          d.WinePairing,
			PlatingTips:          d.PlatingTips,
		})
	}

	result := &PlanResult{
		ZeroWasteReport: payload.ZeroWasteReport,
		Days:            days,
		Meta:            []shared.CallMeta{meta},
	}

	if req.Anonymous() {
		// Ephemeral demo mode: nothing is written.
		return result, nil
	}

	planID, err := p.plans.SavePlan(ctx, req.UserID, payload.ZeroWasteReport, days)
	if err != nil {
		return nil, fmt.Errorf("persist weekly plan: %w", err)
	}
	result.PlanID = planID
	p.log.Info("weekly plan generated and persisted", "user_id", req.UserID, "plan_id", planID)
	return result, nil
}

func buildWeeklyPrompt(req *PlanRequest, excluded map[string]struct{}) (string, error) {
	excludedTitles := make([]string, 0, len(excluded))
	for t := range excluded {
		excludedTitles = append(excludedTitles, t)
	}
	sort.Strings(excludedTitles)

	agendaDays := make([]int, 0, len(req.DayModes))
	for d := range req.DayModes {
		agendaDays = append(agendaDays, d)
	}
	sort.Ints(agendaDays)
	agenda := make([]string, 0, len(agendaDays))
	for _, d := range agendaDays {
		agenda = append(agenda, fmt.Sprintf("Day %d: %s", d, req.Mode(d)))
	}
	if len(agenda) == 0 {
		agenda = append(agenda, "every day: "+DefaultMode)
	}

	data := weeklyPromptData{
		Language:       req.Language,
		Diet:           strings.Join(req.EffectiveDiet(), ", "),
		Budget:         req.Budget,
		Adults:         req.AdultsCount,
		Children:       req.ChildrenCount,
		ZeroWasteLevel: req.ZeroWaste(),
		Agenda:         strings.Join(agenda, ", "),
		Excluded:       strings.Join(excludedTitles, ", "),
		Favorites:      strings.Join(req.FavoriteTitles, ", "),
	}

	var buf bytes.Buffer
	if err := weeklyPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// imageURL builds a server-side image link per dish. Generating the link
// here keeps the browser from hammering the image service itself.
func imageURL(title string) string {
	seed := rand.IntN(999999) + 1
	return fmt.Sprintf("https://image.pollinations.ai/prompt/%s?width=800&height=600&nologo=true&seed=%d",
		url.PathEscape(title), seed)
}
