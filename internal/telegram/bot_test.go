package telegram

import (
	"strings"
	"testing"

	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
)

func TestFormatPlanMessage(t *testing.T) {
	result := &planner.PlanResult{
		PlanID: "plan-1",
		Days: []recipe.Recipe{
			{DayNumber: 0, Title: "Tacos", EstimatedTimeMinutes: 15},
			{DayNumber: 1, Title: "Salade", EstimatedTimeMinutes: 10},
		},
		ZeroWasteReport: "Leftover tortillas become day 2 wraps.",
	}

	msg := formatPlanMessage(result)

	if !strings.Contains(msg, "Day 1: Tacos (15 min)") {
		t.Errorf("missing first day line, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Day 2: Salade (10 min)") {
		t.Errorf("missing second day line, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Leftover tortillas") {
		t.Errorf("missing zero waste report, got:\n%s", msg)
	}
}

func TestFormatPlanMessageWithoutReport(t *testing.T) {
	result := &planner.PlanResult{
		Days: []recipe.Recipe{{DayNumber: 0, Title: "Soep", EstimatedTimeMinutes: 20}},
	}

	msg := formatPlanMessage(result)
	if strings.Contains(msg, "\n\n") {
		t.Errorf("unexpected trailing report section:\n%s", msg)
	}
}

func TestAllowed(t *testing.T) {
	b := &Bot{allowedIDs: []int64{10, 20}}

	if !b.allowed(10) {
		t.Error("expected id 10 to be allowed")
	}
	if b.allowed(30) {
		t.Error("expected id 30 to be rejected")
	}
}
