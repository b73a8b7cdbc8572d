package recipe

import "testing"

func TestHasDetails(t *testing.T) {
	r := &Recipe{Title: "Pompoensoep"}
	if r.HasDetails() {
		t.Error("recipe without ingredients or steps should not have details")
	}

	r.Ingredients = []Ingredient{{Name: "Pompoen", Amount: 1, Unit: "stuks"}}
	if r.HasDetails() {
		t.Error("recipe without steps should not have details")
	}

	r.Steps = []Step{{StepIndex: 1, UserText: "Snijd de pompoen."}}
	if !r.HasDetails() {
		t.Error("recipe with ingredients and steps should have details")
	}
}

func TestHasAllDietTags(t *testing.T) {
	r := &Recipe{DietTags: []string{"Vegetarisch", "Glutenvrij"}}

	t.Run("NoConstraint", func(t *testing.T) {
		if !r.HasAllDietTags(nil) {
			t.Error("empty requested set should always match")
		}
	})

	t.Run("Subset", func(t *testing.T) {
		if !r.HasAllDietTags([]string{"Vegetarisch"}) {
			t.Error("expected subset of recipe tags to match")
		}
	})

	t.Run("Superset", func(t *testing.T) {
		if r.HasAllDietTags([]string{"Vegetarisch", "Veganistisch"}) {
			t.Error("missing tag should not match")
		}
	})

	t.Run("Untagged", func(t *testing.T) {
		bare := &Recipe{}
		if bare.HasAllDietTags([]string{"Vegetarisch"}) {
			t.Error("untagged recipe should not satisfy a diet constraint")
		}
	})
}
