package recommend

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/model"
)

func testProfiles() (model.SkinProfile, model.HairProfile) {
	skin := model.SkinProfile{
		SkinType:     "mixte",
		SkinConcerns: []string{"acné"},
		SkinGoals:    []string{"éclat"},
		Sensitivity:  "normale",
	}
	hair := model.HairProfile{
		HairType:     "bouclés",
		HairTexture:  "épais",
		ScalpType:    "sec",
		HairConcerns: []string{"frisottis"},
		HairGoals:    []string{"hydratation"},
	}
	return skin, hair
}

func TestGenerateWithoutAIUsesFallback(t *testing.T) {
	g := NewGenerator(&ai.Client{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	skin, hair := testProfiles()

	plan := g.Generate(context.Background(), skin, hair)
	if plan.Source != SourceFallback {
		t.Errorf("source = %q, want fallback", plan.Source)
	}
	if len(plan.Tasks) < 5 {
		t.Errorf("fallback yielded %d tasks, want at least 5", len(plan.Tasks))
	}
}

func TestFallbackPlanTotality(t *testing.T) {
	// Whatever the questionnaire says, the plan must be complete.
	profiles := []struct {
		name string
		skin model.SkinProfile
		hair model.HairProfile
	}{
		{"empty", model.SkinProfile{}, model.HairProfile{}},
		{"acne and breakage", model.SkinProfile{SkinConcerns: []string{"acné"}}, model.HairProfile{HairConcerns: []string{"casse"}}},
		{"dryness", model.SkinProfile{SkinGoals: []string{"hydratation"}}, model.HairProfile{HairGoals: []string{"hydratation"}}},
		{"aging and oily scalp", model.SkinProfile{SkinConcerns: []string{"rides"}}, model.HairProfile{ScalpType: "gras"}},
		{"sensitive curly", model.SkinProfile{Sensitivity: "très-sensible"}, model.HairProfile{HairType: "crépus"}},
	}

	for _, p := range profiles {
		t.Run(p.name, func(t *testing.T) {
			plan := FallbackPlan(p.skin, p.hair)
			if len(plan.Tasks) < 5 {
				t.Fatalf("%d tasks, want at least 5", len(plan.Tasks))
			}
			categories := map[model.TaskCategory]bool{}
			for _, task := range plan.Tasks {
				if task.Title == "" || task.Description == "" {
					t.Errorf("incomplete task %+v", task)
				}
				if !task.Category.Valid() {
					t.Errorf("invalid category %q", task.Category)
				}
				categories[task.Category] = true
			}
			for _, want := range []model.TaskCategory{model.CategoryShopping, model.CategoryReview, model.CategorySocial} {
				if !categories[want] {
					t.Errorf("missing %s task", want)
				}
			}
			if len(plan.SkinRoutine) == 0 || len(plan.HairRoutine) == 0 || len(plan.Tips) == 0 {
				t.Error("routines and tips must never be empty")
			}
		})
	}
}

func TestFallbackDiscountWeighting(t *testing.T) {
	skin, hair := testProfiles()
	plan := FallbackPlan(skin, hair)

	byCategory := map[model.TaskCategory]TaskDraft{}
	for _, task := range plan.Tasks {
		byCategory[task.Category] = task
	}
	shopping := byCategory[model.CategoryShopping]
	review := byCategory[model.CategoryReview]
	for _, task := range plan.Tasks {
		if task.Category == model.CategoryShopping || task.Category == model.CategoryReview {
			continue
		}
		if task.DiscountPoints > shopping.DiscountPoints {
			t.Errorf("%s discount %d exceeds shopping %d", task.Category, task.DiscountPoints, shopping.DiscountPoints)
		}
	}
	if shopping.DiscountPoints == 0 || review.DiscountPoints == 0 {
		t.Error("shopping and review tasks should carry discount points")
	}
}

func TestFallbackKeywordTargeting(t *testing.T) {
	plan := FallbackPlan(
		model.SkinProfile{SkinConcerns: []string{"acné sévère"}},
		model.HairProfile{HairConcerns: []string{"chute saisonnière"}},
	)

	var foundSkin, foundHair bool
	for _, task := range plan.Tasks {
		if task.Category == model.CategorySkincare && strings.Contains(task.Title, "imperfections") {
			foundSkin = true
		}
		if task.Category == model.CategoryHaircare && strings.Contains(task.Title, "Fortifier") {
			foundHair = true
		}
	}
	if !foundSkin {
		t.Error("acne keyword should target the skincare task")
	}
	if !foundHair {
		t.Error("hair loss keyword should target the haircare task")
	}
}

func TestSanitizeTasks(t *testing.T) {
	long := strings.Repeat("a", 150)
	drafts := []TaskDraft{
		{Title: "", Description: "desc", Category: model.CategorySkincare},
		{Title: "ok", Description: "desc", Category: model.TaskCategory("cuisine")},
		{Title: long, Description: "desc", Category: model.CategorySkincare, Points: 5, DiscountPoints: 99},
		{Title: "deux", Description: "desc", Category: model.CategoryHaircare, Points: 200, DiscountPoints: -3},
	}

	got := sanitizeTasks(drafts)
	if len(got) != 2 {
		t.Fatalf("kept %d drafts, want 2", len(got))
	}
	if n := len([]rune(got[0].Title)); n != 100 {
		t.Errorf("title truncated to %d runes, want 100", n)
	}
	if got[0].Points != 15 {
		t.Errorf("low points clamped to %d, want 15", got[0].Points)
	}
	if got[0].DiscountPoints != 25 {
		t.Errorf("high discount clamped to %d, want 25", got[0].DiscountPoints)
	}
	if got[1].Points != 50 {
		t.Errorf("high points clamped to %d, want 50", got[1].Points)
	}
	if got[1].DiscountPoints != 0 {
		t.Errorf("negative discount clamped to %d, want 0", got[1].DiscountPoints)
	}
	if got[0].Icon == "" {
		t.Error("missing icon should get a default")
	}
}

func TestSanitizeTasksCapsAtSix(t *testing.T) {
	var drafts []TaskDraft
	for i := 0; i < 10; i++ {
		drafts = append(drafts, TaskDraft{
			Title: "Mission", Description: "desc", Category: model.CategorySkincare, Points: 20,
		})
	}
	if got := sanitizeTasks(drafts); len(got) != 6 {
		t.Errorf("kept %d drafts, want 6", len(got))
	}
}

func TestMaterialize(t *testing.T) {
	skin, hair := testProfiles()
	plan := FallbackPlan(skin, hair)
	now := time.Now().UTC()

	tasks := Materialize(plan, 42, now)
	if len(tasks) != len(plan.Tasks) {
		t.Fatalf("materialized %d tasks, want %d", len(tasks), len(plan.Tasks))
	}
	for _, task := range tasks {
		if task.UserID != 42 {
			t.Errorf("user id = %d", task.UserID)
		}
		if task.Type != model.TaskOnboarding || task.Status != model.TaskPending {
			t.Errorf("task = type %q status %q", task.Type, task.Status)
		}
		if task.Progress.Current != 0 || task.Progress.Target != 1 {
			t.Errorf("progress = %+v", task.Progress)
		}
		if task.AIGenerated {
			t.Error("fallback tasks must not be flagged ai_generated")
		}
		if task.ExpiresAt == nil || !task.ExpiresAt.Equal(now.Add(7*24*time.Hour)) {
			t.Errorf("expires at = %v", task.ExpiresAt)
		}
	}
}
