// Package recommend turns a completed questionnaire into an onboarding plan:
// personalized missions plus skin and hair routines. The plan is AI-generated
// when possible and deterministic otherwise, and the caller can always tell
// which path produced it.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/model"
)

const (
	// SourceAI marks a plan produced by the model, SourceFallback one built
	// from the deterministic rules.
	SourceAI       = "ai"
	SourceFallback = "fallback"

	maxTasks       = 6
	minPoints      = 15
	maxPoints      = 50
	maxDiscount    = 25
	maxTitleRunes  = 100
	maxDescRunes   = 500
	onboardingLife = 7 * 24 * time.Hour
)

// TaskDraft is a mission before it is materialized for a user.
type TaskDraft struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Category       model.TaskCategory `json:"category"`
	Icon           string             `json:"icon"`
	Points         int                `json:"points"`
	DiscountPoints int                `json:"discount_points"`
}

// Plan is a full onboarding recommendation set.
type Plan struct {
	Tasks       []TaskDraft `json:"tasks"`
	SkinRoutine []string    `json:"skin_routine"`
	HairRoutine []string    `json:"hair_routine"`
	Tips        []string    `json:"tips"`
	Source      string      `json:"source"`
}

type Generator struct {
	client *ai.Client
	log    *slog.Logger
}

func NewGenerator(client *ai.Client, log *slog.Logger) *Generator {
	return &Generator{client: client, log: log.With("component", "recommend")}
}

// Generate builds the onboarding plan. A single model attempt is made; any
// failure, malformed response or fully-invalid task list falls back to the
// deterministic plan.
func (g *Generator) Generate(ctx context.Context, skin model.SkinProfile, hair model.HairProfile) *Plan {
	if !g.client.Configured() {
		return FallbackPlan(skin, hair)
	}

	raw, err := g.client.Generate(ctx, buildPrompt(skin, hair))
	if err != nil {
		g.log.Warn("generation failed, using fallback", "error", err)
		return FallbackPlan(skin, hair)
	}

	block, ok := ai.ExtractJSON(raw)
	if !ok {
		g.log.Warn("response has no JSON, using fallback")
		return FallbackPlan(skin, hair)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(block), &plan); err != nil {
		g.log.Warn("response unparseable, using fallback", "error", err)
		return FallbackPlan(skin, hair)
	}

	plan.Tasks = sanitizeTasks(plan.Tasks)
	if len(plan.Tasks) == 0 {
		g.log.Warn("no valid tasks in response, using fallback")
		return FallbackPlan(skin, hair)
	}

	// Routines may come back empty even when the tasks are fine.
	fb := FallbackPlan(skin, hair)
	if len(plan.SkinRoutine) == 0 {
		plan.SkinRoutine = fb.SkinRoutine
	}
	if len(plan.HairRoutine) == 0 {
		plan.HairRoutine = fb.HairRoutine
	}
	if len(plan.Tips) == 0 {
		plan.Tips = fb.Tips
	}
	plan.Source = SourceAI
	return &plan
}

func buildPrompt(skin model.SkinProfile, hair model.HairProfile) string {
	return fmt.Sprintf(
		"Tu es coach beauté pour la boutique Éclat. À partir de ce profil, génère en français un plan d'accueil. "+
			"Profil peau: type %s, sensibilité %s, préoccupations %s, objectifs %s. "+
			"Profil cheveux: type %s, texture %s, cuir chevelu %s, préoccupations %s, objectifs %s. "+
			"Réponds uniquement en JSON: "+
			`{"tasks": [{"title": "...", "description": "...", "category": "skincare"|"haircare"|"routine"|"shopping"|"review"|"social", `+
			`"icon": "emoji", "points": 15-50, "discount_points": 0-25}], `+
			`"skin_routine": ["étape", ...], "hair_routine": ["étape", ...], "tips": ["conseil", ...]}. `+
			"Génère exactement 6 missions variées et personnalisées.",
		skin.SkinType, skin.Sensitivity, strings.Join(skin.SkinConcerns, ", "), strings.Join(skin.SkinGoals, ", "),
		hair.HairType, hair.HairTexture, hair.ScalpType, strings.Join(hair.HairConcerns, ", "), strings.Join(hair.HairGoals, ", "),
	)
}

// sanitizeTasks drops invalid drafts and clamps the rest. At most 6 tasks
// survive.
func sanitizeTasks(drafts []TaskDraft) []TaskDraft {
	valid := make([]TaskDraft, 0, maxTasks)
	for _, d := range drafts {
		d.Title = truncateRunes(strings.TrimSpace(d.Title), maxTitleRunes)
		d.Description = truncateRunes(strings.TrimSpace(d.Description), maxDescRunes)
		if d.Title == "" || d.Description == "" {
			continue
		}
		if !d.Category.Valid() {
			continue
		}
		if d.Points < minPoints {
			d.Points = minPoints
		}
		if d.Points > maxPoints {
			d.Points = maxPoints
		}
		if d.DiscountPoints < 0 {
			d.DiscountPoints = 0
		}
		if d.DiscountPoints > maxDiscount {
			d.DiscountPoints = maxDiscount
		}
		if d.Icon == "" {
			d.Icon = "✨"
		}
		valid = append(valid, d)
		if len(valid) == maxTasks {
			break
		}
	}
	return valid
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Materialize turns drafts into persistable onboarding tasks: pending, one
// step, expiring a week out.
func Materialize(plan *Plan, userID int64, now time.Time) []model.Task {
	expires := now.Add(onboardingLife)
	tasks := make([]model.Task, 0, len(plan.Tasks))
	for _, d := range plan.Tasks {
		tasks = append(tasks, model.Task{
			UserID:      userID,
			Type:        model.TaskOnboarding,
			Category:    d.Category,
			Title:       d.Title,
			Description: d.Description,
			Icon:        d.Icon,
			Rewards: model.Rewards{
				Points:         d.Points,
				DiscountPoints: d.DiscountPoints,
			},
			Status:      model.TaskPending,
			Progress:    model.Progress{Current: 0, Target: 1},
			AIGenerated: plan.Source == SourceAI,
			ExpiresAt:   &expires,
		})
	}
	return tasks
}
