package store

import (
	"testing"
	"time"

	"github.com/eclatbeaute/eclat/internal/database"
	"github.com/eclatbeaute/eclat/internal/model"
)

func setupProfileTestDB(t *testing.T) (*ProfileStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db), NewUserStore(db)
}

func TestProfileCreatedWithUser(t *testing.T) {
	ps, us := setupProfileTestDB(t)

	u, err := us.Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	p, err := ps.GetByUserID(u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile to exist right after registration")
	}
	if p.Gamification.TotalPoints != 0 {
		t.Errorf("total points = %d, want 0", p.Gamification.TotalPoints)
	}
	if p.Gamification.Level != 1 {
		t.Errorf("level = %d, want 1", p.Gamification.Level)
	}
	if p.Wallet.DiscountPoints != 0 || p.Wallet.GiftPoints != 0 {
		t.Errorf("wallet = %+v, want zeroed", p.Wallet)
	}
	if len(p.Gamification.Badges) != 0 {
		t.Errorf("badges = %v, want empty", p.Gamification.Badges)
	}
	if p.ProfileCompleted {
		t.Error("profile should not be marked completed")
	}
}

func TestProfileUpdateDetails(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, err := us.Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	dob := time.Date(1994, 6, 12, 0, 0, 0, 0, time.UTC)
	p, err := ps.UpdateDetails(u.ID, "passionnée de skincare", &dob, "femme")
	if err != nil {
		t.Fatalf("update details: %v", err)
	}
	if p.Bio != "passionnée de skincare" {
		t.Errorf("bio = %q", p.Bio)
	}
	if p.DateOfBirth == nil || !p.DateOfBirth.Equal(dob) {
		t.Errorf("date of birth = %v, want %v", p.DateOfBirth, dob)
	}
	if p.Gender != "femme" {
		t.Errorf("gender = %q", p.Gender)
	}
}

func TestProfileQuestionnaire(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, err := us.Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	skin := model.SkinProfile{
		SkinType:     "mixte",
		SkinConcerns: []string{"acné", "pores dilatés"},
		SkinGoals:    []string{"éclat"},
		Sensitivity:  "sensible",
	}
	hair := model.HairProfile{
		HairType:     "bouclés",
		HairTexture:  "épais",
		ScalpType:    "sec",
		HairConcerns: []string{"frisottis"},
		HairGoals:    []string{"hydratation"},
	}
	if err := ps.SaveQuestionnaire(u.ID, skin, hair); err != nil {
		t.Fatalf("save questionnaire: %v", err)
	}

	p, err := ps.GetByUserID(u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !p.ProfileCompleted {
		t.Error("profile should be marked completed after questionnaire")
	}
	if p.Skin.SkinType != "mixte" {
		t.Errorf("skin type = %q", p.Skin.SkinType)
	}
	if len(p.Skin.SkinConcerns) != 2 || p.Skin.SkinConcerns[0] != "acné" {
		t.Errorf("skin concerns = %v", p.Skin.SkinConcerns)
	}
	if p.Hair.HairType != "bouclés" {
		t.Errorf("hair type = %q", p.Hair.HairType)
	}
	if len(p.Hair.HairGoals) != 1 || p.Hair.HairGoals[0] != "hydratation" {
		t.Errorf("hair goals = %v", p.Hair.HairGoals)
	}
}

func TestProfileRecommendations(t *testing.T) {
	ps, us := setupProfileTestDB(t)
	u, err := us.Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	skinRoutine := []string{"Nettoyer matin et soir", "Appliquer un sérum"}
	hairRoutine := []string{"Masque hebdomadaire"}
	tips := []string{"Boire de l'eau"}
	if err := ps.SaveRecommendations(u.ID, skinRoutine, hairRoutine, tips); err != nil {
		t.Fatalf("save recommendations: %v", err)
	}

	p, err := ps.GetByUserID(u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if len(p.Recommendations.SkinRoutine) != 2 {
		t.Errorf("skin routine = %v", p.Recommendations.SkinRoutine)
	}
	if p.Recommendations.UpdatedAt == nil {
		t.Error("recommendations updated_at should be set")
	}
}

func TestProfileGetMissingUser(t *testing.T) {
	ps, _ := setupProfileTestDB(t)

	p, err := ps.GetByUserID(9999)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
}
