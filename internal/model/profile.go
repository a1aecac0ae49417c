package model

import "time"

// SkinProfile holds the skin questionnaire answers.
type SkinProfile struct {
	SkinType     string   `json:"skin_type"`
	SkinConcerns []string `json:"skin_concerns"`
	SkinGoals    []string `json:"skin_goals"`
	Sensitivity  string   `json:"sensitivity"`
}

// HairProfile holds the hair questionnaire answers.
type HairProfile struct {
	HairType     string   `json:"hair_type"`
	HairTexture  string   `json:"hair_texture"`
	ScalpType    string   `json:"scalp_type"`
	HairConcerns []string `json:"hair_concerns"`
	HairGoals    []string `json:"hair_goals"`
}

// Gamification groups the loyalty counters attached to a profile.
// Counters are mutated only through atomic SQL updates in the store.
type Gamification struct {
	TotalPoints    int      `json:"total_points"`
	Level          int      `json:"level"`
	Badges         []string `json:"badges"`
	CompletedTasks []int64  `json:"completed_tasks"`
}

// Wallet holds the spendable point balances. Never negative.
type Wallet struct {
	DiscountPoints int `json:"discount_points"`
	GiftPoints     int `json:"gift_points"`
}

// Recommendations are the stored AI (or fallback) routine suggestions.
type Recommendations struct {
	SkinRoutine []string   `json:"skin_routine"`
	HairRoutine []string   `json:"hair_routine"`
	Tips        []string   `json:"tips"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type Profile struct {
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"user_id"`
	Bio                    string          `json:"bio"`
	DateOfBirth            *time.Time      `json:"date_of_birth"`
	Gender                 string          `json:"gender"`
	Gamification           Gamification    `json:"gamification"`
	Wallet                 Wallet          `json:"wallet"`
	OnboardingBonusAwarded bool            `json:"onboarding_bonus_awarded"`
	ProfileCompleted       bool            `json:"profile_completed"`
	Skin                   SkinProfile     `json:"skin_profile"`
	Hair                   HairProfile     `json:"hair_profile"`
	Recommendations        Recommendations `json:"recommendations"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// Valid skin/hair enum values, matching the questionnaire choices.
var (
	SkinTypes     = []string{"grasse", "sèche", "mixte", "normale", "sensible", "non-défini"}
	Sensitivities = []string{"très-sensible", "sensible", "normale", "résistante"}
	HairTypes     = []string{"raides", "ondulés", "bouclés", "crépus", "non-défini"}
	HairTextures  = []string{"fins", "normaux", "épais", "non-défini"}
	ScalpTypes    = []string{"gras", "sec", "normal", "mixte", "sensible", "non-défini"}
)

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Validate checks that every enum field carries a known value.
func (p SkinProfile) Validate() bool {
	return contains(SkinTypes, p.SkinType) && contains(Sensitivities, p.Sensitivity)
}

func (p HairProfile) Validate() bool {
	return contains(HairTypes, p.HairType) &&
		contains(HairTextures, p.HairTexture) &&
		contains(ScalpTypes, p.ScalpType)
}
