package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eclatbeaute/eclat/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileCols = `id, user_id, bio, date_of_birth, gender,
	total_points, level, discount_points, gift_points,
	onboarding_bonus_awarded, profile_completed,
	skin_type, skin_concerns, skin_goals, sensitivity,
	hair_type, hair_texture, scalp_type, hair_concerns, hair_goals,
	skin_routine, hair_routine, tips, recommendations_updated_at,
	created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var dob, recUpdated sql.NullTime
	var bonusAwarded, completed int
	var skinConcerns, skinGoals, hairConcerns, hairGoals string
	var skinRoutine, hairRoutine, tips string

	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Bio, &dob, &p.Gender,
		&p.Gamification.TotalPoints, &p.Gamification.Level,
		&p.Wallet.DiscountPoints, &p.Wallet.GiftPoints,
		&bonusAwarded, &completed,
		&p.Skin.SkinType, &skinConcerns, &skinGoals, &p.Skin.Sensitivity,
		&p.Hair.HairType, &p.Hair.HairTexture, &p.Hair.ScalpType, &hairConcerns, &hairGoals,
		&skinRoutine, &hairRoutine, &tips, &recUpdated,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dob.Valid {
		p.DateOfBirth = &dob.Time
	}
	if recUpdated.Valid {
		p.Recommendations.UpdatedAt = &recUpdated.Time
	}
	p.OnboardingBonusAwarded = bonusAwarded != 0
	p.ProfileCompleted = completed != 0
	p.Skin.SkinConcerns = decodeList(skinConcerns)
	p.Skin.SkinGoals = decodeList(skinGoals)
	p.Hair.HairConcerns = decodeList(hairConcerns)
	p.Hair.HairGoals = decodeList(hairGoals)
	p.Recommendations.SkinRoutine = decodeList(skinRoutine)
	p.Recommendations.HairRoutine = decodeList(hairRoutine)
	p.Recommendations.Tips = decodeList(tips)
	return &p, nil
}

func decodeList(raw string) []string {
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}

func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// GetByUserID loads a profile with its badge list (insertion order) and
// completed-task set.
func (s *ProfileStore) GetByUserID(userID int64) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	badges, err := s.listBadges(p.ID)
	if err != nil {
		return nil, err
	}
	p.Gamification.Badges = badges

	tasks, err := s.listCompletedTasks(p.ID)
	if err != nil {
		return nil, err
	}
	p.Gamification.CompletedTasks = tasks

	return p, nil
}

func (s *ProfileStore) listBadges(profileID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT label FROM profile_badges WHERE profile_id = ? ORDER BY id ASC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	badges := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, label)
	}
	return badges, rows.Err()
}

func (s *ProfileStore) listCompletedTasks(profileID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT task_id FROM profile_completed_tasks WHERE profile_id = ? ORDER BY completed_at ASC, task_id ASC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed task: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateDetails changes the editable personal fields only; gamification and
// wallet counters are never writable through this path.
func (s *ProfileStore) UpdateDetails(userID int64, bio string, dateOfBirth *time.Time, gender string) (*model.Profile, error) {
	var dob sql.NullTime
	if dateOfBirth != nil {
		dob = sql.NullTime{Time: *dateOfBirth, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE profiles SET bio = ?, date_of_birth = ?, gender = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		bio, dob, gender, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByUserID(userID)
}

// SaveQuestionnaire stores the skin and hair questionnaire answers and flags
// the profile as completed.
func (s *ProfileStore) SaveQuestionnaire(userID int64, skin model.SkinProfile, hair model.HairProfile) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET
			skin_type = ?, skin_concerns = ?, skin_goals = ?, sensitivity = ?,
			hair_type = ?, hair_texture = ?, scalp_type = ?, hair_concerns = ?, hair_goals = ?,
			profile_completed = 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`,
		skin.SkinType, encodeList(skin.SkinConcerns), encodeList(skin.SkinGoals), skin.Sensitivity,
		hair.HairType, hair.HairTexture, hair.ScalpType, encodeList(hair.HairConcerns), encodeList(hair.HairGoals),
		userID,
	)
	if err != nil {
		return fmt.Errorf("save questionnaire: %w", err)
	}
	return nil
}

// SaveRecommendations stores the generated routines and tips.
func (s *ProfileStore) SaveRecommendations(userID int64, skinRoutine, hairRoutine, tips []string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET skin_routine = ?, hair_routine = ?, tips = ?,
			recommendations_updated_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`,
		encodeList(skinRoutine), encodeList(hairRoutine), encodeList(tips), userID,
	)
	if err != nil {
		return fmt.Errorf("save recommendations: %w", err)
	}
	return nil
}

// Wallet returns the spendable balances for a user.
func (s *ProfileStore) Wallet(userID int64) (*model.Wallet, error) {
	var w model.Wallet
	err := s.db.QueryRow(
		`SELECT discount_points, gift_points FROM profiles WHERE user_id = ?`, userID,
	).Scan(&w.DiscountPoints, &w.GiftPoints)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}
