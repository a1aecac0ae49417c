package loyalty

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclatbeaute/eclat/internal/model"
)

// ErrTaskNotFound covers both a missing task and a task owned by someone
// else.
var ErrTaskNotFound = errors.New("task not found")

// Service applies ledger mutations. Every write path runs in a single
// transaction with conditional updates, so concurrent completions and debits
// serialize in the database instead of racing in memory.
type Service struct {
	db  *sql.DB
	log *slog.Logger
}

func NewService(db *sql.DB, log *slog.Logger) *Service {
	return &Service{db: db, log: log.With("component", "loyalty")}
}

// Result reports what a task mutation changed, so callers can render the
// response and emit events without re-reading the profile.
type Result struct {
	TaskID                 int64
	Completed              bool
	Status                 model.TaskStatus
	Progress               model.Progress
	PointsAwarded          int
	DiscountPointsAwarded  int
	GiftPointsAwarded      int
	TotalPoints            int
	Level                  int
	LeveledUp              bool
	BadgesEarned           []string
	OnboardingBonusAwarded bool
}

// BonusResult reports the questionnaire completion bonus.
type BonusResult struct {
	First         bool
	PointsAwarded int
	TotalPoints   int
	Level         int
	BadgeEarned   string
}

type taskRow struct {
	id      int64
	typ     model.TaskType
	status  model.TaskStatus
	current int
	target  int
	rewards model.Rewards
}

func loadTask(tx *sql.Tx, taskID, userID int64) (*taskRow, error) {
	var row taskRow
	var badge sql.NullString
	err := tx.QueryRow(
		`SELECT id, type, status, progress_current, progress_target,
			reward_points, reward_discount_points, reward_gift_points, reward_badge
		FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, userID,
	).Scan(
		&row.id, &row.typ, &row.status, &row.current, &row.target,
		&row.rewards.Points, &row.rewards.DiscountPoints, &row.rewards.GiftPoints, &badge,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if badge.Valid {
		row.rewards.Badge = badge.String
	}
	return &row, nil
}

// CompleteTask flips a task to completed and pays out its rewards.
func (s *Service) CompleteTask(userID, taskID int64, now time.Time) (*Result, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	task, err := loadTask(tx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := CheckActive(task.status); err != nil {
		return nil, err
	}

	result, err := s.completeInTx(tx, userID, task, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// UpdateProgress moves a task's progress counter. Reaching the target
// completes the task and pays out exactly as CompleteTask would.
func (s *Service) UpdateProgress(userID, taskID int64, current int, now time.Time) (*Result, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	task, err := loadTask(tx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := CheckActive(task.status); err != nil {
		return nil, err
	}

	clamped := ClampProgress(current, task.target)
	next := NextStatus(clamped, task.target)

	var result *Result
	if next == model.TaskCompleted {
		result, err = s.completeInTx(tx, userID, task, now)
		if err != nil {
			return nil, err
		}
	} else {
		_, err := tx.Exec(
			`UPDATE tasks SET progress_current = ?, status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ? AND status NOT IN (?, ?)`,
			clamped, next, taskID, userID, model.TaskCompleted, model.TaskExpired,
		)
		if err != nil {
			return nil, fmt.Errorf("update progress: %w", err)
		}
		result = &Result{
			TaskID:   taskID,
			Status:   next,
			Progress: model.Progress{Current: clamped, Target: task.target},
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// AwardQuestionnaireBonus credits the one-time profile completion bonus. The
// badge insert doubles as the idempotency check, so repeated questionnaire
// submissions pay out once.
func (s *Service) AwardQuestionnaireBonus(userID int64) (*BonusResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	profileID, err := profileIDForUser(tx, userID)
	if err != nil {
		return nil, err
	}

	first, err := awardBadge(tx, profileID, QuestionnaireBadge)
	if err != nil {
		return nil, err
	}

	result := &BonusResult{First: first}
	if first {
		total, err := credit(tx, userID, QuestionnaireBonusPoints, 0, 0)
		if err != nil {
			return nil, err
		}
		if _, err := syncLevel(tx, profileID, total); err != nil {
			return nil, err
		}
		result.PointsAwarded = QuestionnaireBonusPoints
		result.TotalPoints = total
		result.Level = Level(total)
		result.BadgeEarned = QuestionnaireBadge
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if first {
		s.log.Info("questionnaire bonus awarded", "user_id", userID, "points", QuestionnaireBonusPoints)
	}
	return result, nil
}

// completeInTx performs the completed flip, reward payout, badge and
// completed-set inserts, and the onboarding set bonus, all on the caller's
// transaction.
func (s *Service) completeInTx(tx *sql.Tx, userID int64, task *taskRow, now time.Time) (*Result, error) {
	res, err := tx.Exec(
		`UPDATE tasks SET status = ?, progress_current = progress_target,
			completed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND status NOT IN (?, ?)`,
		model.TaskCompleted, now, task.id, userID, model.TaskCompleted, model.TaskExpired,
	)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrAlreadyCompleted
	}

	profileID, err := profileIDForUser(tx, userID)
	if err != nil {
		return nil, err
	}

	total, err := credit(tx, userID, task.rewards.Points, task.rewards.DiscountPoints, task.rewards.GiftPoints)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TaskID:                task.id,
		Completed:             true,
		Status:                model.TaskCompleted,
		Progress:              model.Progress{Current: task.target, Target: task.target},
		PointsAwarded:         task.rewards.Points,
		DiscountPointsAwarded: task.rewards.DiscountPoints,
		GiftPointsAwarded:     task.rewards.GiftPoints,
	}

	leveledUp, err := syncLevel(tx, profileID, total)
	if err != nil {
		return nil, err
	}
	if leveledUp {
		result.LeveledUp = true
		result.BadgesEarned = append(result.BadgesEarned, LevelBadge(Level(total)))
	}
	if task.rewards.Badge != "" {
		earned, err := awardBadge(tx, profileID, task.rewards.Badge)
		if err != nil {
			return nil, err
		}
		if earned {
			result.BadgesEarned = append(result.BadgesEarned, task.rewards.Badge)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO profile_completed_tasks (profile_id, task_id, completed_at) VALUES (?, ?, ?)`,
		profileID, task.id, now,
	); err != nil {
		return nil, fmt.Errorf("record completed task: %w", err)
	}

	if task.typ == model.TaskOnboarding {
		bonus, bonusTotal, err := s.maybeAwardOnboardingBonus(tx, userID, profileID)
		if err != nil {
			return nil, err
		}
		if bonus {
			total = bonusTotal
			result.OnboardingBonusAwarded = true
			result.PointsAwarded += OnboardingBonusPoints
			result.DiscountPointsAwarded += OnboardingBonusDiscountPoints
			result.BadgesEarned = append(result.BadgesEarned, OnboardingBonusBadge)
			leveledUp, err := syncLevel(tx, profileID, total)
			if err != nil {
				return nil, err
			}
			if leveledUp {
				result.LeveledUp = true
				result.BadgesEarned = append(result.BadgesEarned, LevelBadge(Level(total)))
			}
		}
	}

	result.TotalPoints = total
	result.Level = Level(total)
	return result, nil
}

// maybeAwardOnboardingBonus pays the set bonus once all onboarding tasks are
// done. The conditional flag flip enforces at most one payout per profile.
func (s *Service) maybeAwardOnboardingBonus(tx *sql.Tx, userID, profileID int64) (bool, int, error) {
	var remaining int
	err := tx.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE user_id = ? AND type = ? AND status != ?`,
		userID, model.TaskOnboarding, model.TaskCompleted,
	).Scan(&remaining)
	if err != nil {
		return false, 0, fmt.Errorf("count onboarding tasks: %w", err)
	}
	if remaining > 0 {
		return false, 0, nil
	}

	res, err := tx.Exec(
		`UPDATE profiles SET onboarding_bonus_awarded = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND onboarding_bonus_awarded = 0`,
		profileID,
	)
	if err != nil {
		return false, 0, fmt.Errorf("flag onboarding bonus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, 0, nil
	}

	total, err := credit(tx, userID, OnboardingBonusPoints, OnboardingBonusDiscountPoints, 0)
	if err != nil {
		return false, 0, err
	}
	if _, err := awardBadge(tx, profileID, OnboardingBonusBadge); err != nil {
		return false, 0, err
	}

	s.log.Info("onboarding bonus awarded", "user_id", userID,
		"points", OnboardingBonusPoints, "discount_points", OnboardingBonusDiscountPoints)
	return true, total, nil
}

// credit applies an atomic increment and returns the new total points.
func credit(tx *sql.Tx, userID int64, points, discountPoints, giftPoints int) (int, error) {
	_, err := tx.Exec(
		`UPDATE profiles SET total_points = total_points + ?,
			discount_points = discount_points + ?, gift_points = gift_points + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`,
		points, discountPoints, giftPoints, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("credit profile: %w", err)
	}
	var total int
	if err := tx.QueryRow(`SELECT total_points FROM profiles WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("read total points: %w", err)
	}
	return total, nil
}

// syncLevel stores the level derived from the new total and reports whether
// it increased. A level increase also persists the matching level badge.
func syncLevel(tx *sql.Tx, profileID int64, total int) (bool, error) {
	var stored int
	if err := tx.QueryRow(`SELECT level FROM profiles WHERE id = ?`, profileID).Scan(&stored); err != nil {
		return false, fmt.Errorf("read level: %w", err)
	}
	level := Level(total)
	if level <= stored {
		return false, nil
	}
	if _, err := tx.Exec(`UPDATE profiles SET level = ? WHERE id = ?`, level, profileID); err != nil {
		return false, fmt.Errorf("update level: %w", err)
	}
	if _, err := awardBadge(tx, profileID, LevelBadge(level)); err != nil {
		return false, err
	}
	return true, nil
}

func profileIDForUser(tx *sql.Tx, userID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM profiles WHERE user_id = ?`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("profile for user %d not found", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("get profile id: %w", err)
	}
	return id, nil
}

func awardBadge(tx *sql.Tx, profileID int64, label string) (bool, error) {
	res, err := tx.Exec(
		`INSERT OR IGNORE INTO profile_badges (profile_id, label) VALUES (?, ?)`,
		profileID, label,
	)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
