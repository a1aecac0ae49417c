package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eclatbeaute/eclat/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, user_id, type, category, title, description, icon,
	reward_points, reward_discount_points, reward_gift_points, reward_badge,
	status, progress_current, progress_target, ai_generated,
	expires_at, completed_at, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var badge sql.NullString
	var expiresAt, completedAt sql.NullTime
	var aiGenerated int

	err := scanner.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Category, &t.Title, &t.Description, &t.Icon,
		&t.Rewards.Points, &t.Rewards.DiscountPoints, &t.Rewards.GiftPoints, &badge,
		&t.Status, &t.Progress.Current, &t.Progress.Target, &aiGenerated,
		&expiresAt, &completedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if badge.Valid {
		t.Rewards.Badge = badge.String
	}
	if expiresAt.Valid {
		t.ExpiresAt = &expiresAt.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	t.AIGenerated = aiGenerated != 0
	return &t, nil
}

func (s *TaskStore) Create(t *model.Task) (*model.Task, error) {
	id, err := insertTask(s.db, t)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id, t.UserID)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertTask(db execer, t *model.Task) (int64, error) {
	var badge sql.NullString
	if t.Rewards.Badge != "" {
		badge = sql.NullString{String: t.Rewards.Badge, Valid: true}
	}
	var expiresAt sql.NullTime
	if t.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *t.ExpiresAt, Valid: true}
	}
	var aiGenerated int
	if t.AIGenerated {
		aiGenerated = 1
	}

	result, err := db.Exec(
		`INSERT INTO tasks (user_id, type, category, title, description, icon,
			reward_points, reward_discount_points, reward_gift_points, reward_badge,
			status, progress_current, progress_target, ai_generated, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Type, t.Category, t.Title, t.Description, t.Icon,
		t.Rewards.Points, t.Rewards.DiscountPoints, t.Rewards.GiftPoints, badge,
		t.Status, t.Progress.Current, t.Progress.Target, aiGenerated, expiresAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// CreateBatch inserts tasks atomically; used for onboarding materialization.
func (s *TaskStore) CreateBatch(tasks []model.Task) ([]model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(tasks))
	for i := range tasks {
		id, err := insertTask(tx, &tasks[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	created := make([]model.Task, 0, len(ids))
	for i, id := range ids {
		t, err := s.GetByID(id, tasks[i].UserID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			created = append(created, *t)
		}
	}
	return created, nil
}

func (s *TaskStore) GetByID(id, userID int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Filter narrows List; empty fields match everything.
type TaskFilter struct {
	Status   model.TaskStatus
	Type     model.TaskType
	Category model.TaskCategory
}

// List returns a user's tasks grouped by status in lexicographic order,
// newest first within a status.
func (s *TaskStore) List(userID int64, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskCols + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY status ASC, created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Stats returns the per-status counts for a user's tasks.
func (s *TaskStore) Stats(userID int64) (*model.TaskStats, error) {
	rows, err := s.db.Query(
		`SELECT status, COUNT(*) FROM tasks WHERE user_id = ? GROUP BY status`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	var stats model.TaskStats
	for rows.Next() {
		var status model.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		switch status {
		case model.TaskPending:
			stats.Pending = count
		case model.TaskInProgress:
			stats.InProgress = count
		case model.TaskCompleted:
			stats.Completed = count
		}
	}
	return &stats, rows.Err()
}

// Delete removes a task owned by the user. No reward reversal: deleting a
// completed task does not claw back points.
func (s *TaskStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired removes all of a user's non-completed tasks past their
// deadline. Idempotent.
func (s *TaskStore) DeleteExpired(userID int64, now time.Time) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM tasks WHERE user_id = ? AND status != ? AND expires_at IS NOT NULL AND expires_at < ?`,
		userID, model.TaskCompleted, now,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired tasks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ListExpiringBetween returns non-completed tasks whose deadline falls in
// [from, to), across all users. Used by the reminder scheduler.
func (s *TaskStore) ListExpiringBetween(from, to time.Time) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks
		WHERE status != ? AND expires_at IS NOT NULL AND expires_at >= ? AND expires_at < ?
		ORDER BY expires_at ASC`,
		model.TaskCompleted, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
