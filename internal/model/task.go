package model

import "time"

// TaskStatus is the mission lifecycle state. completed and expired are terminal.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskExpired    TaskStatus = "expired"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskExpired:
		return true
	}
	return false
}

type TaskType string

const (
	TaskDaily      TaskType = "daily"
	TaskWeekly     TaskType = "weekly"
	TaskOnboarding TaskType = "onboarding"
	TaskChallenge  TaskType = "challenge"
	TaskSpecial    TaskType = "special"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskDaily, TaskWeekly, TaskOnboarding, TaskChallenge, TaskSpecial:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategorySkincare TaskCategory = "skincare"
	CategoryHaircare TaskCategory = "haircare"
	CategoryRoutine  TaskCategory = "routine"
	CategoryShopping TaskCategory = "shopping"
	CategoryReview   TaskCategory = "review"
	CategorySocial   TaskCategory = "social"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategorySkincare, CategoryHaircare, CategoryRoutine, CategoryShopping, CategoryReview, CategorySocial:
		return true
	}
	return false
}

// Rewards is the payout applied exactly once, on the transition into completed.
type Rewards struct {
	Points         int    `json:"points"`
	DiscountPoints int    `json:"discount_points"`
	GiftPoints     int    `json:"gift_points"`
	Badge          string `json:"badge,omitempty"`
}

type Progress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

type Task struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Type        TaskType     `json:"type"`
	Category    TaskCategory `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Rewards     Rewards      `json:"rewards"`
	Status      TaskStatus   `json:"status"`
	Progress    Progress     `json:"progress"`
	AIGenerated bool         `json:"ai_generated"`
	ExpiresAt   *time.Time   `json:"expires_at"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskStats are the per-status counts returned alongside task listings.
type TaskStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}
