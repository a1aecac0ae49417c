package model

import "time"

// QuizCategory narrows what a product quiz asks about.
type QuizCategory string

const (
	QuizIngredients  QuizCategory = "ingredients"
	QuizUsage        QuizCategory = "usage"
	QuizBenefits     QuizCategory = "benefits"
	QuizSkincareType QuizCategory = "skincare_type"
)

func (c QuizCategory) Valid() bool {
	switch c {
	case QuizIngredients, QuizUsage, QuizBenefits, QuizSkincareType:
		return true
	}
	return false
}

type QuizDifficulty string

const (
	DifficultyEasy   QuizDifficulty = "facile"
	DifficultyMedium QuizDifficulty = "moyen"
	DifficultyHard   QuizDifficulty = "difficile"
)

func (d QuizDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuizQuestion stores the correct choice as an index into Options.
type QuizQuestion struct {
	Text        string         `json:"text"`
	Options     []string       `json:"options"`
	Answer      int            `json:"answer"`
	Explanation string         `json:"explanation,omitempty"`
	Difficulty  QuizDifficulty `json:"difficulty,omitempty"`
}

// QuizStats are running aggregates over all submissions of one quiz.
type QuizStats struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
	AverageTime  float64 `json:"average_time"`
}

type Quiz struct {
	ID               int64          `json:"id"`
	ProductID        int64          `json:"product_id"`
	Category         QuizCategory   `json:"category"`
	Questions        []QuizQuestion `json:"questions"`
	PointsPerCorrect int            `json:"points_per_correct"`
	PerfectBonus     int            `json:"perfect_bonus"`
	Stats            QuizStats      `json:"stats"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// QuizAnswer is one graded answer, in question order.
type QuizAnswer struct {
	SelectedIndex int  `json:"selected_index"`
	Correct       bool `json:"correct"`
	TimeSpent     int  `json:"time_spent"`
}

type QuizResult struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"user_id"`
	QuizID         int64        `json:"quiz_id"`
	Answers        []QuizAnswer `json:"answers"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Percentage     int          `json:"percentage"`
	PointsEarned   int          `json:"points_earned"`
	Badges         []string     `json:"badges"`
	TotalTime      int          `json:"total_time"`
	CompletedAt    time.Time    `json:"completed_at"`
}

// QuizResultStats aggregate a user's whole quiz history.
type QuizResultStats struct {
	QuizzesCompleted  int      `json:"quizzes_completed"`
	AveragePercentage float64  `json:"average_percentage"`
	TotalPointsEarned int      `json:"total_points_earned"`
	Badges            []string `json:"badges"`
}

// QuizLeaderboardEntry ranks users by points earned across all quizzes.
type QuizLeaderboardEntry struct {
	UserID            int64   `json:"user_id"`
	Username          string  `json:"username"`
	TotalPoints       int     `json:"total_points"`
	QuizzesCompleted  int     `json:"quizzes_completed"`
	AveragePercentage float64 `json:"average_percentage"`
}
