package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/eclatbeaute/eclat/internal/model"
)

type QuizStore struct {
	db *sql.DB
}

func NewQuizStore(db *sql.DB) *QuizStore {
	return &QuizStore{db: db}
}

const quizCols = `id, product_id, category, questions, points_per_correct, perfect_bonus, attempts, average_score, average_time, created_at, updated_at`

func scanQuiz(scanner interface{ Scan(...any) error }) (*model.Quiz, error) {
	var q model.Quiz
	var questions string
	err := scanner.Scan(&q.ID, &q.ProductID, &q.Category, &questions, &q.PointsPerCorrect, &q.PerfectBonus,
		&q.Stats.Attempts, &q.Stats.AverageScore, &q.Stats.AverageTime, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &q.Questions); err != nil {
		return nil, fmt.Errorf("decode quiz questions: %w", err)
	}
	return &q, nil
}

func (s *QuizStore) Create(productID int64, category model.QuizCategory, questions []model.QuizQuestion, pointsPerCorrect, perfectBonus int) (*model.Quiz, error) {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encode quiz questions: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO quizzes (product_id, category, questions, points_per_correct, perfect_bonus) VALUES (?, ?, ?, ?, ?)`,
		productID, category, string(encoded), pointsPerCorrect, perfectBonus,
	)
	if err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *QuizStore) GetByID(id int64) (*model.Quiz, error) {
	row := s.db.QueryRow(`SELECT `+quizCols+` FROM quizzes WHERE id = ?`, id)
	q, err := scanQuiz(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

func (s *QuizStore) GetByProduct(productID int64, category model.QuizCategory) (*model.Quiz, error) {
	row := s.db.QueryRow(`SELECT `+quizCols+` FROM quizzes WHERE product_id = ? AND category = ?`, productID, category)
	q, err := scanQuiz(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz by product: %w", err)
	}
	return q, nil
}

// RecordAttempt folds one submission into the quiz's running averages.
// The expressions read the pre-update column values, so a single UPDATE
// keeps the math atomic.
func (s *QuizStore) RecordAttempt(quizID int64, score, totalTime int) error {
	_, err := s.db.Exec(
		`UPDATE quizzes SET
			average_score = (average_score * attempts + ?) / (attempts + 1),
			average_time = (average_time * attempts + ?) / (attempts + 1),
			attempts = attempts + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		score, totalTime, quizID,
	)
	if err != nil {
		return fmt.Errorf("record quiz attempt: %w", err)
	}
	return nil
}

const quizResultCols = `id, user_id, quiz_id, answers, score, total_questions, percentage, points_earned, badges, total_time, completed_at`

func scanQuizResult(scanner interface{ Scan(...any) error }) (*model.QuizResult, error) {
	var r model.QuizResult
	var answers, badges string
	err := scanner.Scan(&r.ID, &r.UserID, &r.QuizID, &answers, &r.Score, &r.TotalQuestions,
		&r.Percentage, &r.PointsEarned, &badges, &r.TotalTime, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode result answers: %w", err)
	}
	r.Badges = decodeList(badges)
	return &r, nil
}

func (s *QuizStore) SaveResult(r *model.QuizResult) (*model.QuizResult, error) {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode result answers: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO quiz_results (user_id, quiz_id, answers, score, total_questions, percentage, points_earned, badges, total_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.QuizID, string(answers), r.Score, r.TotalQuestions, r.Percentage, r.PointsEarned, encodeList(r.Badges), r.TotalTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert quiz result: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+quizResultCols+` FROM quiz_results WHERE id = ?`, id)
	saved, err := scanQuizResult(row)
	if err != nil {
		return nil, fmt.Errorf("get quiz result: %w", err)
	}
	return saved, nil
}

func (s *QuizStore) ResultsByUser(userID int64) ([]model.QuizResult, error) {
	rows, err := s.db.Query(
		`SELECT `+quizResultCols+` FROM quiz_results WHERE user_id = ? ORDER BY completed_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		r, err := scanQuizResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// LatestResult returns the user's most recent submission for one quiz,
// or nil when they have not taken it.
func (s *QuizStore) LatestResult(userID, quizID int64) (*model.QuizResult, error) {
	row := s.db.QueryRow(
		`SELECT `+quizResultCols+` FROM quiz_results WHERE user_id = ? AND quiz_id = ? ORDER BY completed_at DESC, id DESC LIMIT 1`,
		userID, quizID,
	)
	r, err := scanQuizResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest quiz result: %w", err)
	}
	return r, nil
}

func (s *QuizStore) Leaderboard(limit int) ([]model.QuizLeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT r.user_id, u.username, SUM(r.points_earned), COUNT(*), AVG(r.percentage)
		 FROM quiz_results r
		 JOIN users u ON u.id = r.user_id
		 GROUP BY r.user_id, u.username
		 ORDER BY SUM(r.points_earned) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("quiz leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.QuizLeaderboardEntry
	for rows.Next() {
		var e model.QuizLeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalPoints, &e.QuizzesCompleted, &e.AveragePercentage); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
