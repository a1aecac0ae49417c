package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eclatbeaute/eclat/internal/model"
)

// ErrDuplicateReview signals a second review by the same user on the same
// product.
var ErrDuplicateReview = errors.New("user already reviewed this product")

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewCols = `id, user_id, product_id, rating, comment, sentiment, sentiment_score, created_at`

func scanReview(scanner interface{ Scan(...any) error }) (*model.Review, error) {
	var r model.Review
	var sentiment sql.NullString
	var score sql.NullInt64
	err := scanner.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &sentiment, &score, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sentiment.Valid {
		r.Sentiment = &sentiment.String
	}
	if score.Valid {
		n := int(score.Int64)
		r.SentimentScore = &n
	}
	return &r, nil
}

func (s *ReviewStore) Create(r *model.Review) (*model.Review, error) {
	result, err := s.db.Exec(
		`INSERT INTO reviews (user_id, product_id, rating, comment, sentiment, sentiment_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.ProductID, r.Rating, r.Comment, r.Sentiment, r.SentimentScore,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReviewStore) GetByID(id int64) (*model.Review, error) {
	row := s.db.QueryRow(`SELECT `+reviewCols+` FROM reviews WHERE id = ?`, id)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

// ListByProduct returns a product's reviews newest first plus the average
// rating over all of them.
func (s *ReviewStore) ListByProduct(productID int64) ([]model.Review, float64, error) {
	rows, err := s.db.Query(
		`SELECT `+reviewCols+` FROM reviews WHERE product_id = ? ORDER BY created_at DESC, id DESC`,
		productID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var avg float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}
	return reviews, avg, nil
}

// Delete removes a review if it belongs to the given user. Returns whether a
// row was deleted.
func (s *ReviewStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM reviews WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
