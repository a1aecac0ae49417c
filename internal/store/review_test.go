package store

import (
	"errors"
	"testing"

	"github.com/eclatbeaute/eclat/internal/database"
	"github.com/eclatbeaute/eclat/internal/model"
)

func setupReviewTestDB(t *testing.T) (*ReviewStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	u, err := NewUserStore(db).Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	p, err := NewProductStore(db).Create("Sérum Éclat", "", "skincare", 29.90, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return NewReviewStore(db), u.ID, p.ID
}

func TestReviewCreate(t *testing.T) {
	rs, userID, productID := setupReviewTestDB(t)

	sentiment := "positif"
	score := 4
	created, err := rs.Create(&model.Review{
		UserID:         userID,
		ProductID:      productID,
		Rating:         5,
		Comment:        "Texture légère, très agréable",
		Sentiment:      &sentiment,
		SentimentScore: &score,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Sentiment == nil || *created.Sentiment != "positif" {
		t.Errorf("sentiment = %v", created.Sentiment)
	}
	if created.SentimentScore == nil || *created.SentimentScore != 4 {
		t.Errorf("score = %v", created.SentimentScore)
	}
}

func TestReviewCreateWithoutSentiment(t *testing.T) {
	rs, userID, productID := setupReviewTestDB(t)

	created, err := rs.Create(&model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    3,
		Comment:   "Correct sans plus",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if created.Sentiment != nil || created.SentimentScore != nil {
		t.Errorf("sentiment should stay null, got %v / %v", created.Sentiment, created.SentimentScore)
	}
}

func TestReviewDuplicate(t *testing.T) {
	rs, userID, productID := setupReviewTestDB(t)

	first := &model.Review{UserID: userID, ProductID: productID, Rating: 5, Comment: "Top"}
	if _, err := rs.Create(first); err != nil {
		t.Fatalf("create review: %v", err)
	}

	_, err := rs.Create(&model.Review{UserID: userID, ProductID: productID, Rating: 1, Comment: "Changé d'avis"})
	if !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestReviewListWithAverage(t *testing.T) {
	rs, userID, productID := setupReviewTestDB(t)

	if _, err := rs.Create(&model.Review{UserID: userID, ProductID: productID, Rating: 5, Comment: "Excellent"}); err != nil {
		t.Fatalf("create review: %v", err)
	}

	reviews, avg, err := rs.ListByProduct(productID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	if avg != 5 {
		t.Errorf("average = %v, want 5", avg)
	}

	empty, avg, err := rs.ListByProduct(productID + 1)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(empty) != 0 || avg != 0 {
		t.Errorf("empty product: reviews=%d avg=%v", len(empty), avg)
	}
}

func TestReviewDeleteScopedToAuthor(t *testing.T) {
	rs, userID, productID := setupReviewTestDB(t)

	created, err := rs.Create(&model.Review{UserID: userID, ProductID: productID, Rating: 4, Comment: "Bien"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	deleted, err := rs.Delete(created.ID, userID+1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("review should only be deletable by its author")
	}

	deleted, err = rs.Delete(created.ID, userID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected author delete to succeed")
	}
}
