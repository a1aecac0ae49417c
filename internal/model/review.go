package model

import "time"

type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ProductID      int64     `json:"product_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	Sentiment      *string   `json:"sentiment,omitempty"`
	SentimentScore *int      `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
