package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/store"
)

type ReviewHandler struct {
	reviews  *store.ReviewStore
	products *store.ProductStore
	ai       *ai.Service
	log      *slog.Logger
}

func NewReviewHandler(reviews *store.ReviewStore, products *store.ProductStore, aiSvc *ai.Service, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, products: products, ai: aiSvc, log: log.With("component", "review")}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create posts a review on a product. Sentiment analysis is best-effort:
// when the AI client is unavailable the review is stored without it.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "La note doit être comprise entre 1 et 5")
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" {
		respondError(w, http.StatusBadRequest, "Le commentaire est requis")
		return
	}

	product, err := h.products.GetByID(productID)
	if err != nil {
		h.log.Error("get product", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "Produit non trouvé")
		return
	}

	review := &model.Review{
		UserID:    auth.UserID(r.Context()),
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if h.ai.Configured() {
		if sentiment, err := h.ai.AnalyzeSentiment(r.Context(), req.Comment); err == nil {
			review.Sentiment = &sentiment.Sentiment
			review.SentimentScore = &sentiment.Score
		} else {
			h.log.Warn("sentiment analysis failed", "error", err)
		}
	}

	created, err := h.reviews.Create(review)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateReview) {
			respondError(w, http.StatusConflict, "Vous avez déjà donné votre avis sur ce produit")
			return
		}
		h.log.Error("create review", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible d'enregistrer l'avis")
		return
	}
	respond(w, http.StatusCreated, "Merci pour votre avis !", created)
}

func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	reviews, average, err := h.reviews.ListByProduct(productID)
	if err != nil {
		h.log.Error("list reviews", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"average": average,
		"count":   len(reviews),
	})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	deleted, err := h.reviews.Delete(id, auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("delete review", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Avis non trouvé")
		return
	}
	respond(w, http.StatusOK, "Avis supprimé", nil)
}
