package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/model"
)

type AIHandler struct {
	ai  *ai.Service
	log *slog.Logger
}

func NewAIHandler(svc *ai.Service, log *slog.Logger) *AIHandler {
	return &AIHandler{ai: svc, log: log.With("component", "ai")}
}

type descriptionRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (h *AIHandler) Description(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Le nom du produit est requis")
		return
	}

	description, err := h.ai.ProductDescription(r.Context(), req.Name, req.Category)
	if err != nil {
		h.log.Warn("description generation failed", "error", err)
		respondError(w, http.StatusBadGateway, "Le service de génération est indisponible")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"description": description})
}

type sentimentRequest struct {
	Text string `json:"text"`
}

func (h *AIHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "Le texte à analyser est requis")
		return
	}

	sentiment, err := h.ai.AnalyzeSentiment(r.Context(), req.Text)
	if err != nil {
		h.log.Warn("sentiment analysis failed", "error", err)
		respondError(w, http.StatusBadGateway, "Le service d'analyse est indisponible")
		return
	}
	respondData(w, http.StatusOK, sentiment)
}

type chatRequest struct {
	Question string `json:"question"`
}

// Chat always answers: the service falls back to its rule table when the
// model is unreachable.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "La question est requise")
		return
	}
	answer := h.ai.Chat(r.Context(), req.Question)
	respondData(w, http.StatusOK, map[string]string{"answer": answer})
}

type adviceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *AIHandler) TaskAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Le titre de la mission est requis")
		return
	}
	advice := h.ai.TaskAdvice(r.Context(), req.Title, req.Description, model.TaskCategory(req.Category))
	respondData(w, http.StatusOK, map[string]string{"advice": advice})
}

type quizRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

func (h *AIHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		req.Topic = "soins de la peau"
	}
	quiz := h.ai.GenerateQuiz(r.Context(), req.Topic, req.Difficulty)
	respondData(w, http.StatusOK, quiz)
}
