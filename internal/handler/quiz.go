package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/quiz"
	"github.com/eclatbeaute/eclat/internal/store"
)

// QuizHandler serves the persisted product quizzes: one quiz per product
// and angle, graded submissions with point rewards, per-user history and
// a leaderboard.
type QuizHandler struct {
	quizzes  *store.QuizStore
	products *store.ProductStore
	ai       *ai.Service
	log      *slog.Logger
}

func NewQuizHandler(quizzes *store.QuizStore, products *store.ProductStore, svc *ai.Service, log *slog.Logger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, products: products, ai: svc, log: log.With("component", "quiz")}
}

func quizCategoryOrDefault(raw string) (model.QuizCategory, bool) {
	if raw == "" {
		return model.QuizBenefits, true
	}
	c := model.QuizCategory(raw)
	return c, c.Valid()
}

type generateQuizRequest struct {
	Category     string `json:"category"`
	NumQuestions int    `json:"num_questions"`
}

// Generate creates the quiz for a product, with AI-written questions when
// the model is reachable. An existing quiz for the same angle is returned
// as is.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant de produit invalide")
		return
	}

	// An empty body means default category and question count.
	var req generateQuizRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	category, ok := quizCategoryOrDefault(req.Category)
	if !ok {
		respondError(w, http.StatusBadRequest, "Catégorie de quiz invalide")
		return
	}

	product, err := h.products.GetByID(productID)
	if err != nil {
		h.log.Error("load product", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Produit %d non trouvé", productID))
		return
	}

	if existing, err := h.quizzes.GetByProduct(productID, category); err != nil {
		h.log.Error("load quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	} else if existing != nil {
		respond(w, http.StatusOK, "Quiz existant récupéré", existing)
		return
	}

	questions := h.ai.GenerateProductQuiz(r.Context(), product.Name, category, req.NumQuestions)
	created, err := h.quizzes.Create(productID, category, questions, quiz.DefaultPointsPerCorrect, quiz.DefaultPerfectBonus)
	if err != nil {
		h.log.Error("create quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	respond(w, http.StatusCreated, "Quiz généré avec succès", created)
}

// Get returns a product's quiz, creating it with the static question set
// on first access.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant de produit invalide")
		return
	}
	category, ok := quizCategoryOrDefault(r.URL.Query().Get("category"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Catégorie de quiz invalide")
		return
	}

	existing, err := h.quizzes.GetByProduct(productID, category)
	if err != nil {
		h.log.Error("load quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if existing != nil {
		respondData(w, http.StatusOK, existing)
		return
	}

	product, err := h.products.GetByID(productID)
	if err != nil {
		h.log.Error("load product", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Produit %d non trouvé", productID))
		return
	}

	created, err := h.quizzes.Create(productID, category, ai.DefaultProductQuestions(product.Name), quiz.DefaultPointsPerCorrect, quiz.DefaultPerfectBonus)
	if err != nil {
		h.log.Error("create quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	respondData(w, http.StatusOK, created)
}

type submitQuizRequest struct {
	Answers   []quiz.SubmittedAnswer `json:"answers"`
	TotalTime int                    `json:"total_time"`
}

type quizFeedback struct {
	Score        string   `json:"score"`
	Percentage   string   `json:"percentage"`
	PointsEarned int      `json:"points_earned"`
	Badges       []string `json:"badges"`
}

type submitQuizResponse struct {
	Result   *model.QuizResult `json:"result"`
	Feedback quizFeedback      `json:"feedback"`
}

// Submit grades a submission, persists the result and folds it into the
// quiz statistics.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant de quiz invalide")
		return
	}
	var req submitQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if len(req.Answers) == 0 {
		respondError(w, http.StatusBadRequest, "Les réponses sont requises")
		return
	}

	q, err := h.quizzes.GetByID(quizID)
	if err != nil {
		h.log.Error("load quiz", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if q == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Quiz %d non trouvé", quizID))
		return
	}

	outcome := quiz.Grade(q.Questions, req.Answers, q.PointsPerCorrect, q.PerfectBonus)
	result, err := h.quizzes.SaveResult(&model.QuizResult{
		UserID:         auth.UserID(r.Context()),
		QuizID:         q.ID,
		Answers:        outcome.Answers,
		Score:          outcome.Score,
		TotalQuestions: len(q.Questions),
		Percentage:     outcome.Percentage,
		PointsEarned:   outcome.PointsEarned,
		Badges:         outcome.Badges,
		TotalTime:      req.TotalTime,
	})
	if err != nil {
		h.log.Error("save quiz result", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if err := h.quizzes.RecordAttempt(q.ID, outcome.Score, req.TotalTime); err != nil {
		h.log.Error("record quiz attempt", "quiz_id", q.ID, "error", err)
	}

	respond(w, http.StatusOK, "Quiz terminé", submitQuizResponse{
		Result: result,
		Feedback: quizFeedback{
			Score:        fmt.Sprintf("%d/%d", outcome.Score, len(q.Questions)),
			Percentage:   fmt.Sprintf("%d%%", outcome.Percentage),
			PointsEarned: outcome.PointsEarned,
			Badges:       outcome.Badges,
		},
	})
}

type quizHistoryResponse struct {
	Results []model.QuizResult    `json:"results"`
	Stats   model.QuizResultStats `json:"stats"`
}

// UserResults lists the caller's submissions, newest first, with aggregate
// statistics over the whole history.
func (h *QuizHandler) UserResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.quizzes.ResultsByUser(auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("list quiz results", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if results == nil {
		results = []model.QuizResult{}
	}

	stats := model.QuizResultStats{QuizzesCompleted: len(results), Badges: []string{}}
	seen := map[string]bool{}
	var pctSum int
	for _, res := range results {
		pctSum += res.Percentage
		stats.TotalPointsEarned += res.PointsEarned
		for _, b := range res.Badges {
			if !seen[b] {
				seen[b] = true
				stats.Badges = append(stats.Badges, b)
			}
		}
	}
	if len(results) > 0 {
		stats.AveragePercentage = float64(pctSum) / float64(len(results))
	}

	respondData(w, http.StatusOK, quizHistoryResponse{Results: results, Stats: stats})
}

// QuizResult returns the caller's most recent submission for one quiz.
func (h *QuizHandler) QuizResult(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant de quiz invalide")
		return
	}
	result, err := h.quizzes.LatestResult(auth.UserID(r.Context()), quizID)
	if err != nil {
		h.log.Error("load quiz result", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "Aucun résultat pour ce quiz")
		return
	}
	respondData(w, http.StatusOK, result)
}

// Leaderboard ranks users by points earned across all quizzes.
func (h *QuizHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Limite invalide")
			return
		}
		limit = parsed
	}
	entries, err := h.quizzes.Leaderboard(limit)
	if err != nil {
		h.log.Error("quiz leaderboard", "error", err)
		respondError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if entries == nil {
		entries = []model.QuizLeaderboardEntry{}
	}
	respondData(w, http.StatusOK, entries)
}
