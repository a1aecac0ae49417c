package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/loyalty"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/recommend"
	"github.com/eclatbeaute/eclat/internal/store"
	"github.com/eclatbeaute/eclat/internal/websocket"
)

type ProfileHandler struct {
	profiles  *store.ProfileStore
	tasks     *store.TaskStore
	loyalty   *loyalty.Service
	generator *recommend.Generator
	hub       *websocket.Hub
	log       *slog.Logger
}

func NewProfileHandler(profiles *store.ProfileStore, tasks *store.TaskStore, svc *loyalty.Service, generator *recommend.Generator, hub *websocket.Hub, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		tasks:     tasks,
		loyalty:   svc,
		generator: generator,
		hub:       hub,
		log:       log.With("component", "profile"),
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetByUserID(auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("get profile", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profil non trouvé")
		return
	}
	respondData(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Bio         string `json:"bio"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	var dob *time.Time
	if strings.TrimSpace(req.DateOfBirth) != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Date de naissance invalide (format attendu: AAAA-MM-JJ)")
			return
		}
		dob = &parsed
	}

	profile, err := h.profiles.UpdateDetails(auth.UserID(r.Context()), strings.TrimSpace(req.Bio), dob, strings.TrimSpace(req.Gender))
	if err != nil {
		h.log.Error("update profile", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de mettre à jour le profil")
		return
	}
	respond(w, http.StatusOK, "Profil mis à jour", profile)
}

type onboardingRequest struct {
	Skin model.SkinProfile `json:"skin_profile"`
	Hair model.HairProfile `json:"hair_profile"`
}

// Onboarding saves the questionnaire, pays the completion bonus once,
// generates the personalized plan and materializes its missions.
func (h *ProfileHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if !req.Skin.Validate() {
		respondError(w, http.StatusBadRequest, "Profil peau invalide")
		return
	}
	if !req.Hair.Validate() {
		respondError(w, http.StatusBadRequest, "Profil cheveux invalide")
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.profiles.SaveQuestionnaire(userID, req.Skin, req.Hair); err != nil {
		h.log.Error("save questionnaire", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible d'enregistrer le questionnaire")
		return
	}

	bonus, err := h.loyalty.AwardQuestionnaireBonus(userID)
	if err != nil {
		h.log.Error("award questionnaire bonus", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if bonus.First {
		h.hub.Publish(userID, websocket.Event{
			Type: websocket.EventBadgeEarned,
			Data: map[string]any{"badge": bonus.BadgeEarned, "points": bonus.PointsAwarded},
		})
	}

	plan := h.generator.Generate(r.Context(), req.Skin, req.Hair)

	created, err := h.tasks.CreateBatch(recommend.Materialize(plan, userID, time.Now().UTC()))
	if err != nil {
		h.log.Error("create onboarding tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de créer les missions")
		return
	}

	if err := h.profiles.SaveRecommendations(userID, plan.SkinRoutine, plan.HairRoutine, plan.Tips); err != nil {
		h.log.Error("save recommendations", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible d'enregistrer les recommandations")
		return
	}

	h.log.Info("onboarding completed", "user_id", userID, "source", plan.Source, "tasks", len(created))
	respond(w, http.StatusCreated, "Bienvenue ! Vos missions personnalisées sont prêtes.", map[string]any{
		"tasks": created,
		"recommendations": map[string]any{
			"skin_routine": plan.SkinRoutine,
			"hair_routine": plan.HairRoutine,
			"tips":         plan.Tips,
		},
		"source":       plan.Source,
		"bonus_points": bonus.PointsAwarded,
	})
}

// RefreshRecommendations regenerates routines and tips from the stored
// questionnaire without touching tasks or bonuses.
func (h *ProfileHandler) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	profile, err := h.profiles.GetByUserID(userID)
	if err != nil {
		h.log.Error("get profile", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if profile == nil || !profile.ProfileCompleted {
		respondError(w, http.StatusBadRequest, "Complétez d'abord le questionnaire beauté")
		return
	}

	plan := h.generator.Generate(r.Context(), profile.Skin, profile.Hair)
	if err := h.profiles.SaveRecommendations(userID, plan.SkinRoutine, plan.HairRoutine, plan.Tips); err != nil {
		h.log.Error("save recommendations", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible d'enregistrer les recommandations")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"skin_routine": plan.SkinRoutine,
		"hair_routine": plan.HairRoutine,
		"tips":         plan.Tips,
		"source":       plan.Source,
	})
}
