package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/store"
)

type AuthHandler struct {
	users  *store.UserStore
	secret []byte
	log    *slog.Logger
}

func NewAuthHandler(users *store.UserStore, secret []byte, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, log: log.With("component", "auth")}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "Adresse email invalide")
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "Le nom d'utilisateur est requis")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 8 caractères")
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.log.Error("lookup user", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "Cet email est déjà utilisé")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}

	user, err := h.users.Create(req.Email, req.Username, string(hash), model.RoleCustomer)
	if err != nil {
		h.log.Error("create user", "error", err)
		respondError(w, http.StatusInternalServerError, "Impossible de créer le compte")
		return
	}

	token, err := auth.IssueToken(h.secret, user.ID, user.Role, time.Now())
	if err != nil {
		h.log.Error("issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}

	respond(w, http.StatusCreated, "Compte créé avec succès", map[string]any{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	user, err := h.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.log.Error("lookup user", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}

	token, err := auth.IssueToken(h.secret, user.ID, user.Role, time.Now())
	if err != nil {
		h.log.Error("issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("get user", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "Utilisateur non trouvé")
		return
	}
	respondData(w, http.StatusOK, user)
}
